package config

import (
	"encoding/json"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func TestSecretString_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input SecretString
		want  string
	}{
		{"empty string", "", "null"},
		{"non-empty string", "my-secret-password", `"` + SecretStringValue + `"`},
		{"short string", "x", `"` + SecretStringValue + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSecretString_MarshalJSON_InStruct(t *testing.T) {
	s := struct {
		Key SecretString `json:"key"`
	}{Key: "api-key-value"}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "api-key-value") {
		t.Errorf("secret leaked into JSON: %s", data)
	}
}

func TestSecretString_MarshalYAML(t *testing.T) {
	s := struct {
		Key SecretString `yaml:"key"`
	}{Key: "api-key-value"}

	data, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "api-key-value") {
		t.Errorf("secret leaked into YAML: %s", data)
	}
	if !strings.Contains(string(data), SecretStringValue) {
		t.Errorf("expected %q placeholder in YAML: %s", SecretStringValue, data)
	}
}

func TestSecretString_Value_EnvFallback(t *testing.T) {
	t.Setenv(APIKeyEnvName, "from-env")

	var empty SecretString
	if got := empty.Value(); got != "from-env" {
		t.Errorf("Value() with empty secret = %q, want env fallback", got)
	}

	set := SecretString("explicit")
	if got := set.Value(); got != "explicit" {
		t.Errorf("Value() = %q, want explicit value to win over env", got)
	}
}
