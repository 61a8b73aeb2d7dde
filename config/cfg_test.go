package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("Default provider = %q, want gemini", cfg.AI.Provider)
	}
	if cfg.Document.SummarySlideTitles != 5 {
		t.Errorf("SummarySlideTitles = %d, want 5", cfg.Document.SummarySlideTitles)
	}
	if len(cfg.Document.FallbackFonts) != 4 {
		t.Errorf("FallbackFonts = %v, want 4 entries", cfg.Document.FallbackFonts)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  fix_zip: true
  file_name_transliterate: true
  summary_slide_titles: 3
ai:
  provider: openai
  model: gpt-4o
  api_key: sk-test
  timeout_sec: 30
logging:
  console:
    level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Document.FixZip {
		t.Error("Expected FixZip to be true")
	}
	if cfg.Document.SummarySlideTitles != 3 {
		t.Errorf("SummarySlideTitles = %d, want 3", cfg.Document.SummarySlideTitles)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.AI.Model)
	}
	// values not mentioned in the file keep template defaults
	if cfg.AI.MaxOutputTokens != 4000 {
		t.Errorf("MaxOutputTokens = %d, want default 4000", cfg.AI.MaxOutputTokens)
	}
	if cfg.Document.DefaultTitle != "Generated Presentation" {
		t.Errorf("DefaultTitle = %q, want template default", cfg.Document.DefaultTitle)
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  no_such_knob: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("LoadConfiguration() should reject unknown fields")
	}
}

func TestLoadConfiguration_BadProvider(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
ai:
  provider: skynet
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("LoadConfiguration() should reject unknown provider")
	}
}

func TestDump_MasksAPIKey(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.AI.APIKey = "very-secret-key"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if strings.Contains(string(data), "very-secret-key") {
		t.Error("Dump() leaked API key")
	}
	if !strings.Contains(string(data), SecretStringValue) {
		t.Errorf("Dump() should contain %q placeholder", SecretStringValue)
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"gemini", ProviderGemini, false},
		{"OpenAI", ProviderOpenAI, false},
		{"ANTHROPIC", ProviderAnthropic, false},
		{"", 0, true},
		{"skynet", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseProvider(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseProvider(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseProvider(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProviderDefaultModel(t *testing.T) {
	for _, p := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		if p.DefaultModel() == "" {
			t.Errorf("Provider %s has no default model", p)
		}
	}
}
