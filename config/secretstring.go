package config

import "os"

// SecretStringValue must be exported - used in tests.
const SecretStringValue = "<secret>"

// APIKeyEnvName is consulted when no key is present in the configuration.
const APIKeyEnvName = "TTP_API_KEY"

// SecretString is a type that should be used for fields that should not be
// visible in logs or configuration dumps.
type SecretString string

// MarshalJSON marshals SecretString to JSON making sure that actual value is not visible.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte("\"" + SecretStringValue + "\""), nil
}

// MarshalYAML marshals SecretString to YAML making sure that actual value is not visible.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}

// Value returns the actual secret, falling back to the environment when the
// configuration did not supply one.
func (s SecretString) Value() string {
	if len(s) != 0 {
		return string(s)
	}
	return os.Getenv(APIKeyEnvName)
}
