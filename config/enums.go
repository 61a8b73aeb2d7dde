package config

import (
	"fmt"
	"strings"
)

// Provider identifies the outline-generating AI service.
type Provider int

const (
	ProviderGemini Provider = iota
	ProviderOpenAI
	ProviderAnthropic
)

var providerNames = map[Provider]string{
	ProviderGemini:    "gemini",
	ProviderOpenAI:    "openai",
	ProviderAnthropic: "anthropic",
}

func (p Provider) String() string {
	if n, ok := providerNames[p]; ok {
		return n
	}
	// this should never happen
	panic("unsupported provider requested")
}

// DefaultModel returns model used when configuration does not name one.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderOpenAI:
		return "gpt-4"
	case ProviderAnthropic:
		return "claude-3-sonnet-20240229"
	default:
		return ""
	}
}

// ParseProvider converts textual provider name to Provider.
func ParseProvider(s string) (Provider, error) {
	for p, n := range providerNames {
		if strings.EqualFold(s, n) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown AI provider %q", s)
}

// ProviderNames returns all recognized provider names for usage strings.
func ProviderNames() []string {
	return []string{
		ProviderGemini.String(),
		ProviderOpenAI.String(),
		ProviderAnthropic.String(),
	}
}
