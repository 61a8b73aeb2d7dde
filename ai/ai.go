// Package ai talks to outline-generating model services.
package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ttp/config"
)

// Provider generates a presentation outline reply for a prompt. The reply is
// raw model output - callers extract and validate the outline themselves.
type Provider interface {
	Name() string
	GenerateOutline(ctx context.Context, prompt string) (string, error)
}

// New builds a provider from configuration.
func New(cfg *config.AIConfig, log *zap.Logger) (Provider, error) {
	if log == nil {
		log = zap.NewNop()
	}

	prov, err := config.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	key := cfg.APIKey.Value()
	if key == "" {
		return nil, fmt.Errorf("no API key for provider %s: set ai.api_key or %s", prov, config.APIKeyEnvName)
	}

	model := cfg.Model
	if model == "" {
		model = prov.DefaultModel()
	}

	opts := options{
		apiKey:      key,
		model:       model,
		baseURL:     cfg.BaseURL,
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		maxTokens:   cfg.MaxOutputTokens,
		temperature: cfg.Temperature,
		log:         log,
	}

	switch prov {
	case config.ProviderGemini:
		return newGemini(opts), nil
	case config.ProviderOpenAI:
		return newOpenAI(opts), nil
	case config.ProviderAnthropic:
		return newAnthropic(opts), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

type options struct {
	apiKey      string
	model       string
	baseURL     string
	timeout     time.Duration
	maxTokens   int
	temperature float64
	log         *zap.Logger
}

// ensureDeadline applies the configured timeout when the caller did not.
func (o options) ensureDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || o.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.timeout)
}
