package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type geminiProvider struct {
	opts options
}

func newGemini(opts options) *geminiProvider {
	return &geminiProvider{opts: opts}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) GenerateOutline(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := p.opts.ensureDeadline(ctx)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.opts.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("unable to create gemini client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(p.opts.temperature)),
	}
	if p.opts.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(p.opts.maxTokens)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, p.opts.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty reply")
	}
	p.opts.log.Debug("Gemini reply received",
		zap.String("model", p.opts.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("length", len(text)))
	return text, nil
}
