package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"ttp/config"
)

func testAIConfig(provider, baseURL string) *config.AIConfig {
	return &config.AIConfig{
		Provider:        provider,
		APIKey:          "test-key",
		BaseURL:         baseURL,
		TimeoutSec:      5,
		MaxOutputTokens: 1000,
		Temperature:     0.7,
	}
}

func TestNew(t *testing.T) {
	log := zaptest.NewLogger(t)

	for _, name := range config.ProviderNames() {
		p, err := New(testAIConfig(name, ""), log)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("provider reports wrong name: %q vs %q", p.Name(), name)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	log := zaptest.NewLogger(t)

	if _, err := New(testAIConfig("cohere", ""), log); err == nil {
		t.Error("unknown provider accepted")
	}

	cfg := testAIConfig("gemini", "")
	cfg.APIKey = ""
	if _, err := New(cfg, log); err == nil {
		t.Error("missing API key accepted")
	}
}

func TestNew_APIKeyFromEnv(t *testing.T) {
	t.Setenv(config.APIKeyEnvName, "env-key")

	cfg := testAIConfig("openai", "")
	cfg.APIKey = ""
	if _, err := New(cfg, zaptest.NewLogger(t)); err != nil {
		t.Errorf("environment key not honored: %v", err)
	}
}

func TestOpenAI_GenerateOutline(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `  {"title":"T"}  `}},
			},
		})
	}))
	defer srv.Close()

	p, err := New(testAIConfig("openai", srv.URL), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	reply, err := p.GenerateOutline(context.Background(), "make slides")
	if err != nil {
		t.Fatalf("GenerateOutline() failed: %v", err)
	}

	if reply != `{"title":"T"}` {
		t.Errorf("reply not trimmed: %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("wrong auth header: %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("wrong endpoint: %q", gotPath)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "make slides" {
		t.Errorf("prompt not forwarded: %+v", gotReq.Messages)
	}
	if gotReq.MaxTokens != 1000 || gotReq.Temperature != 0.7 {
		t.Errorf("tuning not forwarded: %+v", gotReq)
	}
}

func TestOpenAI_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, _ := New(testAIConfig("openai", srv.URL), zaptest.NewLogger(t))
	if _, err := p.GenerateOutline(context.Background(), "x"); err == nil {
		t.Error("error status accepted")
	}
}

func TestOpenAI_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p, _ := New(testAIConfig("openai", srv.URL), zaptest.NewLogger(t))
	if _, err := p.GenerateOutline(context.Background(), "x"); err == nil {
		t.Error("empty choice list accepted")
	}
}

func TestAnthropic_GenerateOutline(t *testing.T) {
	var gotKey, gotVersion, gotPath string
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "thinking", "text": "hmm"},
				{"type": "text", "text": `{"title":`},
				{"type": "text", "text": `"T"}`},
			},
		})
	}))
	defer srv.Close()

	p, err := New(testAIConfig("anthropic", srv.URL), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	reply, err := p.GenerateOutline(context.Background(), "make slides")
	if err != nil {
		t.Fatalf("GenerateOutline() failed: %v", err)
	}

	// only text blocks are concatenated
	if reply != `{"title":"T"}` {
		t.Errorf("wrong reply: %q", reply)
	}
	if gotKey != "test-key" || gotVersion != anthropicVersion {
		t.Errorf("wrong headers: key=%q version=%q", gotKey, gotVersion)
	}
	if gotPath != "/messages" {
		t.Errorf("wrong endpoint: %q", gotPath)
	}
	if gotReq.MaxTokens != 1000 {
		t.Errorf("max_tokens not forwarded: %d", gotReq.MaxTokens)
	}
}

func TestAnthropic_Cancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	p, _ := New(testAIConfig("anthropic", srv.URL), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.GenerateOutline(ctx, "x"); err == nil {
		t.Error("cancelled context accepted")
	}
}

func TestDefaultModels(t *testing.T) {
	log := zaptest.NewLogger(t)

	cfg := testAIConfig("openai", "")
	p, err := New(cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if op, ok := p.(*openAIProvider); !ok || op.opts.model != config.ProviderOpenAI.DefaultModel() {
		t.Error("default model not applied")
	}

	cfg.Model = "gpt-4o-mini"
	p, _ = New(cfg, log)
	if op := p.(*openAIProvider); op.opts.model != "gpt-4o-mini" {
		t.Error("configured model ignored")
	}
}
