package convert

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"ttp/config"
	"ttp/outline"
	"ttp/state"
)

func setupTestEnvForOutputPath(t *testing.T, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	env := &state.LocalEnv{
		Log: logger,
		Cfg: cfg,
	}
	return env
}

var timestampedName = regexp.MustCompile(`^[a-z0-9_]+_\d{8}_\d{6}\.pptx$`)

func TestBuildDefaultFileName(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, "")

	cases := []struct {
		title string
		want  string // name prefix before the timestamp
	}{
		{"Go Concurrency", "go_concurrency"},
		{"Q3/Q4: Results & Outlook!", "q3q4_results_outlook"},
		{"  spaced   out  ", "spaced_out"},
		{"123 Numbers", "123_numbers"},
		{"!!!", "presentation"},
	}
	for _, tc := range cases {
		o := &outline.Outline{Title: tc.title, Slides: []outline.SlideSpec{{Title: "s"}}}
		got := buildDefaultFileName(o, env)

		if !timestampedName.MatchString(got) {
			t.Errorf("buildDefaultFileName(%q) = %q, not in canonical form", tc.title, got)
			continue
		}
		if !strings.HasPrefix(got, tc.want+"_") {
			t.Errorf("buildDefaultFileName(%q) = %q, want prefix %q", tc.title, got, tc.want)
		}
	}
}

func TestBuildDefaultFileName_NilOutline(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, "")

	got := buildDefaultFileName(nil, env)
	if !strings.HasPrefix(got, "generated_presentation_") {
		t.Errorf("nil outline should fall back to configured default title: %q", got)
	}
}

func TestBuildDefaultFileName_Transliterate(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, "")

	o := &outline.Outline{Title: "тест презентация"}
	got := buildDefaultFileName(o, env)
	for _, r := range got {
		if r > 127 {
			t.Fatalf("transliterated name still carries non-ASCII: %q", got)
		}
	}
}

func TestBuildOutputPath_Default(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, "")

	o := &outline.Outline{Title: "My Deck"}
	got := buildOutputPath(o, "/in/notes.txt", "/out", env)

	if filepath.Dir(got) != filepath.FromSlash("/out") {
		t.Errorf("wrong output dir: %q", got)
	}
	if !strings.HasPrefix(filepath.Base(got), "my_deck_") {
		t.Errorf("wrong base name: %q", got)
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, "{{ .SourceFile }}/{{ .Title }}")

	o := &outline.Outline{Title: "My Deck"}
	got := buildOutputPath(o, "/in/notes.txt", "/out", env)

	want := filepath.Join("/out", "notes", "My Deck"+outputExt)
	if got != want {
		t.Errorf("buildOutputPath() = %q, want %q", got, want)
	}
}

func TestBuildOutputPath_BadTemplate(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, "{{ .NoSuchField }}")

	o := &outline.Outline{Title: "My Deck"}
	got := buildOutputPath(o, "/in/notes.txt", "/out", env)

	// broken template falls back to the default scheme
	if !strings.HasPrefix(filepath.Base(got), "my_deck_") {
		t.Errorf("fallback name not used: %q", got)
	}
}

func TestExpandTemplate(t *testing.T) {
	o := &outline.Outline{Title: "T", Slides: make([]outline.SlideSpec, 3)}

	got, err := expandTemplate(o, config.OutputNameTemplateFieldName, "{{ .Title }}-{{ .Slides }}-{{ .Provider }}", "gemini", "src.md")
	if err != nil {
		t.Fatalf("expandTemplate() failed: %v", err)
	}
	if got != "T-3-gemini" {
		t.Errorf("expandTemplate() = %q", got)
	}

	if _, err := expandTemplate(o, config.OutputNameTemplateFieldName, "{{ .Title", "gemini", "src.md"); err == nil {
		t.Error("malformed template accepted")
	}
}
