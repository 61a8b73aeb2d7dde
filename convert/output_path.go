package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"ttp/config"
	"ttp/outline"
	"ttp/state"
)

const outputExt = ".pptx"

// buildOutputPath returns constructed output file path/name based on the
// outline and configuration. It uses either the default naming scheme or a
// user-defined template, cleans the path and if requested transliterates it.
func buildOutputPath(o *outline.Outline, src, dst string, env *state.LocalEnv) string {
	defaultFile := buildDefaultFileName(o, env)

	if env.Cfg.Document.OutputNameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expandedName := expandOutputNameTemplate(o, src, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(dst, defaultFile)
	}

	return assemblePathWithSubdirs(dst, expandedName, env)
}

// buildDefaultFileName derives the file name from the presentation title:
// lowercased, punctuation stripped, whitespace collapsed to underscores, with
// a generation timestamp so repeated runs never collide.
func buildDefaultFileName(o *outline.Outline, env *state.LocalEnv) string {
	title := env.Cfg.Document.DefaultTitle
	if o != nil && strings.TrimSpace(o.Title) != "" {
		title = o.Title
	}
	if env.Cfg.Document.FileNameTransliterate {
		// transliterate before sanitizing, otherwise non-Latin titles are
		// stripped to nothing
		title = strings.ReplaceAll(slug.Make(title), "-", " ")
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '\t':
			sb.WriteRune(' ')
		}
	}
	base := strings.Join(strings.Fields(sb.String()), "_")
	if base == "" {
		base = "presentation"
	}
	return config.CleanFileName(base) + "_" + time.Now().Format("20060102_150405") + outputExt
}

func expandOutputNameTemplate(o *outline.Outline, src string, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(o, config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate, env.Cfg.AI.Provider, src)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(expandedName)
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	pathSegments := splitAndCleanPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := cleanPathSegment(pathSegments[len(pathSegments)-1], env) + outputExt
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)

	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}

	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
		path = head
	}

	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
