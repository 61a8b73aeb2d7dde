package outline

import (
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// PromptData feeds the outline request template.
type PromptData struct {
	Source   string // source text to summarize
	Guidance string // optional extra instructions from the user
	Slides   int    // requested number of content slides
}

const promptTmpl = `You are a presentation designer. Turn the source text below into a presentation outline.

Respond with a single JSON object and nothing else:
{
  "title": "presentation title",
  "slides": [
    {"title": "slide title", "content": ["bullet one", "bullet two"], "notes": "optional speaker notes"}
  ]
}

Produce {{ .Slides | default 5 }} content slides. Each slide gets 3 to 5 short bullets.
{{- if .Guidance }}

Additional instructions: {{ .Guidance | trim }}
{{- end }}

Source text:
{{ .Source | trim }}
`

var promptTemplate = template.Must(template.New("prompt").Funcs(sprig.FuncMap()).Parse(promptTmpl))

// BuildPrompt renders the outline request sent to the AI collaborator.
func BuildPrompt(data PromptData) (string, error) {
	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
