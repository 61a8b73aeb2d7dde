package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	"ttp/config"
	"ttp/outline"
)

// Values holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Date       string
	Slides     int
	Provider   string
	SourceFile string
}

func expandTemplate(o *outline.Outline, name config.TemplateFieldName, field, provider, srcName string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Date:       time.Now().Format("2006-01-02"),
		Provider:   provider,
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
	}
	if o != nil {
		values.Title = o.Title
		values.Slides = len(o.Slides)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
