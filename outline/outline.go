// Package outline defines the intermediate presentation outline exchanged
// with AI collaborators: a JSON document with a title and a list of slides.
package outline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SlideSpec is one content slide of the outline.
type SlideSpec struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
	Notes   string   `json:"notes,omitempty"`
}

// Outline is the complete presentation plan.
type Outline struct {
	Title  string      `json:"title"`
	Slides []SlideSpec `json:"slides"`
}

// Parse extracts an outline from raw model output. Models wrap JSON in prose
// and code fences, so parsing starts at the first '{' and ends at the last
// '}' of the reply.
func Parse(raw string) (*Outline, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("reply contains no JSON object")
	}

	var o Outline
	if err := json.Unmarshal([]byte(raw[start:end+1]), &o); err != nil {
		return nil, fmt.Errorf("unable to decode outline: %w", err)
	}
	o.normalize()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate checks the structural minimum: at least one slide, each with at
// least one content line. A missing title is fine, document assembly
// substitutes a default. Call after normalize so padding-only content does
// not slip through.
func (o *Outline) Validate() error {
	if len(o.Slides) == 0 {
		return fmt.Errorf("outline has no slides")
	}
	for i := range o.Slides {
		if len(o.Slides[i].Content) == 0 {
			return fmt.Errorf("outline slide %d has no content", i+1)
		}
	}
	return nil
}

// normalize trims whitespace and drops blank content lines so downstream
// code never sees padding the model added.
func (o *Outline) normalize() {
	o.Title = strings.TrimSpace(o.Title)
	for i := range o.Slides {
		s := &o.Slides[i]
		s.Title = strings.TrimSpace(s.Title)
		s.Notes = strings.TrimSpace(s.Notes)

		content := s.Content[:0]
		for _, line := range s.Content {
			if line = strings.TrimSpace(line); line != "" {
				content = append(content, line)
			}
		}
		s.Content = content
	}
}
