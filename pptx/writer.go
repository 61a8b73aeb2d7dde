package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"

	"go.uber.org/zap"
)

// Serialize renders the document as a complete OOXML presentation package.
// When full rendering fails it retries once with a stripped copy of the
// document (plain text, default geometry) so the user still gets a file.
func Serialize(doc *Document, log *zap.Logger) ([]byte, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if doc == nil {
		return nil, fmt.Errorf("nothing to serialize")
	}

	data, err := serialize(doc)
	if err == nil {
		return data, nil
	}
	log.Warn("Serialization failed, retrying with stripped document", zap.Error(err))

	data, retryErr := serialize(stripDocument(doc))
	if retryErr != nil {
		return nil, fmt.Errorf("unable to serialize document: %w", err)
	}
	return data, nil
}

func serialize(doc *Document) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("serialization panicked: %v", r)
		}
	}()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	pw := &packageWriter{doc: doc, zw: zw}

	title := ""
	if len(doc.Slides) > 0 {
		title = doc.Slides[0].Title()
	}

	if err := pw.writeContentTypes(); err != nil {
		return nil, fmt.Errorf("unable to write content types: %w", err)
	}
	if err := pw.writeRootRels(); err != nil {
		return nil, fmt.Errorf("unable to write package relationships: %w", err)
	}
	if err := pw.writeCoreProps(title); err != nil {
		return nil, fmt.Errorf("unable to write core properties: %w", err)
	}
	if err := pw.writeAppProps(); err != nil {
		return nil, fmt.Errorf("unable to write app properties: %w", err)
	}
	if err := pw.writePresentation(); err != nil {
		return nil, fmt.Errorf("unable to write presentation part: %w", err)
	}
	if err := pw.writePresentationRels(); err != nil {
		return nil, fmt.Errorf("unable to write presentation relationships: %w", err)
	}
	if err := pw.writeAncillaryProps(); err != nil {
		return nil, fmt.Errorf("unable to write presentation properties: %w", err)
	}
	if err := pw.writeTheme(); err != nil {
		return nil, fmt.Errorf("unable to write theme: %w", err)
	}
	if err := pw.writeMaster(); err != nil {
		return nil, fmt.Errorf("unable to write slide master: %w", err)
	}
	for i := range doc.Layouts {
		if err := pw.writeLayout(i); err != nil {
			return nil, fmt.Errorf("unable to write layout %d: %w", i+1, err)
		}
	}
	for i, s := range doc.Slides {
		if err := pw.writeSlide(i); err != nil {
			return nil, fmt.Errorf("unable to write slide %d: %w", i+1, err)
		}
		if s.Notes != "" {
			if err := pw.writeNotes(i); err != nil {
				return nil, fmt.Errorf("unable to write notes for slide %d: %w", i+1, err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("unable to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// stripDocument clones the document down to plain text: default slide size,
// default layouts, no theme colors, no fonts, no notes. The copy keeps slide
// titles and body text so the retry loses formatting, not content.
func stripDocument(doc *Document) *Document {
	out := NewDocument(DefaultSlideWidth, DefaultSlideHeight, nil)
	out.ID = doc.ID
	out.Created = doc.Created

	for _, s := range doc.Slides {
		layoutIndex := 1
		if s.LayoutIndex == 0 {
			layoutIndex = 0
		}
		ns := out.AddSlide(layoutIndex)

		if title := s.Title(); title != "" {
			if ph := ns.TitlePlaceholder(); ph != nil {
				ph.Frame.SetText(title)
			}
		}

		var bullets []string
		for _, ph := range s.Placeholders {
			if ph.IsTitle() || ph.Frame.Empty() {
				continue
			}
			for _, p := range ph.Frame.Paragraphs {
				if t := p.Text(); t != "" {
					bullets = append(bullets, t)
				}
			}
		}
		for _, tb := range s.TextBoxes {
			for _, p := range tb.Frame.Paragraphs {
				if t := p.Text(); t != "" {
					bullets = append(bullets, t)
				}
			}
		}
		if len(bullets) > 0 {
			PlaceContent(ns, bullets, nil)
		}
	}
	return out
}
