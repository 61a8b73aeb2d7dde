package pptx

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ttp/outline"
)

// BuilderOptions tune document assembly.
type BuilderOptions struct {
	// DefaultTitle replaces a missing presentation title.
	DefaultTitle string
	// SummaryTitles caps how many slide titles the emergency summary lists.
	SummaryTitles int
}

// Builder assembles documents from outlines, styling them through the bound
// resolver. One builder serves many builds.
type Builder struct {
	resolver *Resolver
	opts     BuilderOptions
	log      *zap.Logger

	now func() time.Time // test hook
}

// NewBuilder creates a builder over the given resolver.
func NewBuilder(resolver *Resolver, opts BuilderOptions, log *zap.Logger) *Builder {
	if resolver == nil {
		resolver = NewResolver(nil, nil, log)
	}
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = "Generated Presentation"
	}
	if opts.SummaryTitles <= 0 {
		opts.SummaryTitles = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{resolver: resolver, opts: opts, log: log, now: time.Now}
}

// Build turns an outline into a complete document: one title slide followed
// by one slide per outline entry. Slides are assembled independently - a
// failure inside one slide degrades that slide only. Build itself never
// fails; when assembly blows up outright, or no content slide survives it,
// Build falls back to the emergency summary document.
func (b *Builder) Build(o *outline.Outline) (doc *Document) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Document assembly panicked, producing summary document", zap.Any("panic", r))
			doc = b.buildSummary(o)
		}
	}()

	if o == nil {
		b.log.Warn("No outline to build from, producing summary document")
		return b.buildSummary(nil)
	}

	schema := b.resolver.Schema()
	doc = NewDocument(schema.SlideWidth, schema.SlideHeight, schema.Layouts)
	doc.ThemeColors = schema.ThemeColors
	doc.MasterBackground = schema.MasterBackground

	b.buildTitleSlide(doc, o.Title)
	for i := range o.Slides {
		b.buildContentSlide(doc, &o.Slides[i], i)
	}
	if len(doc.Slides) <= 1 {
		b.log.Warn("No content slides survived, producing summary document")
		return b.buildSummary(o)
	}
	return doc
}

// buildTitleSlide adds the opening slide on layout 0: presentation title
// plus a generation timestamp in the subtitle.
func (b *Builder) buildTitleSlide(doc *Document, title string) {
	defer b.recoverSlide("title")

	if strings.TrimSpace(title) == "" {
		title = b.opts.DefaultTitle
	}

	s := doc.AddSlide(0)
	layout := doc.Layouts[s.LayoutIndex].Name

	if ph := s.TitlePlaceholder(); ph != nil {
		b.setStyledText(&ph.Frame, title, layout, ph.Info.Type)
	}
	if ph := subtitlePlaceholder(s); ph != nil {
		stamp := "Generated on " + b.now().Format("January 2, 2006")
		b.setStyledText(&ph.Frame, stamp, layout, ph.Info.Type)
	}
}

// buildContentSlide adds one body slide on layout 1.
func (b *Builder) buildContentSlide(doc *Document, spec *outline.SlideSpec, i int) {
	defer b.recoverSlide(fmt.Sprintf("content %d", i+1))

	s := doc.AddSlide(1)
	layout := doc.Layouts[s.LayoutIndex].Name

	title := strings.TrimSpace(spec.Title)
	if title == "" {
		title = fmt.Sprintf("Slide %d", i+2) // slide 1 is the title slide
	}
	if ph := s.TitlePlaceholder(); ph != nil {
		b.setStyledText(&ph.Frame, title, layout, ph.Info.Type)
	}

	if len(spec.Content) > 0 {
		PlaceContent(s, spec.Content, b.log)
		b.styleContent(s, layout)
	}
	s.Notes = spec.Notes
}

// buildSummary produces the minimal presentation used when normal assembly
// is impossible: a title slide and one "Content Summary" slide listing what
// was planned.
func (b *Builder) buildSummary(o *outline.Outline) *Document {
	doc := NewDocument(DefaultSlideWidth, DefaultSlideHeight, nil)

	title := b.opts.DefaultTitle
	var bullets []string
	if o != nil {
		if t := strings.TrimSpace(o.Title); t != "" {
			title = t
		}
		for _, spec := range o.Slides {
			if len(bullets) == b.opts.SummaryTitles {
				break
			}
			if t := strings.TrimSpace(spec.Title); t != "" {
				bullets = append(bullets, t)
			}
		}
	}
	if len(bullets) == 0 {
		bullets = []string{"Generated content could not be laid out in full."}
	}

	ts := doc.AddSlide(0)
	if ph := ts.TitlePlaceholder(); ph != nil {
		ph.Frame.SetText(title)
	}

	cs := doc.AddSlide(1)
	if ph := cs.TitlePlaceholder(); ph != nil {
		ph.Frame.SetText("Content Summary")
	}
	PlaceContent(cs, bullets, b.log)
	return doc
}

func (b *Builder) recoverSlide(what string) {
	if r := recover(); r != nil {
		b.log.Warn("Slide assembly failed", zap.String("slide", what), zap.Any("panic", r))
	}
}

// setStyledText replaces frame content with one styled paragraph.
func (b *Builder) setStyledText(tf *TextFrame, text, layout, placeholder string) {
	tf.SetText(text)
	for _, p := range tf.Paragraphs {
		for i := range p.Runs {
			b.resolver.Style(&p.Runs[i], layout, placeholder)
		}
	}
}

// styleContent applies resolved body styles to everything placement put on
// the slide.
func (b *Builder) styleContent(s *Slide, layout string) {
	for _, ph := range s.Placeholders {
		if ph.IsTitle() || ph.Frame.Empty() {
			continue
		}
		fd := b.resolver.Resolve(layout, ph.Info.Type)
		for _, p := range ph.Frame.Paragraphs {
			for i := range p.Runs {
				b.resolver.Apply(&p.Runs[i], fd)
			}
		}
	}
	for _, tb := range s.TextBoxes {
		fd := b.resolver.Resolve(layout, "BODY")
		for _, p := range tb.Frame.Paragraphs {
			for i := range p.Runs {
				b.resolver.Apply(&p.Runs[i], fd)
			}
		}
	}
}

func subtitlePlaceholder(s *Slide) *Placeholder {
	for _, ph := range s.Placeholders {
		t := strings.ToUpper(ph.Info.Type)
		if strings.Contains(t, "SUBTITLE") {
			return ph
		}
	}
	// stock title layouts put the subtitle at idx 1
	for _, ph := range s.Placeholders {
		if ph.Info.Idx == 1 && !ph.IsTitle() {
			return ph
		}
	}
	return nil
}
