package pptx

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default placeholder geometry used when a layout carries no placeholders of
// its own (synthetic layouts, templates with bare layouts). Values match the
// stock PowerPoint default template.
var (
	defaultCenterTitleBox = box{685800, 2130425, 7772400, 1470025}
	defaultSubtitleBox    = box{1371600, 3886200, 6400800, 1752600}
	defaultTitleBox       = box{457200, 274638, 8229600, 1143000}
	defaultBodyBox        = box{457200, 1600200, 8229600, 4525963}
)

type box struct {
	left, top, width, height int64
}

// Run is a contiguous stretch of uniformly formatted text.
type Run struct {
	Text string
	Font FontDescriptor // only explicitly applied fields are set
}

// Font names in OOXML are limited to 31 characters (legacy panose typeface
// field); enforce the same limit so the fallback chain has something real to
// react to.
const maxFontNameLen = 31

// SetFontName sets the run typeface, rejecting names the format cannot carry.
func (r *Run) SetFontName(name string) error {
	if name == "" {
		return fmt.Errorf("font name is empty")
	}
	if len(name) > maxFontNameLen {
		return fmt.Errorf("font name %q longer than %d characters", name, maxFontNameLen)
	}
	for _, c := range name {
		if c < 0x20 {
			return fmt.Errorf("font name %q contains control characters", name)
		}
	}
	r.Font.Name = &name
	return nil
}

// Paragraph holds runs at a single outline level.
type Paragraph struct {
	Runs  []Run
	Level int
}

// Text returns concatenated run text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for i := range p.Runs {
		sb.WriteString(p.Runs[i].Text)
	}
	return sb.String()
}

// TextFrame is an ordered sequence of paragraphs inside a shape.
type TextFrame struct {
	Paragraphs []*Paragraph
}

// Clear drops all existing paragraphs.
func (tf *TextFrame) Clear() {
	tf.Paragraphs = nil
}

// AddParagraph appends an empty paragraph and returns it.
func (tf *TextFrame) AddParagraph() *Paragraph {
	p := &Paragraph{}
	tf.Paragraphs = append(tf.Paragraphs, p)
	return p
}

// SetText replaces frame content with a single plain paragraph.
func (tf *TextFrame) SetText(s string) {
	tf.Clear()
	p := tf.AddParagraph()
	p.Runs = append(p.Runs, Run{Text: s})
}

// Text returns all paragraphs joined with newlines.
func (tf *TextFrame) Text() string {
	parts := make([]string, 0, len(tf.Paragraphs))
	for _, p := range tf.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Empty reports whether the frame has no non-blank text.
func (tf *TextFrame) Empty() bool {
	return strings.TrimSpace(tf.Text()) == ""
}

// Placeholder is a positioned semantic content region on a slide.
type Placeholder struct {
	Info  PlaceholderInfo
	Frame TextFrame
}

// IsTitle reports whether the placeholder holds the slide title.
func (ph *Placeholder) IsTitle() bool {
	return strings.Contains(strings.ToUpper(ph.Info.Type), "TITLE")
}

// TextBox is a free-floating text shape added outside the layout scheme.
type TextBox struct {
	Left, Top, Width, Height int64
	Frame                    TextFrame
}

// Slide references exactly one layout by index and owns its shapes.
type Slide struct {
	LayoutIndex  int
	Placeholders []*Placeholder
	TextBoxes    []*TextBox
	Notes        string
}

// TitlePlaceholder returns the title placeholder or nil when the layout did
// not provide one. Subtitles match IsTitle too, so they are only returned
// when no proper title exists.
func (s *Slide) TitlePlaceholder() *Placeholder {
	for _, ph := range s.Placeholders {
		if ph.IsTitle() && !strings.Contains(strings.ToUpper(ph.Info.Type), "SUBTITLE") {
			return ph
		}
	}
	for _, ph := range s.Placeholders {
		if ph.IsTitle() {
			return ph
		}
	}
	return nil
}

// Title returns current title text, empty when there is no title placeholder.
func (s *Slide) Title() string {
	if ph := s.TitlePlaceholder(); ph != nil {
		return strings.TrimSpace(ph.Frame.Text())
	}
	return ""
}

// HasContent reports whether any non-title shape carries non-blank text.
func (s *Slide) HasContent() bool {
	for _, ph := range s.Placeholders {
		if ph.IsTitle() {
			continue
		}
		if !ph.Frame.Empty() {
			return true
		}
	}
	for _, tb := range s.TextBoxes {
		if !tb.Frame.Empty() {
			return true
		}
	}
	return false
}

// AddTextBox inserts a new empty text box at the given position.
func (s *Slide) AddTextBox(left, top, width, height int64) *TextBox {
	tb := &TextBox{Left: left, Top: top, Width: width, Height: height}
	s.TextBoxes = append(s.TextBoxes, tb)
	return tb
}

// Document is an in-memory presentation. It is created fresh per generation
// request, mutated only by the builder and the validator, and destroyed once
// serialized.
type Document struct {
	ID          string
	Created     time.Time
	SlideWidth  int64
	SlideHeight int64

	Layouts          []LayoutInfo
	ThemeColors      map[string]*RGB
	MasterBackground *Fill

	Slides []*Slide
}

// DefaultLayouts returns the built-in layout pair used when no template is
// supplied (or the template supplies fewer than two layouts).
func DefaultLayouts() []LayoutInfo {
	return []LayoutInfo{
		{
			Index: 0,
			Name:  "Title Slide",
			Placeholders: []PlaceholderInfo{
				{Idx: 0, Type: "CTRTITLE", Left: defaultCenterTitleBox.left, Top: defaultCenterTitleBox.top, Width: defaultCenterTitleBox.width, Height: defaultCenterTitleBox.height},
				{Idx: 1, Type: "SUBTITLE", Left: defaultSubtitleBox.left, Top: defaultSubtitleBox.top, Width: defaultSubtitleBox.width, Height: defaultSubtitleBox.height},
			},
		},
		{
			Index: 1,
			Name:  "Title and Content",
			Placeholders: []PlaceholderInfo{
				{Idx: 0, Type: "TITLE", Left: defaultTitleBox.left, Top: defaultTitleBox.top, Width: defaultTitleBox.width, Height: defaultTitleBox.height},
				{Idx: 1, Type: "BODY", Left: defaultBodyBox.left, Top: defaultBodyBox.top, Width: defaultBodyBox.width, Height: defaultBodyBox.height},
			},
		},
	}
}

// NewDocument creates an empty presentation over the given layouts. Fewer
// than two layouts are topped up from the built-in defaults so layout
// indexes 0 and 1 always exist.
func NewDocument(width, height int64, layouts []LayoutInfo) *Document {
	if width <= 0 {
		width = DefaultSlideWidth
	}
	if height <= 0 {
		height = DefaultSlideHeight
	}
	defaults := DefaultLayouts()
	for i := len(layouts); i < len(defaults); i++ {
		l := defaults[i]
		l.Index = i
		layouts = append(layouts, l)
	}
	return &Document{
		ID:          uuid.NewString(),
		Created:     time.Now(),
		SlideWidth:  width,
		SlideHeight: height,
		Layouts:     layouts,
		ThemeColors: make(map[string]*RGB),
	}
}

// AddSlide appends a slide bound to the given layout index, materializing
// placeholders from the layout definition. Layouts without placeholders get
// a sensible default set so the slide is never without a title region.
func (d *Document) AddSlide(layoutIndex int) *Slide {
	if layoutIndex < 0 || layoutIndex >= len(d.Layouts) {
		layoutIndex = len(d.Layouts) - 1
	}
	layout := d.Layouts[layoutIndex]

	s := &Slide{LayoutIndex: layoutIndex}
	infos := layout.Placeholders
	if len(infos) == 0 {
		if layoutIndex == 0 {
			infos = DefaultLayouts()[0].Placeholders
		} else {
			infos = DefaultLayouts()[1].Placeholders
		}
	}
	for _, info := range infos {
		s.Placeholders = append(s.Placeholders, &Placeholder{Info: info})
	}
	d.Slides = append(d.Slides, s)
	return s
}
