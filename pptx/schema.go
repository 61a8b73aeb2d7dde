// Package pptx implements the template style engine: probing visual schema
// out of an existing presentation, resolving styles against it, building a
// new document from an outline and serializing the result as an OOXML
// presentation package.
package pptx

import (
	"fmt"
	"strconv"
)

// Document length units are EMU, 914400 per inch.
const (
	emuPerInch = 914400

	// Standard 4:3 slide surface used when the template does not say otherwise.
	DefaultSlideWidth  int64 = 9144000
	DefaultSlideHeight int64 = 6858000
)

// RGB is a plain additive color triplet.
type RGB struct {
	R, G, B uint8
}

// ParseRGB converts a 6-digit hex string (as found in a:srgbClr/@val) to RGB.
func ParseRGB(s string) (RGB, error) {
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color value must be 6 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("malformed color value %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns color in the 6-digit uppercase form OOXML expects.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// FontDescriptor is a partial font style. Every field is independently
// optional: nil means "the template did not say", not "default". When applied
// to a run absent fields leave the run untouched.
type FontDescriptor struct {
	Name   *string
	Size   *float64 // points
	Bold   *bool
	Italic *bool
	Color  *RGB
}

// Empty reports whether descriptor carries no information at all.
func (fd *FontDescriptor) Empty() bool {
	return fd == nil || (fd.Name == nil && fd.Size == nil && fd.Bold == nil && fd.Italic == nil && fd.Color == nil)
}

// Fill describes a shape or slide background fill. Only solid fills are
// recognized, everything else is ignored by the probe.
type Fill struct {
	Type  string // presently always "solid"
	Color RGB
}

// PlaceholderInfo captures geometry and classification of a single layout
// placeholder. Type is a free-form uppercase string ("TITLE", "BODY", ...);
// "unknown" is an expected value, not an error.
type PlaceholderInfo struct {
	Idx    int
	Type   string
	Left   int64
	Top    int64
	Width  int64
	Height int64
	Font   *FontDescriptor
}

// LayoutInfo is an ordered entry of the template layout list. Order matters:
// index 0 is conventionally the title layout and index 1 the content layout.
type LayoutInfo struct {
	Index        int
	Name         string
	Placeholders []PlaceholderInfo
	Background   *Fill
}

// StyleKey addresses a font descriptor by layout name and placeholder type.
type StyleKey struct {
	Layout      string
	Placeholder string
}

// Theme color slot names, the 7 semantic roles we track.
var ThemeSlots = []string{"accent1", "accent2", "accent3", "dark1", "dark2", "light1", "light2"}

// StyleSchema is the immutable visual snapshot of one template. It is
// produced once per uploaded template and shared read-only by every build
// that follows.
type StyleSchema struct {
	SlideWidth  int64
	SlideHeight int64

	Layouts           []LayoutInfo
	PlaceholderStyles map[StyleKey]*FontDescriptor

	// ThemeColors holds the semantic slots of ThemeSlots; any may be absent.
	ThemeColors      map[string]*RGB
	MasterBackground *Fill

	// Synthetic is set when the template was unreadable and layouts were
	// substituted wholesale.
	Synthetic bool
}

// FallbackSchema returns the schema used when a template cannot be read at
// all: two named synthetic layouts with no placeholders. The engine stays
// usable without any template.
func FallbackSchema() *StyleSchema {
	return &StyleSchema{
		SlideWidth:  DefaultSlideWidth,
		SlideHeight: DefaultSlideHeight,
		Layouts: []LayoutInfo{
			{Index: 0, Name: "Title Slide"},
			{Index: 1, Name: "Content Slide"},
		},
		PlaceholderStyles: make(map[StyleKey]*FontDescriptor),
		ThemeColors:       make(map[string]*RGB),
		Synthetic:         true,
	}
}

// LayoutByIndex returns layout at idx or nil when out of range.
func (s *StyleSchema) LayoutByIndex(idx int) *LayoutInfo {
	if idx < 0 || idx >= len(s.Layouts) {
		return nil
	}
	return &s.Layouts[idx]
}
