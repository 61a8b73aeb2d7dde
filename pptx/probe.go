package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"go.uber.org/zap"
)

// Extract probes the supplied template bytes and produces a style snapshot.
// It never fails: any malformed or unsupported buffer yields the synthetic
// fallback schema, and any partial extraction failure leaves the affected
// field at its absent/default value while probing continues.
func Extract(data []byte, log *zap.Logger) (schema *StyleSchema) {
	if log == nil {
		log = zap.NewNop()
	}

	// template probing must never take the host down
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Template probing panicked, using fallback schema", zap.Any("panic", r))
			schema = FallbackSchema()
		}
	}()

	files, err := openPackage(data)
	if err != nil {
		log.Warn("Template is not readable, using fallback schema", zap.Error(err))
		return FallbackSchema()
	}

	schema = &StyleSchema{
		SlideWidth:        DefaultSlideWidth,
		SlideHeight:       DefaultSlideHeight,
		PlaceholderStyles: make(map[StyleKey]*FontDescriptor),
		ThemeColors:       make(map[string]*RGB),
	}

	probeSlideSize(files, schema, log)
	probeLayouts(files, schema, log)
	probeTheme(files, schema, log)
	probeMasterBackground(files, schema, log)

	if len(schema.Layouts) == 0 {
		log.Warn("Template has no readable layouts, substituting synthetic ones")
		fb := FallbackSchema()
		schema.Layouts = fb.Layouts
		schema.Synthetic = true
	}
	return schema
}

// openPackage validates the buffer looks like an OOXML container and indexes
// its parts by name.
func openPackage(data []byte) (map[string]*zip.File, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty template buffer")
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("unable to sniff template type: %w", err)
	}
	// proper templates match the pptx/zip signature, everything else is
	// rejected before we attempt to parse
	switch kind {
	case matchers.TypePptx, matchers.TypeZip:
	default:
		return nil, fmt.Errorf("unsupported template type %q", kind.Extension)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("template is not a readable archive: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	if _, ok := files["ppt/presentation.xml"]; !ok {
		return nil, fmt.Errorf("archive has no presentation part")
	}
	return files, nil
}

// parsePart reads and parses a single XML part, nil when anything goes wrong.
func parsePart(files map[string]*zip.File, name string) *etree.Document {
	f, ok := files[name]
	if !ok {
		return nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil
	}
	return doc
}

func probeSlideSize(files map[string]*zip.File, schema *StyleSchema, log *zap.Logger) {
	doc := parsePart(files, "ppt/presentation.xml")
	if doc == nil {
		log.Debug("No readable presentation part, keeping default slide size")
		return
	}
	sz := doc.FindElement("//sldSz")
	if sz == nil {
		return
	}
	if cx, err := strconv.ParseInt(sz.SelectAttrValue("cx", ""), 10, 64); err == nil && cx > 0 {
		schema.SlideWidth = cx
	}
	if cy, err := strconv.ParseInt(sz.SelectAttrValue("cy", ""), 10, 64); err == nil && cy > 0 {
		schema.SlideHeight = cy
	}
}

// layoutPartNames returns slide layout part names in their numeric order.
// Order is significant: index 0 is conventionally the title layout.
func layoutPartNames(files map[string]*zip.File) []string {
	type part struct {
		name string
		num  int
	}
	var parts []part
	for name := range files {
		if !strings.HasPrefix(name, "ppt/slideLayouts/slideLayout") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		numStr := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slideLayouts/slideLayout"), ".xml")
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		parts = append(parts, part{name: name, num: num})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].num < parts[j].num })

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.name)
	}
	return names
}

func probeLayouts(files map[string]*zip.File, schema *StyleSchema, log *zap.Logger) {
	for i, part := range layoutPartNames(files) {
		layout := probeOneLayout(files, part, i, log)
		schema.Layouts = append(schema.Layouts, layout)

		for _, ph := range layout.Placeholders {
			if ph.Font == nil {
				continue
			}
			// last-write-wins when a layout repeats a placeholder type
			schema.PlaceholderStyles[StyleKey{Layout: layout.Name, Placeholder: ph.Type}] = ph.Font
		}
	}
}

// probeOneLayout extracts a single layout part. A malformed part still
// produces a usable entry with a generated name and no placeholders.
func probeOneLayout(files map[string]*zip.File, part string, index int, log *zap.Logger) (layout LayoutInfo) {
	layout = LayoutInfo{Index: index, Name: fmt.Sprintf("Layout %d", index+1)}

	defer func() {
		if r := recover(); r != nil {
			log.Debug("Layout probing failed", zap.String("part", part), zap.Any("panic", r))
		}
	}()

	doc := parsePart(files, part)
	if doc == nil {
		return layout
	}

	if cSld := doc.FindElement("//cSld"); cSld != nil {
		if name := cSld.SelectAttrValue("name", ""); name != "" {
			layout.Name = name
		}
	}

	layout.Background = probeSolidFill(doc.FindElement("//bg"))

	for _, sp := range doc.FindElements("//spTree/sp") {
		ph := sp.FindElement(".//nvSpPr//ph")
		if ph == nil {
			continue // ordinary shape, not a placeholder
		}

		info := PlaceholderInfo{Type: "unknown"}
		if t := ph.SelectAttrValue("type", ""); t != "" {
			info.Type = strings.ToUpper(t)
		}
		if idx, err := strconv.Atoi(ph.SelectAttrValue("idx", "")); err == nil {
			info.Idx = idx
		}

		if xfrm := sp.FindElement(".//spPr/xfrm"); xfrm != nil {
			if off := xfrm.SelectElement("off"); off != nil {
				info.Left, _ = strconv.ParseInt(off.SelectAttrValue("x", "0"), 10, 64)
				info.Top, _ = strconv.ParseInt(off.SelectAttrValue("y", "0"), 10, 64)
			}
			if ext := xfrm.SelectElement("ext"); ext != nil {
				info.Width, _ = strconv.ParseInt(ext.SelectAttrValue("cx", "0"), 10, 64)
				info.Height, _ = strconv.ParseInt(ext.SelectAttrValue("cy", "0"), 10, 64)
			}
		}

		info.Font = probeFirstRunFont(sp)
		layout.Placeholders = append(layout.Placeholders, info)
	}
	return layout
}

// probeFirstRunFont inspects the first non-empty run in the shape's text
// frame. First match wins - styles are not merged across runs.
func probeFirstRunFont(sp *etree.Element) *FontDescriptor {
	for _, r := range sp.FindElements(".//txBody/p/r") {
		t := r.SelectElement("t")
		if t == nil || strings.TrimSpace(t.Text()) == "" {
			continue
		}

		fd := &FontDescriptor{}
		if rPr := r.SelectElement("rPr"); rPr != nil {
			if sz, err := strconv.ParseFloat(rPr.SelectAttrValue("sz", ""), 64); err == nil && sz > 0 {
				pts := sz / 100 // rPr/@sz is in hundredths of a point
				fd.Size = &pts
			}
			if b := rPr.SelectAttrValue("b", ""); b != "" {
				v := b == "1" || b == "true"
				fd.Bold = &v
			}
			if i := rPr.SelectAttrValue("i", ""); i != "" {
				v := i == "1" || i == "true"
				fd.Italic = &v
			}
			if latin := rPr.SelectElement("latin"); latin != nil {
				if tf := latin.SelectAttrValue("typeface", ""); tf != "" {
					fd.Name = &tf
				}
			}
			if clr := rPr.FindElement(".//srgbClr"); clr != nil {
				if rgb, err := ParseRGB(clr.SelectAttrValue("val", "")); err == nil {
					fd.Color = &rgb
				}
			}
		}
		return fd
	}
	return nil
}

// probeSolidFill reads a solid background fill under the given element,
// nil for any other (or unreadable) fill kind.
func probeSolidFill(bg *etree.Element) *Fill {
	if bg == nil {
		return nil
	}
	clr := bg.FindElement(".//solidFill/srgbClr")
	if clr == nil {
		return nil
	}
	rgb, err := ParseRGB(clr.SelectAttrValue("val", ""))
	if err != nil {
		return nil
	}
	return &Fill{Type: "solid", Color: rgb}
}

// theme scheme element names to our semantic slot names
var themeSlotTags = map[string]string{
	"dk1":     "dark1",
	"dk2":     "dark2",
	"lt1":     "light1",
	"lt2":     "light2",
	"accent1": "accent1",
	"accent2": "accent2",
	"accent3": "accent3",
}

func probeTheme(files map[string]*zip.File, schema *StyleSchema, log *zap.Logger) {
	doc := parsePart(files, "ppt/theme/theme1.xml")
	if doc == nil {
		log.Debug("No readable theme part, theme colors unavailable")
		return
	}
	scheme := doc.FindElement("//clrScheme")
	if scheme == nil {
		return
	}
	for _, child := range scheme.ChildElements() {
		slot, ok := themeSlotTags[child.Tag]
		if !ok {
			continue
		}
		var val string
		if srgb := child.SelectElement("srgbClr"); srgb != nil {
			val = srgb.SelectAttrValue("val", "")
		} else if sys := child.SelectElement("sysClr"); sys != nil {
			val = sys.SelectAttrValue("lastClr", "")
		}
		if rgb, err := ParseRGB(val); err == nil {
			schema.ThemeColors[slot] = &rgb
		}
	}
}

func probeMasterBackground(files map[string]*zip.File, schema *StyleSchema, log *zap.Logger) {
	doc := parsePart(files, "ppt/slideMasters/slideMaster1.xml")
	if doc == nil {
		log.Debug("No readable master part, master background unavailable")
		return
	}
	schema.MasterBackground = probeSolidFill(doc.FindElement("//bg"))
}
