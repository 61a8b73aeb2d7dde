package pptx

import (
	"archive/zip"
	"bytes"
	"testing"

	"go.uber.org/zap/zaptest"
)

func buildTemplate(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("unable to create part %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("unable to write part %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unable to finalize archive: %v", err)
	}
	return buf.Bytes()
}

const testPresentationXML = `<?xml version="1.0"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
                xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:sldSz cx="12192000" cy="6858000"/>
</p:presentation>`

const testLayout1XML = `<?xml version="1.0"?>
<p:sldLayout xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
             xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld name="Title Slide">
    <p:bg><p:bgPr><a:solidFill><a:srgbClr val="1F3864"/></a:solidFill></p:bgPr></p:bg>
    <p:spTree>
      <p:sp>
        <p:nvSpPr><p:nvPr><p:ph type="ctrTitle"/></p:nvPr></p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="685800" y="2130425"/>
            <a:ext cx="7772400" cy="1470025"/>
          </a:xfrm>
        </p:spPr>
        <p:txBody>
          <a:p>
            <a:r>
              <a:rPr sz="4400" b="1">
                <a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill>
                <a:latin typeface="Georgia"/>
              </a:rPr>
              <a:t>Click to edit title</a:t>
            </a:r>
          </a:p>
        </p:txBody>
      </p:sp>
      <p:sp>
        <p:nvSpPr><p:nvPr><p:ph type="subTitle" idx="1"/></p:nvPr></p:nvSpPr>
        <p:txBody><a:p><a:r><a:t>Click to edit subtitle</a:t></a:r></a:p></p:txBody>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:sldLayout>`

const testLayout2XML = `<?xml version="1.0"?>
<p:sldLayout xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
             xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld name="Title and Content">
    <p:spTree>
      <p:sp>
        <p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
        <p:txBody><a:p><a:r><a:rPr sz="3200" i="true"/><a:t>Title</a:t></a:r></a:p></p:txBody>
      </p:sp>
      <p:sp>
        <p:nvSpPr><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>
        <p:txBody><a:p><a:r><a:t></a:t></a:r></a:p></p:txBody>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:sldLayout>`

const testThemeXML = `<?xml version="1.0"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:themeElements>
    <a:clrScheme name="Office">
      <a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
      <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
      <a:dk2><a:srgbClr val="44546A"/></a:dk2>
      <a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>
      <a:accent1><a:srgbClr val="4472C4"/></a:accent1>
      <a:accent2><a:srgbClr val="ED7D31"/></a:accent2>
      <a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>
    </a:clrScheme>
  </a:themeElements>
</a:theme>`

const testMasterXML = `<?xml version="1.0"?>
<p:sldMaster xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
             xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:bg><p:bgPr><a:solidFill><a:srgbClr val="F0F0F0"/></a:solidFill></p:bgPr></p:bg>
    <p:spTree/>
  </p:cSld>
</p:sldMaster>`

func sampleTemplate(t *testing.T) []byte {
	return buildTemplate(t, map[string]string{
		"[Content_Types].xml":                 `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"ppt/presentation.xml":                testPresentationXML,
		"ppt/slideLayouts/slideLayout1.xml":   testLayout1XML,
		"ppt/slideLayouts/slideLayout2.xml":   testLayout2XML,
		"ppt/theme/theme1.xml":                testThemeXML,
		"ppt/slideMasters/slideMaster1.xml":   testMasterXML,
	})
}

func TestExtract(t *testing.T) {
	schema := Extract(sampleTemplate(t), zaptest.NewLogger(t))

	if schema.Synthetic {
		t.Error("readable template marked synthetic")
	}
	if schema.SlideWidth != 12192000 || schema.SlideHeight != 6858000 {
		t.Errorf("wrong slide size: %dx%d", schema.SlideWidth, schema.SlideHeight)
	}

	if len(schema.Layouts) != 2 {
		t.Fatalf("expected 2 layouts, got %d", len(schema.Layouts))
	}
	if schema.Layouts[0].Name != "Title Slide" {
		t.Errorf("wrong first layout name: %q", schema.Layouts[0].Name)
	}
	if schema.Layouts[1].Name != "Title and Content" {
		t.Errorf("wrong second layout name: %q", schema.Layouts[1].Name)
	}
	if schema.Layouts[0].Background == nil || schema.Layouts[0].Background.Color.Hex() != "1F3864" {
		t.Error("layout background not extracted")
	}

	phs := schema.Layouts[0].Placeholders
	if len(phs) != 2 {
		t.Fatalf("expected 2 placeholders on first layout, got %d", len(phs))
	}
	if phs[0].Type != "CTRTITLE" {
		t.Errorf("placeholder type not uppercased: %q", phs[0].Type)
	}
	if phs[0].Left != 685800 || phs[0].Top != 2130425 || phs[0].Width != 7772400 || phs[0].Height != 1470025 {
		t.Errorf("placeholder geometry wrong: %+v", phs[0])
	}
	if phs[1].Idx != 1 || phs[1].Type != "SUBTITLE" {
		t.Errorf("second placeholder misread: %+v", phs[1])
	}

	font := schema.PlaceholderStyles[StyleKey{Layout: "Title Slide", Placeholder: "CTRTITLE"}]
	if font == nil {
		t.Fatal("title style not recorded")
	}
	if font.Name == nil || *font.Name != "Georgia" {
		t.Error("typeface not extracted")
	}
	if font.Size == nil || *font.Size != 44 {
		t.Errorf("size not converted to points: %+v", font.Size)
	}
	if font.Bold == nil || !*font.Bold {
		t.Error("bold flag not extracted")
	}
	if font.Color == nil || font.Color.Hex() != "FFFFFF" {
		t.Error("run color not extracted")
	}

	// second layout: b/i as literal "true", untyped placeholder, empty run
	font2 := schema.PlaceholderStyles[StyleKey{Layout: "Title and Content", Placeholder: "TITLE"}]
	if font2 == nil || font2.Italic == nil || !*font2.Italic {
		t.Error("italic flag not extracted")
	}
	if schema.Layouts[1].Placeholders[1].Type != "unknown" {
		t.Errorf("untyped placeholder should be %q, got %q", "unknown", schema.Layouts[1].Placeholders[1].Type)
	}
	if schema.Layouts[1].Placeholders[1].Font != nil {
		t.Error("placeholder with only blank runs should have no font")
	}

	if c := schema.ThemeColors["accent1"]; c == nil || c.Hex() != "4472C4" {
		t.Error("accent1 not extracted")
	}
	if c := schema.ThemeColors["dark1"]; c == nil || c.Hex() != "000000" {
		t.Error("sysClr lastClr fallback not used for dark1")
	}
	if schema.MasterBackground == nil || schema.MasterBackground.Color.Hex() != "F0F0F0" {
		t.Error("master background not extracted")
	}
}

func TestExtract_BadInput(t *testing.T) {
	log := zaptest.NewLogger(t)

	cases := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"garbage", []byte("this is definitely not a presentation")},
		{"truncated zip", []byte{'P', 'K', 0x03, 0x04, 0x00}},
		{"zip without presentation", buildTemplate(t, map[string]string{"readme.txt": "hello"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := Extract(tc.data, log)
			if schema == nil {
				t.Fatal("Extract() returned nil")
			}
			if !schema.Synthetic {
				t.Error("unreadable template should yield synthetic schema")
			}
			if len(schema.Layouts) < 2 {
				t.Errorf("fallback schema must have at least 2 layouts, got %d", len(schema.Layouts))
			}
			if schema.SlideWidth != DefaultSlideWidth || schema.SlideHeight != DefaultSlideHeight {
				t.Error("fallback schema must use default slide size")
			}
		})
	}
}

func TestExtract_MalformedParts(t *testing.T) {
	// broken layout and theme XML must not fail the probe
	data := buildTemplate(t, map[string]string{
		"ppt/presentation.xml":              testPresentationXML,
		"ppt/slideLayouts/slideLayout1.xml": "<broken",
		"ppt/slideLayouts/slideLayout2.xml": testLayout2XML,
		"ppt/theme/theme1.xml":              "also broken",
	})
	schema := Extract(data, zaptest.NewLogger(t))

	if len(schema.Layouts) != 2 {
		t.Fatalf("expected 2 layouts, got %d", len(schema.Layouts))
	}
	// the broken one keeps its ordinal name
	if schema.Layouts[0].Name != "Layout 1" {
		t.Errorf("broken layout should get generated name, got %q", schema.Layouts[0].Name)
	}
	if schema.Layouts[1].Name != "Title and Content" {
		t.Errorf("good layout lost: %q", schema.Layouts[1].Name)
	}
	if len(schema.ThemeColors) != 0 {
		t.Error("broken theme should produce no colors")
	}
}

func TestExtract_NoLayouts(t *testing.T) {
	data := buildTemplate(t, map[string]string{
		"ppt/presentation.xml": testPresentationXML,
	})
	schema := Extract(data, zaptest.NewLogger(t))

	if !schema.Synthetic {
		t.Error("layout-less template should be marked synthetic")
	}
	if len(schema.Layouts) != 2 {
		t.Fatalf("expected synthetic layout pair, got %d", len(schema.Layouts))
	}
	// slide size still comes from the readable presentation part
	if schema.SlideWidth != 12192000 {
		t.Errorf("slide size lost: %d", schema.SlideWidth)
	}
}

func TestParseRGB(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"4472C4", "4472C4", true},
		{"ffffff", "FFFFFF", true},
		{"000000", "000000", true},
		{"", "", false},
		{"FFF", "", false},
		{"GGGGGG", "", false},
		{"44 72C4", "", false},
	}
	for _, tc := range cases {
		got, err := ParseRGB(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseRGB(%q) error = %v", tc.in, err)
			continue
		}
		if tc.ok && got.Hex() != tc.want {
			t.Errorf("ParseRGB(%q) = %s, want %s", tc.in, got.Hex(), tc.want)
		}
	}
}
