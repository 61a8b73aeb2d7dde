package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"ttp/misc"
)

const (
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeOfficeDocument = nsOfficeDocRels + "/officeDocument"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps       = nsOfficeDocRels + "/extended-properties"
	relTypeSlideMaster    = nsOfficeDocRels + "/slideMaster"
	relTypeSlideLayout    = nsOfficeDocRels + "/slideLayout"
	relTypeSlide          = nsOfficeDocRels + "/slide"
	relTypeNotesSlide     = nsOfficeDocRels + "/notesSlide"
	relTypeTheme          = nsOfficeDocRels + "/theme"
	relTypePresProps      = nsOfficeDocRels + "/presProps"
	relTypeViewProps      = nsOfficeDocRels + "/viewProps"
	relTypeTableStyles    = nsOfficeDocRels + "/tableStyles"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctNotesSlide   = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// packageWriter emits one document as an OOXML package into a zip writer.
type packageWriter struct {
	doc *Document
	zw  *zip.Writer
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// relationships builds a package .rels part.
type relationships struct {
	doc  *etree.Document
	root *etree.Element
	next int
}

func newRelationships() *relationships {
	doc := newXMLDocument()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	return &relationships{doc: doc, root: root, next: 1}
}

func (r *relationships) add(relType, target string) string {
	id := fmt.Sprintf("rId%d", r.next)
	r.next++
	rel := r.root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	return id
}

func (pw *packageWriter) writeContentTypes() error {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	addDefault := func(ext, ct string) {
		d := types.CreateElement("Default")
		d.CreateAttr("Extension", ext)
		d.CreateAttr("ContentType", ct)
	}
	addOverride := func(part, ct string) {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", part)
		o.CreateAttr("ContentType", ct)
	}

	addDefault("rels", "application/vnd.openxmlformats-package.relationships+xml")
	addDefault("xml", "application/xml")

	addOverride("/ppt/presentation.xml", ctPresentation)
	addOverride("/ppt/presProps.xml", ctPresProps)
	addOverride("/ppt/viewProps.xml", ctViewProps)
	addOverride("/ppt/tableStyles.xml", ctTableStyles)
	addOverride("/ppt/theme/theme1.xml", ctTheme)
	addOverride("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	for i := range pw.doc.Layouts {
		addOverride(fmt.Sprintf("/ppt/slideLayouts/slideLayout%d.xml", i+1), ctSlideLayout)
	}
	for i, s := range pw.doc.Slides {
		addOverride(fmt.Sprintf("/ppt/slides/slide%d.xml", i+1), ctSlide)
		if s.Notes != "" {
			addOverride(fmt.Sprintf("/ppt/notesSlides/notesSlide%d.xml", i+1), ctNotesSlide)
		}
	}
	addOverride("/docProps/core.xml", ctCoreProps)
	addOverride("/docProps/app.xml", ctExtProps)

	return writeXMLToZip(pw.zw, "[Content_Types].xml", doc)
}

func (pw *packageWriter) writeRootRels() error {
	rels := newRelationships()
	rels.add(relTypeOfficeDocument, "ppt/presentation.xml")
	rels.add(relTypeCoreProps, "docProps/core.xml")
	rels.add(relTypeExtProps, "docProps/app.xml")
	return writeXMLToZip(pw.zw, "_rels/.rels", rels.doc)
}

func (pw *packageWriter) writeCoreProps(title string) error {
	doc := newXMLDocument()
	cp := doc.CreateElement("cp:coreProperties")
	cp.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	cp.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	cp.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	cp.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	cp.CreateElement("dc:title").SetText(title)
	cp.CreateElement("dc:creator").SetText(misc.GetAppName())

	created := pw.doc.Created
	if created.IsZero() {
		created = time.Now()
	}
	ct := cp.CreateElement("dcterms:created")
	ct.CreateAttr("xsi:type", "dcterms:W3CDTF")
	ct.SetText(created.UTC().Format(time.RFC3339))

	return writeXMLToZip(pw.zw, "docProps/core.xml", doc)
}

func (pw *packageWriter) writeAppProps() error {
	doc := newXMLDocument()
	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")

	props.CreateElement("Application").SetText(misc.GetAppName() + " " + misc.GetVersion())
	props.CreateElement("Slides").SetText(strconv.Itoa(len(pw.doc.Slides)))
	props.CreateElement("PresentationFormat").SetText("Custom")

	return writeXMLToZip(pw.zw, "docProps/app.xml", doc)
}

func (pw *packageWriter) writePresentation() error {
	doc := newXMLDocument()
	pres := doc.CreateElement("p:presentation")
	pres.CreateAttr("xmlns:a", nsDrawingML)
	pres.CreateAttr("xmlns:r", nsOfficeDocRels)
	pres.CreateAttr("xmlns:p", nsPresentationML)

	masters := pres.CreateElement("p:sldMasterIdLst")
	master := masters.CreateElement("p:sldMasterId")
	master.CreateAttr("id", "2147483648")
	master.CreateAttr("r:id", "rId1")

	if len(pw.doc.Slides) > 0 {
		slides := pres.CreateElement("p:sldIdLst")
		for i := range pw.doc.Slides {
			sld := slides.CreateElement("p:sldId")
			sld.CreateAttr("id", strconv.Itoa(256+i))
			sld.CreateAttr("r:id", fmt.Sprintf("rId%d", 2+i))
		}
	}

	sldSz := pres.CreateElement("p:sldSz")
	sldSz.CreateAttr("cx", strconv.FormatInt(pw.doc.SlideWidth, 10))
	sldSz.CreateAttr("cy", strconv.FormatInt(pw.doc.SlideHeight, 10))

	// notes pages are portrait letter by convention
	notesSz := pres.CreateElement("p:notesSz")
	notesSz.CreateAttr("cx", strconv.FormatInt(DefaultSlideHeight, 10))
	notesSz.CreateAttr("cy", strconv.FormatInt(DefaultSlideWidth, 10))

	return writeXMLToZip(pw.zw, "ppt/presentation.xml", doc)
}

func (pw *packageWriter) writePresentationRels() error {
	rels := newRelationships()
	rels.add(relTypeSlideMaster, "slideMasters/slideMaster1.xml")
	for i := range pw.doc.Slides {
		rels.add(relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	rels.add(relTypePresProps, "presProps.xml")
	rels.add(relTypeViewProps, "viewProps.xml")
	rels.add(relTypeTableStyles, "tableStyles.xml")
	rels.add(relTypeTheme, "theme/theme1.xml")
	return writeXMLToZip(pw.zw, "ppt/_rels/presentation.xml.rels", rels.doc)
}

func (pw *packageWriter) writeAncillaryProps() error {
	presProps := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentationPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"/>`, nsDrawingML, nsOfficeDocRels, nsPresentationML)
	if err := writeDataToZip(pw.zw, "ppt/presProps.xml", []byte(presProps)); err != nil {
		return err
	}

	viewProps := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:viewPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"/>`, nsDrawingML, nsOfficeDocRels, nsPresentationML)
	if err := writeDataToZip(pw.zw, "ppt/viewProps.xml", []byte(viewProps)); err != nil {
		return err
	}

	tableStyles := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:tblStyleLst xmlns:a="%s" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`, nsDrawingML)
	return writeDataToZip(pw.zw, "ppt/tableStyles.xml", []byte(tableStyles))
}

// themeColor picks a probed theme color or the stock Office value.
func (pw *packageWriter) themeColor(slot, stock string) string {
	if c, ok := pw.doc.ThemeColors[slot]; ok && c != nil {
		return c.Hex()
	}
	return stock
}

func (pw *packageWriter) writeTheme() error {
	data := fmt.Sprintf(themeTmpl, nsDrawingML,
		pw.themeColor("dark1", "000000"),
		pw.themeColor("light1", "FFFFFF"),
		pw.themeColor("dark2", "44546A"),
		pw.themeColor("light2", "E7E6E6"),
		pw.themeColor("accent1", "4472C4"),
		pw.themeColor("accent2", "ED7D31"),
		pw.themeColor("accent3", "A5A5A5"))
	return writeDataToZip(pw.zw, "ppt/theme/theme1.xml", []byte(data))
}

// Stock Office theme skeleton with our probed color scheme substituted in.
// The format scheme must carry three entries per style list to be valid even
// though nothing in generated documents references them.
const themeTmpl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="%s" name="Office Theme">
  <a:themeElements>
    <a:clrScheme name="Office">
      <a:dk1><a:srgbClr val="%s"/></a:dk1>
      <a:lt1><a:srgbClr val="%s"/></a:lt1>
      <a:dk2><a:srgbClr val="%s"/></a:dk2>
      <a:lt2><a:srgbClr val="%s"/></a:lt2>
      <a:accent1><a:srgbClr val="%s"/></a:accent1>
      <a:accent2><a:srgbClr val="%s"/></a:accent2>
      <a:accent3><a:srgbClr val="%s"/></a:accent3>
      <a:accent4><a:srgbClr val="FFC000"/></a:accent4>
      <a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>
      <a:accent6><a:srgbClr val="70AD47"/></a:accent6>
      <a:hlink><a:srgbClr val="0563C1"/></a:hlink>
      <a:folHlink><a:srgbClr val="954F72"/></a:folHlink>
    </a:clrScheme>
    <a:fontScheme name="Office">
      <a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>
      <a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>
    </a:fontScheme>
    <a:fmtScheme name="Office">
      <a:fillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
      </a:fillStyleLst>
      <a:lnStyleLst>
        <a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
      </a:lnStyleLst>
      <a:effectStyleLst>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
      </a:effectStyleLst>
      <a:bgFillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
      </a:bgFillStyleLst>
    </a:fmtScheme>
  </a:themeElements>
</a:theme>`

func (pw *packageWriter) writeMaster() error {
	doc := newXMLDocument()
	master := doc.CreateElement("p:sldMaster")
	master.CreateAttr("xmlns:a", nsDrawingML)
	master.CreateAttr("xmlns:r", nsOfficeDocRels)
	master.CreateAttr("xmlns:p", nsPresentationML)

	cSld := master.CreateElement("p:cSld")
	addBackground(cSld, pw.doc.MasterBackground)
	addEmptySpTree(cSld)

	clrMap := master.CreateElement("p:clrMap")
	clrMap.CreateAttr("bg1", "lt1")
	clrMap.CreateAttr("tx1", "dk1")
	clrMap.CreateAttr("bg2", "lt2")
	clrMap.CreateAttr("tx2", "dk2")
	for _, a := range []string{"accent1", "accent2", "accent3", "accent4", "accent5", "accent6"} {
		clrMap.CreateAttr(a, a)
	}
	clrMap.CreateAttr("hlink", "hlink")
	clrMap.CreateAttr("folHlink", "folHlink")

	layouts := master.CreateElement("p:sldLayoutIdLst")
	for i := range pw.doc.Layouts {
		id := layouts.CreateElement("p:sldLayoutId")
		id.CreateAttr("id", strconv.Itoa(2147483649+i))
		id.CreateAttr("r:id", fmt.Sprintf("rId%d", i+1))
	}

	if err := writeXMLToZip(pw.zw, "ppt/slideMasters/slideMaster1.xml", doc); err != nil {
		return err
	}

	rels := newRelationships()
	for i := range pw.doc.Layouts {
		rels.add(relTypeSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1))
	}
	rels.add(relTypeTheme, "../theme/theme1.xml")
	return writeXMLToZip(pw.zw, "ppt/slideMasters/_rels/slideMaster1.xml.rels", rels.doc)
}

// placeholder classification tokens the format understands; everything else
// is emitted as an untyped (body) placeholder
var phTypeTokens = map[string]string{
	"TITLE":    "title",
	"CTRTITLE": "ctrTitle",
	"SUBTITLE": "subTitle",
	"BODY":     "body",
	"DT":       "dt",
	"FTR":      "ftr",
	"SLDNUM":   "sldNum",
	"PIC":      "pic",
	"TBL":      "tbl",
	"CHART":    "chart",
	"OBJ":      "obj",
}

func addPlaceholderTag(nvPr *etree.Element, info PlaceholderInfo) {
	ph := nvPr.CreateElement("p:ph")
	if token, ok := phTypeTokens[info.Type]; ok {
		ph.CreateAttr("type", token)
	}
	if info.Idx > 0 {
		ph.CreateAttr("idx", strconv.Itoa(info.Idx))
	}
}

func addXfrm(spPr *etree.Element, left, top, width, height int64) {
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", strconv.FormatInt(left, 10))
	off.CreateAttr("y", strconv.FormatInt(top, 10))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(width, 10))
	ext.CreateAttr("cy", strconv.FormatInt(height, 10))
}

func addBackground(cSld *etree.Element, fill *Fill) {
	if fill == nil {
		return
	}
	bgPr := cSld.CreateElement("p:bg").CreateElement("p:bgPr")
	bgPr.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", fill.Color.Hex())
	bgPr.CreateElement("a:effectLst")
}

// addEmptySpTree creates the mandatory shape tree scaffolding and returns it.
func addEmptySpTree(cSld *etree.Element) *etree.Element {
	spTree := cSld.CreateElement("p:spTree")

	nvGrp := spTree.CreateElement("p:nvGrpSpPr")
	cNvPr := nvGrp.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nvGrp.CreateElement("p:cNvGrpSpPr")
	nvGrp.CreateElement("p:nvPr")

	grpSpPr := spTree.CreateElement("p:grpSpPr")
	xfrm := grpSpPr.CreateElement("a:xfrm")
	for _, tag := range []string{"a:off", "a:chOff"} {
		e := xfrm.CreateElement(tag)
		e.CreateAttr("x", "0")
		e.CreateAttr("y", "0")
	}
	for _, tag := range []string{"a:ext", "a:chExt"} {
		e := xfrm.CreateElement(tag)
		e.CreateAttr("cx", "0")
		e.CreateAttr("cy", "0")
	}
	return spTree
}

func (pw *packageWriter) writeLayout(i int) error {
	layout := pw.doc.Layouts[i]

	doc := newXMLDocument()
	sldLayout := doc.CreateElement("p:sldLayout")
	sldLayout.CreateAttr("xmlns:a", nsDrawingML)
	sldLayout.CreateAttr("xmlns:r", nsOfficeDocRels)
	sldLayout.CreateAttr("xmlns:p", nsPresentationML)

	cSld := sldLayout.CreateElement("p:cSld")
	if layout.Name != "" {
		cSld.CreateAttr("name", layout.Name)
	}
	addBackground(cSld, layout.Background)
	spTree := addEmptySpTree(cSld)

	shapeID := 2
	for _, info := range layout.Placeholders {
		sp := spTree.CreateElement("p:sp")

		nvSpPr := sp.CreateElement("p:nvSpPr")
		cNvPr := nvSpPr.CreateElement("p:cNvPr")
		cNvPr.CreateAttr("id", strconv.Itoa(shapeID))
		cNvPr.CreateAttr("name", fmt.Sprintf("Placeholder %d", shapeID-1))
		shapeID++
		nvSpPr.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
		addPlaceholderTag(nvSpPr.CreateElement("p:nvPr"), info)

		spPr := sp.CreateElement("p:spPr")
		if info.Width > 0 && info.Height > 0 {
			addXfrm(spPr, info.Left, info.Top, info.Width, info.Height)
		}

		txBody := sp.CreateElement("p:txBody")
		txBody.CreateElement("a:bodyPr")
		txBody.CreateElement("a:lstStyle")
		txBody.CreateElement("a:p")
	}

	sldLayout.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")

	if err := writeXMLToZip(pw.zw, fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), doc); err != nil {
		return err
	}

	rels := newRelationships()
	rels.add(relTypeSlideMaster, "../slideMasters/slideMaster1.xml")
	return writeXMLToZip(pw.zw, fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1), rels.doc)
}

func addRunProperties(r *etree.Element, font FontDescriptor) {
	rPr := r.CreateElement("a:rPr")
	rPr.CreateAttr("lang", "en-US")
	rPr.CreateAttr("dirty", "0")
	if font.Size != nil && *font.Size > 0 {
		rPr.CreateAttr("sz", strconv.Itoa(int(*font.Size*100)))
	}
	if font.Bold != nil && *font.Bold {
		rPr.CreateAttr("b", "1")
	}
	if font.Italic != nil && *font.Italic {
		rPr.CreateAttr("i", "1")
	}
	if font.Color != nil {
		rPr.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", font.Color.Hex())
	}
	if font.Name != nil && *font.Name != "" {
		rPr.CreateElement("a:latin").CreateAttr("typeface", *font.Name)
	}
}

func addTextBody(parent *etree.Element, tf *TextFrame) {
	txBody := parent.CreateElement("p:txBody")
	txBody.CreateElement("a:bodyPr")
	txBody.CreateElement("a:lstStyle")

	if len(tf.Paragraphs) == 0 {
		txBody.CreateElement("a:p")
		return
	}
	for _, p := range tf.Paragraphs {
		ap := txBody.CreateElement("a:p")
		if p.Level > 0 {
			ap.CreateElement("a:pPr").CreateAttr("lvl", strconv.Itoa(p.Level))
		}
		for i := range p.Runs {
			run := &p.Runs[i]
			ar := ap.CreateElement("a:r")
			addRunProperties(ar, run.Font)
			ar.CreateElement("a:t").SetText(run.Text)
		}
	}
}

func (pw *packageWriter) writeSlide(i int) error {
	slide := pw.doc.Slides[i]

	doc := newXMLDocument()
	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", nsDrawingML)
	sld.CreateAttr("xmlns:r", nsOfficeDocRels)
	sld.CreateAttr("xmlns:p", nsPresentationML)

	cSld := sld.CreateElement("p:cSld")
	spTree := addEmptySpTree(cSld)

	shapeID := 2
	for _, ph := range slide.Placeholders {
		if ph.Frame.Empty() {
			continue // inherited from the layout, nothing to say
		}
		sp := spTree.CreateElement("p:sp")

		nvSpPr := sp.CreateElement("p:nvSpPr")
		cNvPr := nvSpPr.CreateElement("p:cNvPr")
		cNvPr.CreateAttr("id", strconv.Itoa(shapeID))
		cNvPr.CreateAttr("name", placeholderShapeName(ph, shapeID-1))
		shapeID++
		nvSpPr.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
		addPlaceholderTag(nvSpPr.CreateElement("p:nvPr"), ph.Info)

		sp.CreateElement("p:spPr")
		addTextBody(sp, &ph.Frame)
	}

	for _, tb := range slide.TextBoxes {
		sp := spTree.CreateElement("p:sp")

		nvSpPr := sp.CreateElement("p:nvSpPr")
		cNvPr := nvSpPr.CreateElement("p:cNvPr")
		cNvPr.CreateAttr("id", strconv.Itoa(shapeID))
		cNvPr.CreateAttr("name", fmt.Sprintf("TextBox %d", shapeID-1))
		shapeID++
		nvSpPr.CreateElement("p:cNvSpPr").CreateAttr("txBox", "1")
		nvSpPr.CreateElement("p:nvPr")

		spPr := sp.CreateElement("p:spPr")
		addXfrm(spPr, tb.Left, tb.Top, tb.Width, tb.Height)
		spPr.CreateElement("a:prstGeom").CreateAttr("prst", "rect")
		spPr.SelectElement("a:prstGeom").CreateElement("a:avLst")

		addTextBody(sp, &tb.Frame)
	}

	sld.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")

	if err := writeXMLToZip(pw.zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), doc); err != nil {
		return err
	}

	rels := newRelationships()
	rels.add(relTypeSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", slide.LayoutIndex+1))
	if slide.Notes != "" {
		rels.add(relTypeNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", i+1))
	}
	return writeXMLToZip(pw.zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels.doc)
}

func placeholderShapeName(ph *Placeholder, n int) string {
	if ph.IsTitle() {
		return "Title"
	}
	return fmt.Sprintf("Placeholder %d", n)
}

func (pw *packageWriter) writeNotes(i int) error {
	slide := pw.doc.Slides[i]

	doc := newXMLDocument()
	notes := doc.CreateElement("p:notes")
	notes.CreateAttr("xmlns:a", nsDrawingML)
	notes.CreateAttr("xmlns:r", nsOfficeDocRels)
	notes.CreateAttr("xmlns:p", nsPresentationML)

	cSld := notes.CreateElement("p:cSld")
	spTree := addEmptySpTree(cSld)

	sp := spTree.CreateElement("p:sp")
	nvSpPr := sp.CreateElement("p:nvSpPr")
	cNvPr := nvSpPr.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "2")
	cNvPr.CreateAttr("name", "Notes Placeholder")
	nvSpPr.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
	ph := nvSpPr.CreateElement("p:nvPr").CreateElement("p:ph")
	ph.CreateAttr("type", "body")
	ph.CreateAttr("idx", "1")

	sp.CreateElement("p:spPr")
	var frame TextFrame
	frame.SetText(slide.Notes)
	addTextBody(sp, &frame)

	if err := writeXMLToZip(pw.zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", i+1), doc); err != nil {
		return err
	}

	rels := newRelationships()
	rels.add(relTypeSlide, fmt.Sprintf("../slides/slide%d.xml", i+1))
	return writeXMLToZip(pw.zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", i+1), rels.doc)
}
