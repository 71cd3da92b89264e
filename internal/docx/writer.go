// Package docx serializes the document model into an OOXML
// WordprocessingML package (a zip of XML parts plus embedded media),
// the binary format consumed by word processors.
//
// The document part is built directly rather than through an OOXML
// library: the subset of WordprocessingML this pipeline emits is small
// and fixed, and writing it by hand keeps exact control over run and
// paragraph properties.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/docmodel"
)

// MIMEType is the content type of the exported package.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Sentinel errors for serialization.
var (
	ErrNilDocument   = errors.New("document model is nil")
	ErrEmptyDocument = errors.New("document model has no elements")
)

// Table and font styling.
const (
	monoFont          = "Consolas"
	bodyFont          = "Calibri"
	tableHeaderFill   = "2E3440"
	tableHeaderColor  = "FFFFFF"
	tableBorderColor  = "BFBFBF"
	ruleBorderColor   = "A6A6A6"
	bulletGlyph       = "•"
	bulletHangTwips   = 200
	tableCellMarTwips = 80
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Writer serializes document models. It is stateless and safe for reuse.
type Writer struct{}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Serialize packages the document model into DOCX bytes. Any failure here
// is fatal to the conversion: no partial package is returned.
func (w *Writer) Serialize(doc *docmodel.Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if len(doc.Elements) == 0 {
		return nil, ErrEmptyDocument
	}

	images := collectImages(doc.Elements)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML(len(images) > 0))},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"docProps/core.xml", []byte(corePropsXML(doc.Meta))},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML(len(images)))},
		{"word/document.xml", []byte(documentXML(doc))},
	}
	for i, img := range images {
		parts = append(parts, struct {
			name    string
			content []byte
		}{fmt.Sprintf("word/media/image%d.png", i+1), img.PNG})
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("creating package part %s: %w", part.name, err)
		}
		if _, err := f.Write(part.content); err != nil {
			return nil, fmt.Errorf("writing package part %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing package: %w", err)
	}
	return buf.Bytes(), nil
}

// collectImages gathers image elements in document order; their position
// determines relationship ids and media part names.
func collectImages(elements []docmodel.Element) []*docmodel.ImageElement {
	var images []*docmodel.ImageElement
	for _, e := range elements {
		if img, ok := e.(*docmodel.ImageElement); ok {
			images = append(images, img)
		}
	}
	return images
}

func contentTypesXML(hasImages bool) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	if hasImages {
		b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	}
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

func corePropsXML(meta docmodel.Meta) string {
	created := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, xmlEscaper.Replace(meta.Title))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, xmlEscaper.Replace(meta.Creator))
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, created)
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

// documentRelsXML declares one relationship per embedded image, rId1..N.
func documentRelsXML(imageCount int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 1; i <= imageCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%d.png"/>`, i, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// documentXML builds the main document part: every element in order,
// then the section properties carrying the page geometry.
func documentXML(doc *docmodel.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document` +
		` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	b.WriteString(`<w:body>`)

	imageIndex := 0
	for _, e := range doc.Elements {
		switch el := e.(type) {
		case *docmodel.ParagraphElement:
			writeParagraph(&b, el)
		case *docmodel.TableElement:
			writeTable(&b, el, doc.Page)
		case *docmodel.ImageElement:
			imageIndex++
			writeImage(&b, el, imageIndex)
		}
	}

	writeSectionProperties(&b, doc.Page)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, p *docmodel.ParagraphElement) {
	b.WriteString(`<w:p>`)
	writeParagraphProperties(b, p.Format)
	if p.Format.Bullet {
		writeRun(b, docmodel.Span{Text: bulletGlyph + " "})
	}
	for _, span := range p.Spans {
		writeRun(b, span)
	}
	b.WriteString(`</w:p>`)
}

func writeParagraphProperties(b *strings.Builder, f docmodel.ParagraphFormat) {
	b.WriteString(`<w:pPr>`)
	if f.LeftBorder != "" || f.BottomBorder {
		b.WriteString(`<w:pBdr>`)
		if f.LeftBorder != "" {
			fmt.Fprintf(b, `<w:left w:val="single" w:sz="24" w:space="4" w:color="%s"/>`, f.LeftBorder)
		}
		if f.BottomBorder {
			fmt.Fprintf(b, `<w:bottom w:val="single" w:sz="6" w:space="1" w:color="%s"/>`, ruleBorderColor)
		}
		b.WriteString(`</w:pBdr>`)
	}
	if f.Shading != "" {
		fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, f.Shading)
	}
	if f.SpacingBefore > 0 || f.SpacingAfter > 0 {
		fmt.Fprintf(b, `<w:spacing w:before="%d" w:after="%d"/>`, f.SpacingBefore, f.SpacingAfter)
	}
	if f.IndentLeft > 0 {
		if f.Bullet {
			fmt.Fprintf(b, `<w:ind w:left="%d" w:hanging="%d"/>`, f.IndentLeft, bulletHangTwips)
		} else {
			fmt.Fprintf(b, `<w:ind w:left="%d"/>`, f.IndentLeft)
		}
	}
	b.WriteString(`</w:pPr>`)
}

func writeRun(b *strings.Builder, span docmodel.Span) {
	b.WriteString(`<w:r>`)
	b.WriteString(`<w:rPr>`)
	font := bodyFont
	if span.Mono {
		font = monoFont
	}
	fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, font, font, font)
	if span.Bold {
		b.WriteString(`<w:b/>`)
	}
	if span.Italic {
		b.WriteString(`<w:i/>`)
	}
	if span.Strike {
		b.WriteString(`<w:strike/>`)
	}
	if span.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if span.Color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, span.Color)
	}
	if span.Shading != "" {
		fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, span.Shading)
	}
	if span.SizeHalf > 0 {
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, span.SizeHalf, span.SizeHalf)
	}
	b.WriteString(`</w:rPr>`)
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, xmlEscaper.Replace(span.Text))
	b.WriteString(`</w:r>`)
}

// writeTable emits a full-width table with uniform borders. The first
// row is the header: inverted shading with bold white text.
func writeTable(b *strings.Builder, t *docmodel.TableElement, page docmodel.Geometry) {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	colWidth := page.ContentWidthTwips() / cols

	b.WriteString(`<w:tbl><w:tblPr>`)
	fmt.Fprintf(b, `<w:tblW w:w="%d" w:type="dxa"/>`, page.ContentWidthTwips())
	b.WriteString(`<w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="%s"/>`, side, tableBorderColor)
	}
	b.WriteString(`</w:tblBorders>`)
	fmt.Fprintf(b, `<w:tblCellMar><w:left w:w="%d" w:type="dxa"/><w:right w:w="%d" w:type="dxa"/></w:tblCellMar>`,
		tableCellMarTwips, tableCellMarTwips)
	b.WriteString(`</w:tblPr>`)

	for rowIdx, row := range t.Rows {
		header := rowIdx == 0
		b.WriteString(`<w:tr>`)
		for col := 0; col < cols; col++ {
			text := ""
			if col < len(row) {
				text = row[col]
			}
			b.WriteString(`<w:tc><w:tcPr>`)
			fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="dxa"/>`, colWidth)
			if header {
				fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, tableHeaderFill)
			}
			b.WriteString(`</w:tcPr>`)
			span := docmodel.Span{Text: text}
			if header {
				span.Bold = true
				span.Color = tableHeaderColor
			}
			b.WriteString(`<w:p>`)
			writeRun(b, span)
			b.WriteString(`</w:p>`)
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

// writeImage emits an inline drawing referencing word/media/imageN.png
// through relationship rIdN.
func writeImage(b *strings.Builder, img *docmodel.ImageElement, n int) {
	b.WriteString(`<w:p><w:r><w:drawing>`)
	b.WriteString(`<wp:inline distT="0" distB="0" distL="0" distR="0">`)
	fmt.Fprintf(b, `<wp:extent cx="%d" cy="%d"/>`, img.WidthEMU, img.HeightEMU)
	fmt.Fprintf(b, `<wp:docPr id="%d" name="Diagram %d"/>`, n, n)
	b.WriteString(`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`)
	b.WriteString(`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	b.WriteString(`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	fmt.Fprintf(b, `<pic:nvPicPr><pic:cNvPr id="%d" name="Diagram %d"/><pic:cNvPicPr/></pic:nvPicPr>`, n, n)
	fmt.Fprintf(b, `<pic:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, n)
	b.WriteString(`<pic:spPr><a:xfrm><a:off x="0" y="0"/>`)
	fmt.Fprintf(b, `<a:ext cx="%d" cy="%d"/>`, img.WidthEMU, img.HeightEMU)
	b.WriteString(`</a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic>`)
	b.WriteString(`</wp:inline>`)
	b.WriteString(`</w:drawing></w:r></w:p>`)
}

func writeSectionProperties(b *strings.Builder, page docmodel.Geometry) {
	b.WriteString(`<w:sectPr>`)
	orient := ""
	if page.WidthTwips > page.HeightTwips {
		orient = ` w:orient="landscape"`
	}
	fmt.Fprintf(b, `<w:pgSz w:w="%d" w:h="%d"%s/>`, page.WidthTwips, page.HeightTwips, orient)
	fmt.Fprintf(b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`,
		page.MarginTwips, page.MarginTwips, page.MarginTwips, page.MarginTwips)
	b.WriteString(`</w:sectPr>`)
}
