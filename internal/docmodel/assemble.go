package docmodel

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-md2docx/internal/markup"
)

// Body and code text styling.
const (
	bodySizeHalf     = 22 // 11pt
	codeSizeHalf     = 20 // 10pt
	bodySpacingAfter = 160

	codeShading     = "F2F2F2"
	codeSpanShading = "E7E6E6"
	quoteShading    = "F7F7F7"
	quoteBorder     = "4472C4"
	quoteIndent     = 360
	linkColor       = "0563C1"
	noteColor       = "808080"

	listIndentStep = 360
	maxListLevel   = 8

	// emuPerPixel converts intrinsic bitmap pixels (96 DPI) to EMUs.
	emuPerPixel = 9525

	// maxImageHeightFraction caps a diagram's height to a fraction of the
	// usable page height; taller diagrams are scaled down, never cropped
	// or spanned across pages.
	maxImageHeightFraction = 0.9
)

// headingFormat holds level-specific heading styling. Spacing scales
// inversely with level.
type headingFormat struct {
	sizeHalf int
	color    string
	before   int
	after    int
}

var headingFormats = map[int]headingFormat{
	1: {sizeHalf: 48, color: "1F4E79", before: 360, after: 200},
	2: {sizeHalf: 40, color: "1F4E79", before: 300, after: 160},
	3: {sizeHalf: 32, color: "2E74B5", before: 240, after: 120},
	4: {sizeHalf: 28, color: "2E74B5", before: 200, after: 100},
}

// diagramPlaceholder is shown in place of a diagram that failed to render.
const diagramPlaceholder = "[diagram could not be rendered]"

// Assembler maps parsed blocks (with resolved diagram bitmaps) into the
// document model. Code blocks with a known language tag are tokenized
// with chroma and emitted as colored spans.
type Assembler struct {
	codeStyle *chroma.Style
}

// NewAssembler creates an Assembler with the default highlighting style.
func NewAssembler() *Assembler {
	return &Assembler{codeStyle: styles.Get("github")}
}

// Assemble builds the document model from the block sequence. The result
// always contains at least one element.
func (a *Assembler) Assemble(blocks []markup.Block, meta Meta, page Geometry) *Document {
	doc := &Document{Meta: meta, Page: page}

	for _, b := range blocks {
		switch blk := b.(type) {
		case *markup.Heading:
			doc.Elements = append(doc.Elements, a.headingElement(blk))
		case *markup.Paragraph:
			doc.Elements = append(doc.Elements, &ParagraphElement{
				Spans:  inlineSpans(blk.Runs),
				Format: ParagraphFormat{SpacingAfter: bodySpacingAfter},
			})
		case *markup.ListItem:
			doc.Elements = append(doc.Elements, a.listElement(blk))
		case *markup.Blockquote:
			doc.Elements = append(doc.Elements, &ParagraphElement{
				Spans: inlineSpans(blk.Runs),
				Format: ParagraphFormat{
					SpacingAfter: bodySpacingAfter,
					IndentLeft:   quoteIndent,
					Shading:      quoteShading,
					LeftBorder:   quoteBorder,
				},
			})
		case *markup.CodeBlock:
			doc.Elements = append(doc.Elements, a.codeElements(blk)...)
		case *markup.DiagramBlock:
			doc.Elements = append(doc.Elements, a.diagramElement(blk, page))
		case *markup.Table:
			doc.Elements = append(doc.Elements, &TableElement{Rows: blk.Rows})
		case *markup.HorizontalRule:
			doc.Elements = append(doc.Elements, &ParagraphElement{
				Format: ParagraphFormat{BottomBorder: true, SpacingAfter: bodySpacingAfter},
			})
		case *markup.Blank:
			doc.Elements = append(doc.Elements, &ParagraphElement{})
		}
	}

	if len(doc.Elements) == 0 {
		doc.Elements = append(doc.Elements, &ParagraphElement{})
	}
	return doc
}

func (a *Assembler) headingElement(h *markup.Heading) *ParagraphElement {
	f, ok := headingFormats[h.Level]
	if !ok {
		f = headingFormats[4]
	}
	spans := inlineSpans(h.Runs)
	for i := range spans {
		spans[i].Bold = true
		spans[i].SizeHalf = f.sizeHalf
		if spans[i].Color == "" {
			spans[i].Color = f.color
		}
	}
	return &ParagraphElement{
		Spans:  spans,
		Format: ParagraphFormat{SpacingBefore: f.before, SpacingAfter: f.after},
	}
}

func (a *Assembler) listElement(li *markup.ListItem) *ParagraphElement {
	level := li.Level
	if level > maxListLevel {
		level = maxListLevel
	}
	return &ParagraphElement{
		Spans: inlineSpans(li.Runs),
		Format: ParagraphFormat{
			Bullet:     true,
			IndentLeft: listIndentStep * (level + 1),
		},
	}
}

// codeElements emits one shaded monospace paragraph per code line. Blank
// lines become single-space lines so the shading stays visible.
func (a *Assembler) codeElements(cb *markup.CodeBlock) []Element {
	lineSpans := a.highlight(cb.Language, cb.Lines)
	elements := make([]Element, 0, len(lineSpans))
	for _, spans := range lineSpans {
		elements = append(elements, &ParagraphElement{
			Spans:  spans,
			Format: ParagraphFormat{Shading: codeShading},
		})
	}
	return elements
}

// highlight tokenizes the code block with chroma when the language is
// known, defaulting to plain monospace spans otherwise.
func (a *Assembler) highlight(language string, lines []string) [][]Span {
	plain := func() [][]Span {
		out := make([][]Span, len(lines))
		for i, line := range lines {
			if line == "" {
				line = " "
			}
			out[i] = []Span{monoSpan(line, "")}
		}
		return out
	}

	if language == "" {
		return plain()
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return plain()
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plain()
	}

	out := make([][]Span, 0, len(lines))
	for _, tokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		var spans []Span
		for _, tok := range tokens {
			text := strings.TrimRight(tok.Value, "\n")
			if text == "" {
				continue
			}
			entry := a.codeStyle.Get(tok.Type)
			span := monoSpan(text, colorHex(entry.Colour))
			span.Bold = entry.Bold == chroma.Yes
			span.Italic = entry.Italic == chroma.Yes
			spans = append(spans, span)
		}
		out = append(out, spans)
	}
	// Tokenization can fold a trailing newline; keep line count stable.
	for len(out) < len(lines) {
		out = append(out, nil)
	}
	out = out[:len(lines)]

	for i, spans := range out {
		if len(spans) == 0 {
			out[i] = []Span{monoSpan(" ", "")}
		}
	}
	return out
}

func monoSpan(text, color string) Span {
	return Span{Text: text, Mono: true, Color: color, SizeHalf: codeSizeHalf}
}

// colorHex converts a chroma colour to RRGGBB hex, empty when unset.
func colorHex(c chroma.Colour) string {
	if !c.IsSet() {
		return ""
	}
	return strings.ToUpper(strings.TrimPrefix(c.String(), "#"))
}

// diagramElement sizes a resolved bitmap to the usable page width,
// preserving aspect ratio and capping height to a page fraction. A
// diagram without a resolved image becomes a short italic note instead.
func (a *Assembler) diagramElement(d *markup.DiagramBlock, page Geometry) Element {
	if d.Image == nil || len(d.Image.PNG) == 0 || d.Image.Width <= 0 || d.Image.Height <= 0 {
		return &ParagraphElement{
			Spans: []Span{{
				Text:   diagramPlaceholder,
				Italic: true,
				Color:  noteColor,
			}},
			Format: ParagraphFormat{SpacingAfter: bodySpacingAfter},
		}
	}

	wEMU := int64(d.Image.Width) * emuPerPixel
	hEMU := int64(d.Image.Height) * emuPerPixel
	maxW := int64(page.ContentWidthTwips()) * EMUPerTwip
	maxH := int64(float64(page.ContentHeightTwips())*maxImageHeightFraction) * EMUPerTwip

	scale := float64(maxW) / float64(wEMU)
	if s := float64(maxH) / float64(hEMU); s < scale {
		scale = s
	}

	return &ImageElement{
		PNG:       d.Image.PNG,
		WidthEMU:  int64(float64(wEMU) * scale),
		HeightEMU: int64(float64(hEMU) * scale),
	}
}

// inlineSpans maps styled runs to spans: bold, italic, strikethrough,
// underline-as-link, and shaded monospace for inline code.
func inlineSpans(runs []markup.InlineRun) []Span {
	spans := make([]Span, 0, len(runs))
	for _, r := range runs {
		span := Span{Text: r.Text}
		switch r.Kind {
		case markup.RunBold:
			span.Bold = true
		case markup.RunItalic:
			span.Italic = true
		case markup.RunBoldItalic:
			span.Bold = true
			span.Italic = true
		case markup.RunCode:
			span.Mono = true
			span.Shading = codeSpanShading
			span.SizeHalf = codeSizeHalf
		case markup.RunLink:
			span.Underline = true
			span.Color = linkColor
		case markup.RunStrikethrough:
			span.Strike = true
		}
		spans = append(spans, span)
	}
	return spans
}
