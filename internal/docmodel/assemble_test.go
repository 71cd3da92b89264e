package docmodel

import (
	"strings"
	"testing"

	"github.com/alnah/go-md2docx/internal/markup"
)

// letterPage is US Letter with half-inch margins, in twips.
var letterPage = Geometry{WidthTwips: 12240, HeightTwips: 15840, MarginTwips: 720}

func assemble(t *testing.T, blocks []markup.Block) *Document {
	t.Helper()
	return NewAssembler().Assemble(blocks, Meta{Title: "t", Creator: "c"}, letterPage)
}

func onlyParagraph(t *testing.T, doc *Document) *ParagraphElement {
	t.Helper()
	if len(doc.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(doc.Elements))
	}
	p, ok := doc.Elements[0].(*ParagraphElement)
	if !ok {
		t.Fatalf("got %T, want *ParagraphElement", doc.Elements[0])
	}
	return p
}

func TestAssemble_Heading(t *testing.T) {
	t.Parallel()

	doc := assemble(t, []markup.Block{
		&markup.Heading{Level: 1, Runs: []markup.InlineRun{{Kind: markup.RunText, Text: "Title"}}},
	})
	p := onlyParagraph(t, doc)
	if !p.Spans[0].Bold {
		t.Error("heading span should be bold")
	}
	if p.Spans[0].SizeHalf != 48 {
		t.Errorf("h1 size = %d, want 48", p.Spans[0].SizeHalf)
	}

	doc2 := assemble(t, []markup.Block{
		&markup.Heading{Level: 4, Runs: []markup.InlineRun{{Kind: markup.RunText, Text: "x"}}},
	})
	p2 := onlyParagraph(t, doc2)
	if p2.Format.SpacingBefore >= p.Format.SpacingBefore {
		t.Error("spacing should shrink as heading level grows")
	}
}

func TestAssemble_InlineStyles(t *testing.T) {
	t.Parallel()

	doc := assemble(t, []markup.Block{
		&markup.Paragraph{Runs: []markup.InlineRun{
			{Kind: markup.RunBold, Text: "b"},
			{Kind: markup.RunItalic, Text: "i"},
			{Kind: markup.RunBoldItalic, Text: "bi"},
			{Kind: markup.RunCode, Text: "c"},
			{Kind: markup.RunLink, Text: "l", URL: "http://x"},
			{Kind: markup.RunStrikethrough, Text: "s"},
		}},
	})
	p := onlyParagraph(t, doc)
	if len(p.Spans) != 6 {
		t.Fatalf("got %d spans, want 6", len(p.Spans))
	}
	if !p.Spans[0].Bold || !p.Spans[1].Italic {
		t.Error("bold/italic not mapped")
	}
	if !p.Spans[2].Bold || !p.Spans[2].Italic {
		t.Error("bold+italic not mapped")
	}
	if !p.Spans[3].Mono || p.Spans[3].Shading == "" {
		t.Error("inline code should be shaded monospace")
	}
	if !p.Spans[4].Underline || p.Spans[4].Color == "" {
		t.Error("link should be underlined and colored")
	}
	if !p.Spans[5].Strike {
		t.Error("strikethrough not mapped")
	}
}

func TestAssemble_ListIndent(t *testing.T) {
	t.Parallel()

	doc := assemble(t, []markup.Block{
		&markup.ListItem{Level: 2, Runs: []markup.InlineRun{{Kind: markup.RunText, Text: "x"}}},
	})
	p := onlyParagraph(t, doc)
	if !p.Format.Bullet {
		t.Error("list item should be bulleted")
	}
	if p.Format.IndentLeft != 3*listIndentStep {
		t.Errorf("indent = %d, want %d", p.Format.IndentLeft, 3*listIndentStep)
	}

	deep := assemble(t, []markup.Block{
		&markup.ListItem{Level: 50, Runs: []markup.InlineRun{{Kind: markup.RunText, Text: "x"}}},
	})
	pd := onlyParagraph(t, deep)
	if pd.Format.IndentLeft != (maxListLevel+1)*listIndentStep {
		t.Errorf("deep indent = %d, want clamped %d", pd.Format.IndentLeft, (maxListLevel+1)*listIndentStep)
	}
}

func TestAssemble_Blockquote(t *testing.T) {
	t.Parallel()

	doc := assemble(t, []markup.Block{
		&markup.Blockquote{Runs: []markup.InlineRun{{Kind: markup.RunText, Text: "q"}}},
	})
	p := onlyParagraph(t, doc)
	if p.Format.LeftBorder == "" || p.Format.Shading == "" || p.Format.IndentLeft == 0 {
		t.Errorf("blockquote format incomplete: %+v", p.Format)
	}
}

func TestAssemble_CodeBlock(t *testing.T) {
	t.Parallel()

	t.Run("one shaded paragraph per line", func(t *testing.T) {
		t.Parallel()
		doc := assemble(t, []markup.Block{
			&markup.CodeBlock{Lines: []string{"a", "", "b"}},
		})
		if len(doc.Elements) != 3 {
			t.Fatalf("got %d elements, want 3", len(doc.Elements))
		}
		blank := doc.Elements[1].(*ParagraphElement)
		if blank.Spans[0].Text != " " {
			t.Errorf("blank code line = %q, want single space", blank.Spans[0].Text)
		}
		for _, e := range doc.Elements {
			p := e.(*ParagraphElement)
			if p.Format.Shading != codeShading {
				t.Errorf("shading = %q, want %q", p.Format.Shading, codeShading)
			}
			if !p.Spans[0].Mono {
				t.Error("code span should be monospace")
			}
		}
	})

	t.Run("known language gets colored spans", func(t *testing.T) {
		t.Parallel()
		doc := assemble(t, []markup.Block{
			&markup.CodeBlock{Language: "go", Lines: []string{`func main() { return }`}},
		})
		p := doc.Elements[0].(*ParagraphElement)
		colored := false
		var text strings.Builder
		for _, s := range p.Spans {
			text.WriteString(s.Text)
			if s.Color != "" {
				colored = true
			}
		}
		if !colored {
			t.Error("expected at least one colored token span")
		}
		if text.String() != `func main() { return }` {
			t.Errorf("highlighted text = %q, lost content", text.String())
		}
	})

	t.Run("unknown language falls back to plain", func(t *testing.T) {
		t.Parallel()
		doc := assemble(t, []markup.Block{
			&markup.CodeBlock{Language: "nosuchlang-xyz", Lines: []string{"plain"}},
		})
		p := doc.Elements[0].(*ParagraphElement)
		if len(p.Spans) != 1 || p.Spans[0].Text != "plain" {
			t.Errorf("spans = %+v, want one plain span", p.Spans)
		}
	})
}

func TestAssemble_Diagram(t *testing.T) {
	t.Parallel()

	t.Run("resolved image fits content width", func(t *testing.T) {
		t.Parallel()
		doc := assemble(t, []markup.Block{
			&markup.DiagramBlock{Source: "a -> b", Image: &markup.ImageData{
				PNG:    []byte{0x89, 'P', 'N', 'G'},
				Width:  800,
				Height: 600,
			}},
		})
		img, ok := doc.Elements[0].(*ImageElement)
		if !ok {
			t.Fatalf("got %T, want *ImageElement", doc.Elements[0])
		}
		maxW := int64(letterPage.ContentWidthTwips()) * EMUPerTwip
		if img.WidthEMU != maxW {
			t.Errorf("width = %d EMU, want content width %d", img.WidthEMU, maxW)
		}
		// Aspect ratio preserved: 800x600 is 4:3.
		wantH := img.WidthEMU * 3 / 4
		if diff := img.HeightEMU - wantH; diff < -emuPerPixel || diff > emuPerPixel {
			t.Errorf("height = %d EMU, want about %d", img.HeightEMU, wantH)
		}
	})

	t.Run("very tall image capped by page height", func(t *testing.T) {
		t.Parallel()
		doc := assemble(t, []markup.Block{
			&markup.DiagramBlock{Image: &markup.ImageData{
				PNG:    []byte{0x89, 'P', 'N', 'G'},
				Width:  400,
				Height: 4000,
			}},
		})
		img := doc.Elements[0].(*ImageElement)
		maxH := int64(float64(letterPage.ContentHeightTwips())*maxImageHeightFraction) * EMUPerTwip
		if img.HeightEMU > maxH {
			t.Errorf("height = %d EMU, exceeds cap %d", img.HeightEMU, maxH)
		}
	})

	t.Run("unresolved diagram becomes italic note", func(t *testing.T) {
		t.Parallel()
		doc := assemble(t, []markup.Block{
			&markup.DiagramBlock{Source: "bad"},
		})
		p, ok := doc.Elements[0].(*ParagraphElement)
		if !ok {
			t.Fatalf("got %T, want placeholder paragraph", doc.Elements[0])
		}
		if !p.Spans[0].Italic || p.Spans[0].Text != diagramPlaceholder {
			t.Errorf("placeholder = %+v", p.Spans[0])
		}
	})
}

func TestAssemble_RuleBlankAndTable(t *testing.T) {
	t.Parallel()

	doc := assemble(t, []markup.Block{
		&markup.HorizontalRule{},
		&markup.Blank{},
		&markup.Table{Rows: [][]string{{"A", "B"}, {"1", "2"}}, FirstRowIsHeader: true},
	})
	if len(doc.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(doc.Elements))
	}
	rule := doc.Elements[0].(*ParagraphElement)
	if !rule.Format.BottomBorder || len(rule.Spans) != 0 {
		t.Errorf("rule element = %+v", rule)
	}
	blank := doc.Elements[1].(*ParagraphElement)
	if len(blank.Spans) != 0 {
		t.Errorf("blank element has spans: %+v", blank.Spans)
	}
	tbl := doc.Elements[2].(*TableElement)
	if len(tbl.Rows) != 2 {
		t.Errorf("table rows = %d, want 2", len(tbl.Rows))
	}
}

func TestAssemble_NeverEmpty(t *testing.T) {
	t.Parallel()

	doc := assemble(t, nil)
	if len(doc.Elements) == 0 {
		t.Error("document model must contain at least one element")
	}
}
