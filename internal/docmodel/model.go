// Package docmodel holds the styled, paginated in-memory document
// representation assembled from parsed blocks just before binary
// serialization, and the assembly engine that builds it.
package docmodel

// Twips per inch (twentieths of a point).
const TwipsPerInch = 1440

// EMUs per inch and per twip (English Metric Units, used for image extents).
const (
	EMUPerInch = 914400
	EMUPerTwip = EMUPerInch / TwipsPerInch
)

// Geometry is the fixed page geometry for the whole document: page size
// and one uniform margin, in twips.
type Geometry struct {
	WidthTwips  int
	HeightTwips int
	MarginTwips int
}

// ContentWidthTwips is the usable width between margins.
func (g Geometry) ContentWidthTwips() int {
	return g.WidthTwips - 2*g.MarginTwips
}

// ContentHeightTwips is the usable height between margins.
func (g Geometry) ContentHeightTwips() int {
	return g.HeightTwips - 2*g.MarginTwips
}

// Meta is document-level metadata.
type Meta struct {
	Title   string
	Creator string
}

// Document is the assembled document model: ordered page-content elements
// plus metadata and page geometry. Built once per conversion and never
// mutated after handoff to the serializer.
type Document struct {
	Meta     Meta
	Page     Geometry
	Elements []Element
}

// Element is one page-content element.
type Element interface{ element() }

// Span is one styled run of text within a paragraph element.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Strike    bool
	Underline bool
	Mono      bool
	Color     string // RRGGBB hex, empty = default
	Shading   string // RRGGBB hex run shading, empty = none
	SizeHalf  int    // font size in half-points, 0 = body default
}

// ParagraphFormat carries paragraph-level styling.
type ParagraphFormat struct {
	SpacingBefore int    // twips
	SpacingAfter  int    // twips
	IndentLeft    int    // twips
	Bullet        bool   // render with a bullet glyph and hanging indent
	Shading       string // RRGGBB hex paragraph shading, empty = none
	LeftBorder    string // RRGGBB hex accent border color, empty = none
	BottomBorder  bool   // thin bottom border (horizontal rules)
}

// ParagraphElement is a paragraph-like element: body text, headings,
// list items, quotes, code lines, rules and spacing all map here.
type ParagraphElement struct {
	Spans  []Span
	Format ParagraphFormat
}

// TableElement is a full-width table. The first row is the header and is
// rendered with inverted shading and bold text; all cells get a uniform
// border.
type TableElement struct {
	Rows [][]string
}

// ImageElement is a resolved diagram bitmap sized for the page, extents
// in EMUs.
type ImageElement struct {
	PNG       []byte
	WidthEMU  int64
	HeightEMU int64
}

func (*ParagraphElement) element() {}
func (*TableElement) element()     {}
func (*ImageElement) element()     {}
