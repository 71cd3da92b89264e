package md2docx

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/docmodel"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures document page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Page sizes in twips (portrait).
var pageSizes = map[string][2]int{
	PageSizeLetter: {12240, 15840},
	PageSizeA4:     {11906, 16838},
	PageSizeLegal:  {12240, 20160},
}

// pageGeometry maps page settings to the document model's geometry.
// Nil settings mean defaults.
func pageGeometry(p *PageSettings) docmodel.Geometry {
	if p == nil {
		p = DefaultPageSettings()
	}
	size, ok := pageSizes[strings.ToLower(p.Size)]
	if !ok {
		size = pageSizes[PageSizeLetter]
	}
	w, h := size[0], size[1]
	if strings.ToLower(p.Orientation) == OrientationLandscape {
		w, h = h, w
	}
	return docmodel.Geometry{
		WidthTwips:  w,
		HeightTwips: h,
		MarginTwips: int(p.Margin * docmodel.TwipsPerInch),
	}
}

// Input contains conversion parameters.
type Input struct {
	Markdown string        // Markup content; empty input still yields a valid document
	BaseName string        // Display file name without extension (required for naming)
	Title    string        // Document title (optional, defaults to first heading or BaseName)
	Creator  string        // Document creator (optional)
	Page     *PageSettings // Page settings (optional, nil = defaults)
}

// Result holds the exported document.
type Result struct {
	DOCX     []byte // The binary document package
	Filename string // Derived output name: <basename>.docx
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	diagramTimeout time.Duration
	themeID        int64
}

// WithDiagramTimeout bounds each diagram's render sequence. A slow or
// failed diagram degrades to a placeholder instead of blocking the whole
// document. Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithDiagramTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2docx: WithDiagramTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.diagramTimeout = d
	}
}

// WithTheme selects the diagram engine's color theme.
func WithTheme(themeID int64) Option {
	return func(c *Converter) {
		c.cfg.themeID = themeID
	}
}

// WithDiagramRenderer replaces the diagram pipeline (e.g., by tests).
func WithDiagramRenderer(r DiagramRenderer) Option {
	return func(c *Converter) {
		c.diagrams = r
	}
}

// defaultCreator is written to document metadata when none is given.
const defaultCreator = "go-md2docx"

// defaultDiagramTimeout bounds each diagram render.
const defaultDiagramTimeout = diagram.DefaultTimeout
