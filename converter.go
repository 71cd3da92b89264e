package md2docx

import (
	"context"
	"fmt"

	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/docmodel"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/markup"
)

// MIMEType is the content type of the exported document package.
const MIMEType = docx.MIMEType

// DiagramRenderer abstracts the diagram pipeline so tests can substitute
// a fake. Render returns nil when the diagram could not be drawn; that is
// not an error, and the document is still produced with a placeholder.
type DiagramRenderer interface {
	Render(ctx context.Context, description string, index int) *markup.ImageData
	Close() error
}

// documentAssembler maps parsed blocks into the document model.
type documentAssembler interface {
	Assemble(blocks []markup.Block, meta docmodel.Meta, page docmodel.Geometry) *docmodel.Document
}

// documentSerializer packages the document model into bytes.
type documentSerializer interface {
	Serialize(doc *docmodel.Document) ([]byte, error)
}

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ DiagramRenderer    = (*diagram.Pipeline)(nil)
	_ documentAssembler  = (*docmodel.Assembler)(nil)
	_ documentSerializer = (*docx.Writer)(nil)
)

// Converter orchestrates the markup-to-document pipeline: block parsing,
// sequential diagram resolution, model assembly, and binary packaging.
// Create with NewConverter(), use Convert() for conversion, and Close()
// when done.
type Converter struct {
	cfg        converterConfig
	diagrams   DiagramRenderer
	assembler  documentAssembler
	serializer documentSerializer
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithDiagramTimeout, WithTheme).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg:        converterConfig{diagramTimeout: defaultDiagramTimeout},
		assembler:  docmodel.NewAssembler(),
		serializer: docx.NewWriter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create diagram pipeline if not injected (e.g., by tests)
	if c.diagrams == nil {
		c.diagrams = diagram.NewPipeline(
			diagram.NewD2Renderer(c.cfg.themeID),
			diagram.NewRodRasterizer(),
			c.cfg.diagramTimeout,
		)
	}

	return c
}

// Convert runs the full pipeline and returns the packaged document with
// its derived file name. The context is used for cancellation; each
// diagram is additionally bounded by the configured per-diagram timeout.
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	// Parse: never fails, always yields at least one block.
	blocks := markup.ParseBlocks(input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Resolve diagrams strictly in document order, one at a time, so
	// per-diagram identifiers stay deterministic. Each DiagramBlock's
	// image is set exactly once; nil means placeholder downstream.
	index := 0
	for _, b := range blocks {
		d, ok := b.(*markup.DiagramBlock)
		if !ok {
			continue
		}
		d.Image = c.diagrams.Render(ctx, d.Source, index)
		index++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	meta := docmodel.Meta{
		Title:   resolveTitle(input, blocks),
		Creator: resolveCreator(input.Creator),
	}
	doc := c.assembler.Assemble(blocks, meta, pageGeometry(input.Page))

	data, err := c.serializer.Serialize(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	return &Result{
		DOCX:     data,
		Filename: fileutil.DocumentName(input.BaseName),
	}, nil
}

// Close releases resources (headless browser).
func (c *Converter) Close() error {
	if c.diagrams != nil {
		return c.diagrams.Close()
	}
	return nil
}

// validateInput checks input at the trust boundary. Empty markup is
// allowed: it converts to a single-placeholder document.
func (c *Converter) validateInput(input Input) error {
	return input.Page.Validate()
}

// resolveTitle prefers an explicit title, then the first heading's
// visible text, then the base name.
func resolveTitle(input Input, blocks []markup.Block) string {
	if input.Title != "" {
		return input.Title
	}
	for _, b := range blocks {
		if h, ok := b.(*markup.Heading); ok {
			if text := markup.PlainText(h.Runs); text != "" {
				return text
			}
		}
	}
	if input.BaseName != "" {
		return input.BaseName
	}
	return "Document"
}

func resolveCreator(creator string) string {
	if creator == "" {
		return defaultCreator
	}
	return creator
}
