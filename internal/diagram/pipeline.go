// Package diagram resolves textual diagram descriptions to bitmaps
// through a two-stage pipeline: the description is compiled to a vector
// intermediate form (SVG), measured and rescaled to fit page constraints,
// then rasterized to PNG on an offscreen browser surface.
//
// Render failures are contained per diagram: any stage that fails yields
// a nil bitmap, and the document is still produced with a placeholder
// where the diagram would have been.
package diagram

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"github.com/alnah/go-md2docx/internal/markup"
)

// VectorRenderer compiles a textual diagram description into vector
// markup (SVG). The id is unique per call and keys the render so repeated
// conversions never collide.
type VectorRenderer interface {
	RenderToVector(ctx context.Context, id, description string) (string, error)
}

// Rasterizer draws vector markup onto an offscreen surface of the given
// pixel size, white background first, and returns the encoded bitmap.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string, width, height int) ([]byte, error)
	Close() error
}

// DefaultTimeout bounds each diagram's render-and-rasterize sequence.
const DefaultTimeout = 5 * time.Second

// pngSignature is the first four bytes of a valid PNG stream.
var pngSignature = []byte{0x89, 'P', 'N', 'G'}

// Pipeline renders diagrams strictly in document order, one at a time,
// so per-diagram identifiers stay deterministic and collision-free.
type Pipeline struct {
	engine  VectorRenderer
	raster  Rasterizer
	timeout time.Duration
}

// NewPipeline creates a Pipeline over the given engine and rasterizer.
// A non-positive timeout falls back to DefaultTimeout.
func NewPipeline(engine VectorRenderer, raster Rasterizer, timeout time.Duration) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{engine: engine, raster: raster, timeout: timeout}
}

// Render resolves one diagram description to a bitmap. A nil result means
// the diagram could not be drawn; it is not an error surfaced to the
// caller, and there is no retry.
func (p *Pipeline) Render(ctx context.Context, description string, index int) *markup.ImageData {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	id := diagramID(index)
	svg, err := p.engine.RenderToVector(ctx, id, description)
	if err != nil {
		return nil
	}

	w, h := intrinsicSize(svg)
	w, h = fitSize(w, h)

	data, err := p.raster.Rasterize(ctx, svg, w, h)
	if err != nil {
		return nil
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	return &markup.ImageData{PNG: data, Width: cfg.Width, Height: cfg.Height}
}

// Close releases rasterizer resources.
func (p *Pipeline) Close() error {
	if p.raster != nil {
		return p.raster.Close()
	}
	return nil
}

// diagramID derives a unique per-call identifier from the diagram's
// document-order index and a monotonic timestamp, so ids never collide
// across repeated conversions.
func diagramID(index int) string {
	return fmt.Sprintf("diagram-%d-%d", index, time.Now().UnixNano())
}
