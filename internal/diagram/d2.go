package diagram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/lib/textmeasure"
	"oss.terrastruct.com/util-go/go2"
)

// ErrDiagramCompile marks a diagram description the engine rejected.
var ErrDiagramCompile = errors.New("diagram compilation failed")

const diagramPadding = int64(16)

// D2Renderer compiles d2 diagram descriptions to SVG. The text ruler is
// expensive to build, so it is initialized lazily exactly once and reused
// across conversions.
type D2Renderer struct {
	themeID int64

	mu       sync.Mutex
	ruler    *textmeasure.Ruler
	rulerErr error
}

// NewD2Renderer creates a D2Renderer using the given theme.
func NewD2Renderer(themeID int64) *D2Renderer {
	return &D2Renderer{themeID: themeID}
}

// ensureRuler initializes the shared text ruler on first use.
func (r *D2Renderer) ensureRuler() (*textmeasure.Ruler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ruler == nil && r.rulerErr == nil {
		r.ruler, r.rulerErr = textmeasure.NewRuler()
	}
	return r.ruler, r.rulerErr
}

// RenderToVector compiles one diagram description to SVG markup. The id
// only labels errors; d2 itself needs no per-render key.
func (r *D2Renderer) RenderToVector(ctx context.Context, id, description string) (string, error) {
	ruler, err := r.ensureRuler()
	if err != nil {
		return "", fmt.Errorf("%w: %s: initializing ruler: %v", ErrDiagramCompile, id, err)
	}

	layoutResolver := func(engine string) (d2graph.LayoutGraph, error) {
		return d2dagrelayout.DefaultLayout, nil
	}
	renderOpts := &d2svg.RenderOpts{
		Pad:     go2.Pointer(diagramPadding),
		ThemeID: go2.Pointer(r.themeID),
	}
	compileOpts := &d2lib.CompileOptions{
		LayoutResolver: layoutResolver,
		Ruler:          ruler,
	}

	dgrm, _, err := d2lib.Compile(ctx, description, compileOpts, renderOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDiagramCompile, id, err)
	}

	out, err := d2svg.Render(dgrm, renderOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: rendering svg: %v", ErrDiagramCompile, id, err)
	}
	return string(out), nil
}
