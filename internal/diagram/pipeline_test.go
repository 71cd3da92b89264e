package diagram

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"
)

// fakeEngine returns fixed vector markup or an error.
type fakeEngine struct {
	svg   string
	err   error
	calls []string
}

func (f *fakeEngine) RenderToVector(_ context.Context, id, _ string) (string, error) {
	f.calls = append(f.calls, id)
	return f.svg, f.err
}

// fakeRasterizer returns fixed bytes or an error, recording requested sizes.
type fakeRasterizer struct {
	data   []byte
	err    error
	width  int
	height int
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _ string, w, h int) ([]byte, error) {
	f.width, f.height = w, h
	return f.data, f.err
}

func (f *fakeRasterizer) Close() error { return nil }

// validPNG encodes a real PNG of the given size.
func validPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestPipeline_Render(t *testing.T) {
	t.Parallel()

	svg := `<svg viewBox="0 0 800 600"></svg>`

	t.Run("successful render", func(t *testing.T) {
		t.Parallel()
		raster := &fakeRasterizer{data: validPNG(t, 800, 600)}
		p := NewPipeline(&fakeEngine{svg: svg}, raster, 0)

		img := p.Render(context.Background(), "a -> b", 0)
		if img == nil {
			t.Fatal("got nil bitmap, want image")
		}
		if img.Width != 800 || img.Height != 600 {
			t.Errorf("size = %dx%d, want 800x600", img.Width, img.Height)
		}
		if raster.width != 800 || raster.height != 600 {
			t.Errorf("rasterized at %dx%d, want 800x600", raster.width, raster.height)
		}
	})

	t.Run("small diagram rescaled before rasterizing", func(t *testing.T) {
		t.Parallel()
		raster := &fakeRasterizer{data: validPNG(t, 600, 400)}
		p := NewPipeline(&fakeEngine{svg: `<svg viewBox="0 0 300 200"></svg>`}, raster, 0)

		if img := p.Render(context.Background(), "x", 0); img == nil {
			t.Fatal("got nil bitmap, want image")
		}
		if raster.width != 600 || raster.height != 400 {
			t.Errorf("rasterized at %dx%d, want 600x400", raster.width, raster.height)
		}
	})

	t.Run("malformed description yields nil", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(&fakeEngine{err: errors.New("syntax error")}, &fakeRasterizer{}, 0)
		if img := p.Render(context.Background(), "not a diagram", 0); img != nil {
			t.Errorf("got %+v, want nil", img)
		}
	})

	t.Run("rasterizer failure yields nil", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(&fakeEngine{svg: svg}, &fakeRasterizer{err: errors.New("browser gone")}, 0)
		if img := p.Render(context.Background(), "x", 0); img != nil {
			t.Errorf("got %+v, want nil", img)
		}
	})

	t.Run("bad bitmap signature yields nil", func(t *testing.T) {
		t.Parallel()
		p := NewPipeline(&fakeEngine{svg: svg}, &fakeRasterizer{data: []byte("JFIF not a png")}, 0)
		if img := p.Render(context.Background(), "x", 0); img != nil {
			t.Errorf("got %+v, want nil", img)
		}
	})

	t.Run("truncated png yields nil", func(t *testing.T) {
		t.Parallel()
		data := validPNG(t, 10, 10)[:8]
		p := NewPipeline(&fakeEngine{svg: svg}, &fakeRasterizer{data: data}, 0)
		if img := p.Render(context.Background(), "x", 0); img != nil {
			t.Errorf("got %+v, want nil", img)
		}
	})
}

func TestPipeline_IDsAreUnique(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{svg: `<svg viewBox="0 0 800 600"></svg>`}
	p := NewPipeline(engine, &fakeRasterizer{err: errors.New("no raster needed")}, 0)

	for i := 0; i < 3; i++ {
		p.Render(context.Background(), "x", i)
	}
	// Same index rendered again in a later conversion.
	p.Render(context.Background(), "x", 0)

	seen := make(map[string]bool, len(engine.calls))
	for _, id := range engine.calls {
		if seen[id] {
			t.Errorf("duplicate diagram id %q", id)
		}
		seen[id] = true
		if !strings.HasPrefix(id, "diagram-") {
			t.Errorf("unexpected id format %q", id)
		}
	}
}

// slowEngine blocks until its context is done.
type slowEngine struct{}

func (slowEngine) RenderToVector(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestPipeline_TimeoutDegradesToNil(t *testing.T) {
	t.Parallel()

	p := NewPipeline(slowEngine{}, &fakeRasterizer{}, 10*time.Millisecond)

	start := time.Now()
	img := p.Render(context.Background(), "x", 0)
	if img != nil {
		t.Errorf("got %+v, want nil", img)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("render took %v, timeout not applied", elapsed)
	}
}
