package diagram

import (
	"math"
	"regexp"
	"strconv"
)

// Size bounds for rasterized diagrams, in pixels.
const (
	fallbackWidth  = 800
	fallbackHeight = 600
	minWidth       = 400
	minHeight      = 300
	maxWidth       = 1200
	maxHeight      = 1000
)

// Precompiled patterns for reading the vector markup's declared size.
var (
	viewBoxPattern = regexp.MustCompile(`viewBox="[\d.+-]+ [\d.+-]+ ([\d.]+) ([\d.]+)"`)
	widthPattern   = regexp.MustCompile(`<svg[^>]*\swidth="([\d.]+)(?:px)?"`)
	heightPattern  = regexp.MustCompile(`<svg[^>]*\sheight="([\d.]+)(?:px)?"`)
)

// intrinsicSize reads the width and height declared by the vector markup's
// view box, falling back to explicit width/height attributes, then to
// 800x600 when neither is present or parseable.
func intrinsicSize(svg string) (int, int) {
	if m := viewBoxPattern.FindStringSubmatch(svg); m != nil {
		w, errW := strconv.ParseFloat(m[1], 64)
		h, errH := strconv.ParseFloat(m[2], 64)
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return int(math.Round(w)), int(math.Round(h))
		}
	}
	wm := widthPattern.FindStringSubmatch(svg)
	hm := heightPattern.FindStringSubmatch(svg)
	if wm != nil && hm != nil {
		w, errW := strconv.ParseFloat(wm[1], 64)
		h, errH := strconv.ParseFloat(hm[1], 64)
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return int(math.Round(w)), int(math.Round(h))
		}
	}
	return fallbackWidth, fallbackHeight
}

// fitSize applies the two rescale passes, preserving aspect ratio:
// sizes below 400x300 scale up uniformly by at least 2x (more if needed
// to clear both minimums), then sizes exceeding 1200x1000 scale down
// uniformly to fit. Already-compliant sizes pass through unchanged, so
// reapplying fitSize is a no-op.
func fitSize(w, h int) (int, int) {
	fw, fh := float64(w), float64(h)
	if fw <= 0 || fh <= 0 {
		fw, fh = fallbackWidth, fallbackHeight
	}

	if fw < minWidth || fh < minHeight {
		scale := 2.0
		if s := minWidth / fw; s > scale {
			scale = s
		}
		if s := minHeight / fh; s > scale {
			scale = s
		}
		fw *= scale
		fh *= scale
	}

	if fw > maxWidth || fh > maxHeight {
		scale := math.Min(maxWidth/fw, maxHeight/fh)
		fw *= scale
		fh *= scale
	}

	return int(math.Round(fw)), int(math.Round(fh))
}
