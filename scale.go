package docscan

import (
	"image"

	"golang.org/x/image/draw"
)

// Default size bounds of the two per-page variants.
const (
	DefaultPreviewMaxDimension = 1000
	DefaultExportMaxDimension  = 2500
)

// fitWithin returns the largest size with the aspect ratio of w x h whose
// longer side does not exceed maxDim. Images already inside the bound keep
// their size; maxDim <= 0 means unbounded.
func fitWithin(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || max(w, h) <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, (h*maxDim+w/2)/w)
	}
	return max(1, (w*maxDim+h/2)/h), maxDim
}

// downscale resamples src so its longer side is at most maxDim, never
// enlarging it. The result is always a new buffer.
func downscale(src image.Image, maxDim int, interp draw.Interpolator) (*PixelBuffer, error) {
	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return FromImage(src)
	}
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}

	out := newBuffer(w, h)
	dst := &image.NRGBA{Pix: out.pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	interp.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return out, nil
}

// Preview returns a copy of src bounded to maxDim with bilinear sampling,
// suited for interactive display.
func Preview(src image.Image, maxDim int) (*PixelBuffer, error) {
	return downscale(src, maxDim, draw.ApproxBiLinear)
}

// ExportCopy returns a copy of src bounded to maxDim with Catmull-Rom
// sampling, suited for final output.
func ExportCopy(src image.Image, maxDim int) (*PixelBuffer, error) {
	return downscale(src, maxDim, draw.CatmullRom)
}

// Rotate90 returns b rotated 90 degrees clockwise.
func Rotate90(b *PixelBuffer) *PixelBuffer {
	w, h := b.width, b.height
	out := newBuffer(h, w)
	for y := range h {
		for x := range w {
			// (x, y) lands at (h-1-y, x) in the h-wide output.
			si := (y*w + x) * 4
			di := (x*h + (h - 1 - y)) * 4
			copy(out.pix[di:di+4], b.pix[si:si+4])
		}
	}
	return out
}

// rotateQuad90 maps corners of a w x h image through Rotate90.
func rotateQuad90(q Quad, h int) Quad {
	var out Quad
	for i, p := range q {
		out[i] = Point{X: float64(h) - p.Y, Y: p.X}
	}
	return out
}
