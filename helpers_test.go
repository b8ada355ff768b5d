package docscan

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

// solidBuffer returns a w x h opaque buffer filled with one color.
func solidBuffer(t *testing.T, w, h int, r, g, b byte) *PixelBuffer {
	t.Helper()
	buf, err := NewPixelBuffer(w, h)
	if err != nil {
		t.Fatalf("NewPixelBuffer(%d, %d) error = %v", w, h, err)
	}
	for i := 0; i < len(buf.pix); i += 4 {
		buf.pix[i], buf.pix[i+1], buf.pix[i+2], buf.pix[i+3] = r, g, b, 255
	}
	return buf
}

// patternBuffer returns a buffer whose every pixel is distinct enough to
// catch transposed or shifted output.
func patternBuffer(w, h int) *PixelBuffer {
	buf := newBuffer(w, h)
	for y := range h {
		for x := range w {
			i := (y*w + x) * 4
			buf.pix[i] = byte(x * 17)
			buf.pix[i+1] = byte(y * 29)
			buf.pix[i+2] = byte((x + y) * 7)
			buf.pix[i+3] = 255
		}
	}
	return buf
}

// documentImage draws a white page over a dark background. The page covers
// pixels [x0, x1) x [y0, y1).
func documentImage(w, h, x0, y0, x1, y1 int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bg := color.NRGBA{R: 40, G: 45, B: 50, A: 255}
	page := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := range h {
		for x := range w {
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				img.SetNRGBA(x, y, page)
			} else {
				img.SetNRGBA(x, y, bg)
			}
		}
	}
	return img
}

// encodePNG returns img as PNG bytes.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func pointNear(a, b Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}
