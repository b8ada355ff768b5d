package docscan

import (
	"bytes"
	"image"
	"image/draw"
)

// PixelBuffer is the canonical in-memory image: width*height pixels stored
// row-major as non-premultiplied R, G, B, A bytes with no row padding.
//
// A PixelBuffer is never modified after it is handed out. Every transform
// allocates a new buffer, so repeated filtering always starts from the same
// original and rounding error cannot accumulate.
type PixelBuffer struct {
	width  int
	height int
	pix    []byte
}

// NewPixelBuffer allocates a transparent black buffer of the given size.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return newBuffer(width, height), nil
}

// FromPixels creates a buffer from a copy of pix, which must hold exactly
// width*height*4 bytes.
func FromPixels(width, height int, pix []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, ErrInvalidDimensions
	}
	b := newBuffer(width, height)
	copy(b.pix, pix)
	return b, nil
}

// FromImage converts any image.Image to a PixelBuffer.
// Returns ErrInvalidDimensions for an empty image.
func FromImage(img image.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}

	b := newBuffer(w, h)

	// Fast path for NRGBA images
	if src, ok := img.(*image.NRGBA); ok {
		for y := range h {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(b.pix[y*w*4:(y+1)*w*4], src.Pix[start:start+w*4])
		}
		return b, nil
	}

	// Generic path: let image/draw convert from any color model.
	dst := &image.NRGBA{Pix: b.pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return b, nil
}

func newBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}
}

// Width returns the image width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Bounds returns the image dimensions as (width, height).
func (b *PixelBuffer) Bounds() (int, int) { return b.width, b.height }

// Pix returns the raw pixel bytes. The slice must be treated as read-only.
func (b *PixelBuffer) Pix() []byte { return b.pix }

// RGBA returns the channels of pixel (x, y). Coordinates are not checked.
func (b *PixelBuffer) RGBA(x, y int) (r, g, bl, a byte) {
	i := (y*b.width + x) * 4
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	c := newBuffer(b.width, b.height)
	copy(c.pix, b.pix)
	return c
}

// Equal reports whether two buffers have the same size and identical bytes.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.width == o.width && b.height == o.height && bytes.Equal(b.pix, o.pix)
}

// MaxDimension returns the larger of width and height.
func (b *PixelBuffer) MaxDimension() int {
	return max(b.width, b.height)
}

// Image returns a copy of the buffer as an *image.NRGBA for encoders.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}

// gray returns the integer (R+G+B)/3 plane, one value per pixel.
func (b *PixelBuffer) gray() []uint8 {
	out := make([]uint8, b.width*b.height)
	for i := range out {
		j := i * 4
		out[i] = uint8((int(b.pix[j]) + int(b.pix[j+1]) + int(b.pix[j+2])) / 3)
	}
	return out
}

// luma returns the Rec. 601 luminance plane rounded to integers.
func (b *PixelBuffer) luma() []float32 {
	out := make([]float32, b.width*b.height)
	for i := range out {
		j := i * 4
		v := 0.299*float64(b.pix[j]) + 0.587*float64(b.pix[j+1]) + 0.114*float64(b.pix[j+2])
		out[i] = float32(int(v + 0.5))
	}
	return out
}
