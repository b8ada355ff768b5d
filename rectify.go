package docscan

import (
	"fmt"
	"math"

	"github.com/gogpu/docscan/internal/parallel"
)

// OutputSize returns the rectified page size for corners already in
// top-left, top-right, bottom-right, bottom-left order: the longer of the
// two horizontal edges by the longer of the two vertical edges, rounded
// to whole pixels.
func OutputSize(ordered Quad) (width, height int) {
	tl, tr, br, bl := ordered[0], ordered[1], ordered[2], ordered[3]
	w := math.Max(bl.Distance(br), tl.Distance(tr))
	h := math.Max(tl.Distance(bl), tr.Distance(br))
	return int(math.Round(w)), int(math.Round(h))
}

// Rectify warps the quadrilateral corners of img onto an axis-aligned
// rectangle sized by OutputSize. corners may be in any order.
//
// Each destination pixel center is mapped back through the homography and
// sampled bilinearly; samples outside img take the nearest edge pixel.
//
// Rectify fails with ErrInvalidInput for non-finite corners and with
// ErrDegenerateGeometry when the corners do not span a quadrilateral.
// Callers are expected to fall back to the unrectified image on the
// latter.
func Rectify(img *PixelBuffer, corners Quad) (*PixelBuffer, error) {
	for i, p := range corners {
		if !p.finite() {
			return nil, fmt.Errorf("%w: corner %d is not finite", ErrInvalidInput, i)
		}
	}

	ordered := OrderCorners(corners)
	w, h := OutputSize(ordered)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: output size %dx%d", ErrDegenerateGeometry, w, h)
	}

	// Solve destination -> source directly so the warp needs no inversion.
	fw, fh := float64(w), float64(h)
	dstRect := Quad{{0, 0}, {fw, 0}, {fw, fh}, {0, fh}}
	hm, err := SolveHomography(dstRect, ordered)
	if err != nil {
		return nil, fmt.Errorf("docscan: rectify: %w", err)
	}

	out := newBuffer(w, h)
	parallel.Rows(filterPool(), h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := out.pix[y*w*4 : (y+1)*w*4]
			for x := range w {
				sx, sy, ok := hm.Apply(float64(x)+0.5, float64(y)+0.5)
				if !ok {
					continue
				}
				sampleBilinear(img, sx-0.5, sy-0.5, row[x*4:x*4+4:x*4+4])
			}
		}
	})

	Logger().Debug("docscan: rectified",
		"src", fmt.Sprintf("%dx%d", img.width, img.height),
		"dst", fmt.Sprintf("%dx%d", w, h))
	return out, nil
}

// sampleBilinear interpolates img at continuous pixel-index coordinates
// (fx, fy) into dst[0:4]. Coordinates are clamped to the edge.
func sampleBilinear(img *PixelBuffer, fx, fy float64, dst []byte) {
	w, h := img.width, img.height

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clampInt(x0+1, 0, w-1)
	y1 := clampInt(y0+1, 0, h-1)
	x0 = clampInt(x0, 0, w-1)
	y0 = clampInt(y0, 0, h-1)

	i00 := (y0*w + x0) * 4
	i10 := (y0*w + x1) * 4
	i01 := (y1*w + x0) * 4
	i11 := (y1*w + x1) * 4

	for c := range 4 {
		top := float64(img.pix[i00+c])*(1-tx) + float64(img.pix[i10+c])*tx
		bottom := float64(img.pix[i01+c])*(1-tx) + float64(img.pix[i11+c])*tx
		dst[c] = byte(top*(1-ty) + bottom*ty + 0.5)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
