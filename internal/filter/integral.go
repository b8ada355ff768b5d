package filter

// Integral is a summed-area table over a single-channel 8-bit plane.
// Any axis-aligned rectangle sum is answered in O(1).
type Integral struct {
	w, h int
	// sums has (w+1)*(h+1) entries; sums[(y)*(w+1)+x] is the sum of all
	// pixels strictly above and to the left of (x, y).
	sums []int64
}

// NewIntegral builds the summed-area table for a w x h plane.
func NewIntegral(plane []uint8, w, h int) *Integral {
	stride := w + 1
	sums := make([]int64, stride*(h+1))

	for y := range h {
		var rowSum int64
		for x := range w {
			rowSum += int64(plane[y*w+x])
			sums[(y+1)*stride+x+1] = sums[y*stride+x+1] + rowSum
		}
	}

	return &Integral{w: w, h: h, sums: sums}
}

// Sum returns the sum over the half-open rectangle [x0, x1) x [y0, y1),
// clipped to the plane, together with the number of in-bounds samples.
func (it *Integral) Sum(x0, y0, x1, y1 int) (sum int64, count int) {
	x0 = clampInt(x0, 0, it.w)
	x1 = clampInt(x1, 0, it.w)
	y0 = clampInt(y0, 0, it.h)
	y1 = clampInt(y1, 0, it.h)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0
	}

	stride := it.w + 1
	sum = it.sums[y1*stride+x1] - it.sums[y0*stride+x1] - it.sums[y1*stride+x0] + it.sums[y0*stride+x0]
	return sum, (x1 - x0) * (y1 - y0)
}

// AdaptiveThresholdRows binarizes rows [y0, y1) of plane into out against
// the mean of a square window of side window centered on each pixel, using
// the prebuilt table it. The window is clipped at the borders and only
// in-bounds samples count toward the mean. A pixel becomes 0 when it is
// strictly below mean - c, otherwise 255.
//
// The comparison is done in integers (v*count < sum - c*count), so the
// result matches the naive per-window mean exactly. Disjoint row ranges may
// run concurrently.
func AdaptiveThresholdRows(plane, out []uint8, it *Integral, w, window, c, y0, y1 int) {
	before := window / 2
	after := window - before
	for y := y0; y < y1; y++ {
		for x := range w {
			sum, count := it.Sum(x-before, y-before, x+after, y+after)
			v := int64(plane[y*w+x])
			if v*int64(count) < sum-int64(c)*int64(count) {
				out[y*w+x] = 0
			} else {
				out[y*w+x] = 255
			}
		}
	}
}
