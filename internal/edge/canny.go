package edge

import "math"

// tan(22.5°) and tan(67.5°) bound the gradient direction sectors.
const (
	tan22 = 0.41421356237309503
	tan67 = 2.414213562373095
)

// Sobel returns the horizontal and vertical 3x3 Sobel responses of a
// w x h plane. Samples outside the plane replicate the nearest edge pixel.
func Sobel(plane []float32, w, h int) (gx, gy []float32) {
	gx = make([]float32, w*h)
	gy = make([]float32, w*h)

	at := func(x, y int) float32 {
		x = clamp(x, 0, w-1)
		y = clamp(y, 0, h-1)
		return plane[y*w+x]
	}

	for y := range h {
		for x := range w {
			tl, t, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			l, r := at(x-1, y), at(x+1, y)
			bl, b, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			gx[y*w+x] = (tr + 2*r + br) - (tl + 2*l + bl)
			gy[y*w+x] = (bl + 2*b + br) - (tl + 2*t + tr)
		}
	}
	return gx, gy
}

// Canny returns a w x h edge mask (1 = edge) computed from the plane with
// L1 gradient magnitude, non-maximum suppression and hysteresis between
// low and high. Pixels above high seed edges; pixels above low extend
// them through 8-connectivity.
func Canny(plane []float32, w, h int, low, high float64) []uint8 {
	edges := make([]uint8, w*h)
	if w < 3 || h < 3 {
		return edges
	}

	gx, gy := Sobel(plane, w, h)
	mag := make([]float32, w*h)
	for i := range mag {
		mag[i] = abs32(gx[i]) + abs32(gy[i])
	}

	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, w*h)
	stack := make([]int, 0, 1024)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if float64(m) <= low {
				continue
			}
			if !isLocalMax(mag, gx[i], gy[i], i, w) {
				continue
			}
			if float64(m) > high {
				class[i] = strong
				stack = append(stack, i)
			} else {
				class[i] = weak
			}
		}
	}

	// Hysteresis: grow strong seeds through connected weak pixels.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if edges[i] == 1 {
			continue
		}
		edges[i] = 1

		x, y := i%w, i/w
		for _, d := range neighbours {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if edges[j] == 0 && class[j] != none {
				stack = append(stack, j)
			}
		}
	}

	return edges
}

// isLocalMax reports whether mag[i] survives non-maximum suppression along
// the quantized gradient direction. Ties keep the first pixel of a plateau
// so a symmetric step yields a one-pixel line.
func isLocalMax(mag []float32, gx, gy float32, i, w int) bool {
	m := mag[i]
	ax, ay := math.Abs(float64(gx)), math.Abs(float64(gy))

	var prev, next float32
	switch {
	case ay <= ax*tan22:
		// Horizontal gradient: compare left and right.
		prev, next = mag[i-1], mag[i+1]
	case ay >= ax*tan67:
		// Vertical gradient: compare above and below.
		prev, next = mag[i-w], mag[i+w]
	case (gx > 0) == (gy > 0):
		// Gradient along the main diagonal.
		prev, next = mag[i-w-1], mag[i+w+1]
	default:
		prev, next = mag[i-w+1], mag[i+w-1]
	}
	return m > prev && m >= next
}

// Dilate grows a binary mask by one pixel in all eight directions.
func Dilate(mask []uint8, w, h int) []uint8 {
	out := make([]uint8, len(mask))
	for y := range h {
		for x := range w {
			if mask[y*w+x] == 0 {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && ny >= 0 && nx < w && ny < h {
						out[ny*w+nx] = 1
					}
				}
			}
		}
	}
	return out
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
