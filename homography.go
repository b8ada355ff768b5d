package docscan

import "math"

// Homography is a 3x3 projective transform in row-major order with the
// bottom-right element normalized to 1.
type Homography [9]float64

// degenerateTolerance bounds pivots and projective denominators treated
// as zero.
const degenerateTolerance = 1e-10

// SolveHomography returns the transform mapping src[i] to dst[i] for the
// four correspondences. It fails with ErrDegenerateGeometry when three of
// the points are collinear or the system is singular.
func SolveHomography(src, dst Quad) (Homography, error) {
	if collinearTriple(src) || collinearTriple(dst) {
		return Homography{}, ErrDegenerateGeometry
	}

	// Each correspondence (x, y) -> (u, v) contributes two rows of the
	// 8x8 system A*h = b with h = [h0..h7] and h8 = 1.
	var a [8][9]float64
	for i := range 4 {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}

	sol, ok := solveLinear8(a)
	if !ok {
		return Homography{}, ErrDegenerateGeometry
	}

	var h Homography
	copy(h[:8], sol[:])
	h[8] = 1
	for _, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Homography{}, ErrDegenerateGeometry
		}
	}
	return h, nil
}

// Apply maps (x, y) through the transform. ok is false when the point maps
// to infinity.
func (h Homography) Apply(x, y float64) (u, v float64, ok bool) {
	w := h[6]*x + h[7]*y + h[8]
	if math.Abs(w) < degenerateTolerance {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w, true
}

// solveLinear8 solves an augmented 8x9 system by Gaussian elimination with
// partial pivoting.
func solveLinear8(a [8][9]float64) ([8]float64, bool) {
	var x [8]float64

	for col := range 8 {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < degenerateTolerance {
			return x, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < 8; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < 9; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	for r := 7; r >= 0; r-- {
		s := a[r][8]
		for c := r + 1; c < 8; c++ {
			s -= a[r][c] * x[c]
		}
		x[r] = s / a[r][r]
	}
	return x, true
}

// collinearTriple reports whether any three corners lie on one line,
// relative to the quad's scale.
func collinearTriple(q Quad) bool {
	scale := 0.0
	for i := range q {
		for j := i + 1; j < 4; j++ {
			scale = math.Max(scale, q[i].Distance(q[j]))
		}
	}
	if scale == 0 {
		return true
	}

	eps := 1e-9 * scale * scale
	for i := range 4 {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		if math.Abs(b.Sub(a).Cross(c.Sub(a))) <= eps {
			return true
		}
	}
	return false
}
