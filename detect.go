package docscan

import (
	"image"
	"math"

	"github.com/gogpu/docscan/internal/edge"
	"github.com/gogpu/docscan/internal/filter"
)

// Detector proposes the four corners of the document page in an image.
//
// The pipeline is: luminance -> Gaussian blur -> Canny -> contour
// extraction -> largest enclosed area -> polygon approximation. Only an
// approximation with exactly four vertices is accepted.
type Detector struct {
	// BlurSize is the side of the square Gaussian kernel.
	BlurSize int

	// LowThreshold and HighThreshold are the Canny hysteresis bounds on the
	// L1 Sobel gradient magnitude.
	LowThreshold  float64
	HighThreshold float64

	// Epsilon is the approximation tolerance as a fraction of the contour
	// perimeter.
	Epsilon float64

	// Dilate closes one-pixel gaps in the edge map before tracing. The
	// detected corners are pulled back in by the dilation radius.
	Dilate bool

	// MinAreaFraction rejects contours enclosing less than this fraction of
	// the image area. Zero accepts any size.
	MinAreaFraction float64
}

// DefaultDetector returns a Detector with the standard document settings:
// 5x5 blur, Canny 75/200 and a tolerance of 2% of the perimeter.
func DefaultDetector() Detector {
	return Detector{
		BlurSize:      5,
		LowThreshold:  75,
		HighThreshold: 200,
		Epsilon:       0.02,
		Dilate:        true,
	}
}

// Detect returns the page corners in img's coordinates, ordered top-left,
// top-right, bottom-right, bottom-left. The boolean is false when no
// four-vertex outline is found; that is a normal outcome and callers
// supply their own fallback such as FullFrame.
func (d Detector) Detect(img *PixelBuffer) (Quad, bool) {
	log := Logger()
	w, h := img.Bounds()
	if w < 3 || h < 3 {
		return Quad{}, false
	}

	plane := filter.BlurPlane(img.luma(), w, h, filter.CachedSizedKernel(d.BlurSize))
	edges := edge.Canny(plane, w, h, d.LowThreshold, d.HighThreshold)
	if d.Dilate {
		edges = edge.Dilate(edges, w, h)
	}

	contours := edge.Contours(edges, w, h)
	if len(contours) == 0 {
		log.Debug("docscan: detect found no edges", "width", w, "height", h)
		return Quad{}, false
	}

	var best []image.Point
	bestArea := 0.0
	for _, c := range contours {
		if a := edge.Area(c); a > bestArea {
			best, bestArea = c, a
		}
	}
	if best == nil || bestArea < d.MinAreaFraction*float64(w*h) {
		log.Debug("docscan: detect found no enclosing contour", "contours", len(contours), "area", bestArea)
		return Quad{}, false
	}

	approx := edge.ApproxClosed(best, d.Epsilon*edge.Perimeter(best))
	log.Debug("docscan: detect",
		"contours", len(contours),
		"area", bestArea,
		"vertices", len(approx))
	if len(approx) != 4 {
		return Quad{}, false
	}

	var q Quad
	for i, p := range approx {
		q[i] = Pt(float64(p.X)+0.5, float64(p.Y)+0.5)
	}
	// The edge pixel of a step lies on either side of the boundary, and
	// dilation adds its radius outside that. Insetting by both keeps the
	// quad on or just inside the page.
	inset := 0.5
	if d.Dilate {
		inset++
	}
	return insetQuad(OrderCorners(q), inset), true
}

// insetQuad moves every edge of q inward by dist along its normal. q is
// returned unchanged when the result would be degenerate or turned inside
// out.
func insetQuad(q Quad, dist float64) Quad {
	orient := q.signedArea()
	if orient == 0 {
		return q
	}

	var normals [4]Point
	for i := range q {
		e := q[(i+1)%4].Sub(q[i])
		n := math.Hypot(e.X, e.Y)
		if n == 0 {
			return q
		}
		// (-e.Y, e.X) points inward when the shoelace sum is positive.
		normals[i] = Pt(-e.Y/n, e.X/n)
		if orient < 0 {
			normals[i] = Pt(-normals[i].X, -normals[i].Y)
		}
	}

	var out Quad
	for i := range q {
		prev := (i + 3) % 4
		a := Pt(q[prev].X+dist*normals[prev].X, q[prev].Y+dist*normals[prev].Y)
		da := q[i].Sub(q[prev])
		b := Pt(q[i].X+dist*normals[i].X, q[i].Y+dist*normals[i].Y)
		db := q[(i+1)%4].Sub(q[i])

		den := da.Cross(db)
		if math.Abs(den) < 1e-9 {
			return q
		}
		t := b.Sub(a).Cross(db) / den
		out[i] = Pt(a.X+t*da.X, a.Y+t*da.Y)
		if !out[i].finite() {
			return q
		}
	}

	for i := range out {
		j := (i + 1) % 4
		e, f := q[j].Sub(q[i]), out[j].Sub(out[i])
		if e.X*f.X+e.Y*f.Y <= 0 {
			return q
		}
	}
	if out.Area() >= q.Area() {
		return q
	}
	return out
}

// Detect runs DefaultDetector on img.
func Detect(img *PixelBuffer) (Quad, bool) {
	return DefaultDetector().Detect(img)
}
