package docscan

import (
	"fmt"
	"math"
	"sort"
)

// Point represents a 2D point in the pixel coordinate space of one
// specific buffer. Points are never shared across buffers of different
// scale without an explicit Scale.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Quad holds the four corners of a document. The points may arrive in any
// order; OrderCorners canonicalizes them.
type Quad [4]Point

// QuadFromPoints builds a Quad from a slice that must hold exactly four
// finite points.
func QuadFromPoints(pts []Point) (Quad, error) {
	var q Quad
	if len(pts) != 4 {
		return q, fmt.Errorf("%w: quad needs 4 points, got %d", ErrInvalidInput, len(pts))
	}
	for i, p := range pts {
		if !p.finite() {
			return q, fmt.Errorf("%w: point %d is not finite", ErrInvalidInput, i)
		}
		q[i] = p
	}
	return q, nil
}

// FullFrame returns the corners of a width x height image, the fallback
// used when detection finds no document.
func FullFrame(width, height int) Quad {
	w, h := float64(width), float64(height)
	return Quad{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// Scale returns the quad with every coordinate multiplied by (sx, sy).
func (q Quad) Scale(sx, sy float64) Quad {
	var out Quad
	for i, p := range q {
		out[i] = Point{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}

// Area returns the absolute shoelace area of the quad in its current order.
func (q Quad) Area() float64 {
	return math.Abs(q.signedArea())
}

// signedArea is positive when the corners run clockwise on screen (y down).
func (q Quad) signedArea() float64 {
	var s float64
	for i := range q {
		j := (i + 1) % 4
		s += q[i].Cross(q[j])
	}
	return s / 2
}

// OrderCorners returns the corners as top-left, top-right, bottom-right,
// bottom-left: the two points with the smallest y form the top pair, the
// other two the bottom pair, and each pair is ordered by ascending x.
//
// Ties are broken by x so every permutation of the same four points
// yields the same result.
func OrderCorners(q Quad) Quad {
	pts := q
	sort.Slice(pts[:], func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})

	top := [2]Point{pts[0], pts[1]}
	bottom := [2]Point{pts[2], pts[3]}
	if top[0].X > top[1].X {
		top[0], top[1] = top[1], top[0]
	}
	if bottom[0].X > bottom[1].X {
		bottom[0], bottom[1] = bottom[1], bottom[0]
	}
	return Quad{top[0], top[1], bottom[1], bottom[0]}
}
