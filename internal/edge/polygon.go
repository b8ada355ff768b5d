package edge

import (
	"image"
	"math"
)

// Area returns the absolute shoelace area of a closed polygon.
func Area(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var s int64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		s += int64(p.X)*int64(q.Y) - int64(q.X)*int64(p.Y)
	}
	return math.Abs(float64(s)) / 2
}

// Perimeter returns the length of a closed polygon.
func Perimeter(pts []image.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var l float64
	for i, p := range pts {
		l += dist(p, pts[(i+1)%len(pts)])
	}
	return l
}

// ApproxClosed simplifies a closed polygon with the Douglas-Peucker
// algorithm so that no dropped point lies farther than epsilon from the
// result. The curve is first split at two mutually distant points, which
// for a page outline are opposite corners.
func ApproxClosed(pts []image.Point, epsilon float64) []image.Point {
	n := len(pts)
	if n < 3 {
		return append([]image.Point(nil), pts...)
	}

	a := farthestFrom(pts, pts[0])
	b := farthestFrom(pts, pts[a])
	if a == b {
		return []image.Point{pts[a]}
	}
	if a > b {
		a, b = b, a
	}

	// Two open chains a..b and b..a (wrapping), each keeping its end points.
	first := approxOpen(pts[a:b+1], epsilon)
	wrap := make([]image.Point, 0, n-b+a+1)
	wrap = append(wrap, pts[b:]...)
	wrap = append(wrap, pts[:a+1]...)
	second := approxOpen(wrap, epsilon)

	out := make([]image.Point, 0, len(first)+len(second))
	out = append(out, first[:len(first)-1]...)
	out = append(out, second[:len(second)-1]...)
	return out
}

// approxOpen runs Douglas-Peucker on an open chain without recursion.
func approxOpen(chain []image.Point, epsilon float64) []image.Point {
	n := len(chain)
	if n <= 2 {
		return append([]image.Point(nil), chain...)
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		best, bestDist := -1, epsilon
		for i := s.lo + 1; i < s.hi; i++ {
			if d := segmentDistance(chain[i], chain[s.lo], chain[s.hi]); d > bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			continue
		}
		keep[best] = true
		stack = append(stack, span{s.lo, best}, span{best, s.hi})
	}

	out := make([]image.Point, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, chain[i])
		}
	}
	return out
}

func farthestFrom(pts []image.Point, p image.Point) int {
	best, bestDist := 0, -1.0
	for i, q := range pts {
		if d := dist(p, q); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// segmentDistance returns the distance from p to segment ab.
func segmentDistance(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X-a.X), float64(p.Y-a.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px, py)
	}
	t := math.Max(0, math.Min(1, (px*dx+py*dy)/lenSq))
	return math.Hypot(px-t*dx, py-t*dy)
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
