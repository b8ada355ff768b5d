package filter

import (
	"math/rand"
	"testing"
)

func randomPlane(w, h int, seed int64) []uint8 {
	rng := rand.New(rand.NewSource(seed))
	p := make([]uint8, w*h)
	for i := range p {
		p[i] = uint8(rng.Intn(256))
	}
	return p
}

// threshold runs AdaptiveThresholdRows over the plane in two bands, the way
// the parallel caller splits it.
func threshold(plane []uint8, w, h, window, c int) []uint8 {
	out := make([]uint8, len(plane))
	it := NewIntegral(plane, w, h)
	mid := h / 2
	AdaptiveThresholdRows(plane, out, it, w, window, c, mid, h)
	AdaptiveThresholdRows(plane, out, it, w, window, c, 0, mid)
	return out
}

// naiveThreshold is the O(w*h*window²) definition the summed-area version
// must reproduce exactly.
func naiveThreshold(plane []uint8, w, h, window, c int) []uint8 {
	out := make([]uint8, len(plane))
	before := window / 2
	for y := range h {
		for x := range w {
			sum, count := 0, 0
			for yy := y - before; yy < y-before+window; yy++ {
				for xx := x - before; xx < x-before+window; xx++ {
					if xx < 0 || yy < 0 || xx >= w || yy >= h {
						continue
					}
					sum += int(plane[yy*w+xx])
					count++
				}
			}
			mean := float64(sum) / float64(count)
			if float64(plane[y*w+x]) < mean-float64(c) {
				out[y*w+x] = 0
			} else {
				out[y*w+x] = 255
			}
		}
	}
	return out
}

func TestIntegralSum(t *testing.T) {
	plane := []uint8{
		1, 2, 3,
		4, 5, 6,
	}
	it := NewIntegral(plane, 3, 2)

	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		wantSum        int64
		wantCount      int
	}{
		{"whole plane", 0, 0, 3, 2, 21, 6},
		{"single pixel", 1, 1, 2, 2, 5, 1},
		{"right column", 2, 0, 3, 2, 9, 2},
		{"clipped window", -5, -5, 2, 1, 3, 2},
		{"empty", 2, 2, 2, 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, count := it.Sum(tt.x0, tt.y0, tt.x1, tt.y1)
			if sum != tt.wantSum || count != tt.wantCount {
				t.Errorf("Sum() = (%d, %d), want (%d, %d)", sum, count, tt.wantSum, tt.wantCount)
			}
		})
	}
}

func TestAdaptiveThresholdMatchesNaive(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"larger than window", 40, 31},
		{"smaller than window", 9, 6},
		{"single row", 25, 1},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane := randomPlane(tt.w, tt.h, int64(i+1))
			got := threshold(plane, tt.w, tt.h, 15, 10)
			want := naiveThreshold(plane, tt.w, tt.h, 15, 10)
			for j := range want {
				if got[j] != want[j] {
					t.Fatalf("pixel (%d, %d) = %d, want %d", j%tt.w, j/tt.w, got[j], want[j])
				}
			}
		})
	}
}

func TestAdaptiveThresholdUniformIsWhite(t *testing.T) {
	plane := make([]uint8, 20*20)
	for i := range plane {
		plane[i] = 40
	}
	for i, v := range threshold(plane, 20, 20, 15, 10) {
		if v != 255 {
			t.Fatalf("out[%d] = %d, want 255", i, v)
		}
	}
}

func TestAdaptiveThresholdDarkStrokeIsBlack(t *testing.T) {
	w, h := 30, 30
	plane := make([]uint8, w*h)
	for i := range plane {
		plane[i] = 220
	}
	for y := range h {
		plane[y*w+15] = 20
	}

	out := threshold(plane, w, h, 15, 10)
	if out[10*w+15] != 0 {
		t.Errorf("stroke pixel = %d, want 0", out[10*w+15])
	}
	if out[10*w+5] != 255 {
		t.Errorf("paper pixel = %d, want 255", out[10*w+5])
	}
}
