package docscan

import (
	"errors"
	"math"
	"testing"
)

func TestSolveHomography(t *testing.T) {
	src := Quad{{0, 0}, {100, 0}, {100, 50}, {0, 50}}
	dst := Quad{{12, 20}, {210, 35}, {190, 160}, {5, 140}}

	h, err := SolveHomography(src, dst)
	if err != nil {
		t.Fatalf("SolveHomography() error = %v", err)
	}
	for i := range src {
		u, v, ok := h.Apply(src[i].X, src[i].Y)
		if !ok {
			t.Fatalf("Apply(%v) not ok", src[i])
		}
		if !pointNear(Pt(u, v), dst[i], 1e-6) {
			t.Errorf("Apply(%v) = (%v, %v), want %v", src[i], u, v, dst[i])
		}
	}
}

func TestSolveHomographyIdentity(t *testing.T) {
	q := FullFrame(640, 480)
	h, err := SolveHomography(q, q)
	if err != nil {
		t.Fatalf("SolveHomography() error = %v", err)
	}
	want := Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i := range h {
		if math.Abs(h[i]-want[i]) > 1e-9 {
			t.Errorf("h[%d] = %v, want %v", i, h[i], want[i])
		}
	}
}

func TestSolveHomographyDegenerate(t *testing.T) {
	rect := FullFrame(10, 10)
	tests := []struct {
		name string
		q    Quad
	}{
		{"three collinear", Quad{{0, 0}, {10, 0}, {20, 0}, {5, 5}}},
		{"all equal", Quad{{3, 3}, {3, 3}, {3, 3}, {3, 3}}},
		{"two equal", Quad{{0, 0}, {0, 0}, {10, 10}, {0, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SolveHomography(rect, tt.q); !errors.Is(err, ErrDegenerateGeometry) {
				t.Errorf("SolveHomography() error = %v, want ErrDegenerateGeometry", err)
			}
		})
	}
}

func TestOutputSize(t *testing.T) {
	tests := []struct {
		name  string
		q     Quad
		wantW int
		wantH int
	}{
		{"rectangle", Quad{{100, 100}, {900, 100}, {900, 1300}, {100, 1300}}, 800, 1200},
		{"longer bottom", Quad{{20, 0}, {80, 0}, {100, 50}, {0, 50}}, 100, 54},
		{"rounded", Quad{{0, 0}, {10.4, 0}, {10.4, 5.6}, {0, 5.6}}, 10, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := OutputSize(tt.q)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("OutputSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRectifyIdentity(t *testing.T) {
	img := patternBuffer(37, 23)
	out, err := Rectify(img, FullFrame(37, 23))
	if err != nil {
		t.Fatalf("Rectify() error = %v", err)
	}
	if !out.Equal(img) {
		t.Error("Rectify(full frame) != input")
	}
}

func TestRectifyDocumentScenario(t *testing.T) {
	src, err := FromImage(documentImage(1000, 1400, 100, 100, 900, 1300))
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	corners := Quad{{100, 100}, {900, 100}, {900, 1300}, {100, 1300}}

	out, err := Rectify(src, corners)
	if err != nil {
		t.Fatalf("Rectify() error = %v", err)
	}
	if out.Width() != 800 || out.Height() != 1200 {
		t.Fatalf("Rectify() size = %dx%d, want 800x1200", out.Width(), out.Height())
	}
	for i := 0; i < len(out.pix); i += 4 {
		if out.pix[i] != 255 || out.pix[i+1] != 255 || out.pix[i+2] != 255 {
			t.Fatalf("pixel (%d, %d) = %v, want white", (i/4)%800, (i/4)/800, out.pix[i:i+4])
		}
	}
}

func TestRectifyPermutationInvariant(t *testing.T) {
	img := patternBuffer(60, 40)
	corners := Quad{{5, 3}, {55, 8}, {50, 37}, {2, 33}}
	want, err := Rectify(img, corners)
	if err != nil {
		t.Fatalf("Rectify() error = %v", err)
	}
	for _, p := range permutations(corners) {
		got, err := Rectify(img, p)
		if err != nil {
			t.Fatalf("Rectify(%v) error = %v", p, err)
		}
		if !got.Equal(want) {
			t.Errorf("Rectify(%v) differs from canonical order", p)
		}
	}
}

func TestRectifyErrors(t *testing.T) {
	img := patternBuffer(10, 10)
	tests := []struct {
		name    string
		corners Quad
		want    error
	}{
		{"nan", Quad{{0, 0}, {math.NaN(), 0}, {10, 10}, {0, 10}}, ErrInvalidInput},
		{"inf", Quad{{0, 0}, {10, 0}, {10, math.Inf(-1)}, {0, 10}}, ErrInvalidInput},
		{"collinear", Quad{{0, 0}, {10, 0}, {20, 0}, {5, 5}}, ErrDegenerateGeometry},
		{"point", Quad{{4, 4}, {4, 4}, {4, 4}, {4, 4}}, ErrDegenerateGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Rectify(img, tt.corners); !errors.Is(err, tt.want) {
				t.Errorf("Rectify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRectifyClampsOutside(t *testing.T) {
	img := solidBuffer(t, 10, 10, 200, 100, 50)
	// Corners beyond the image sample the nearest edge pixel.
	out, err := Rectify(img, Quad{{-5, -5}, {15, -5}, {15, 15}, {-5, 15}})
	if err != nil {
		t.Fatalf("Rectify() error = %v", err)
	}
	if r, g, b, _ := out.RGBA(0, 0); r != 200 || g != 100 || b != 50 {
		t.Errorf("RGBA(0, 0) = %d,%d,%d, want 200,100,50", r, g, b)
	}
}
