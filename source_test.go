package docscan

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBytesSource(t *testing.T) {
	data := encodePNG(t, patternBuffer(12, 8).Image())
	img, err := BytesSource(data).Image()
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Errorf("Bounds() = %v, want 12x8", b)
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"garbage", BytesSource([]byte("definitely not an image"))},
		{"empty", BytesSource(nil)},
		{"truncated png", BytesSource(encodePNG(t, patternBuffer(20, 20).Image())[:40])},
		{"missing file", FileSource(filepath.Join(t.TempDir(), "missing.png"))},
		{"nil image", ImageSource(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.src.Image(); !errors.Is(err, ErrDecodeFailure) {
				t.Errorf("Image() error = %v, want ErrDecodeFailure", err)
			}
		})
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, size := range []int{5, 7} {
		p := filepath.Join(dir, strings.Repeat("p", i+1)+".png")
		if err := os.WriteFile(p, encodePNG(t, patternBuffer(size, size).Image()), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		paths = append(paths, p)
	}

	var sizes []int
	for src := range Files(paths...) {
		img, err := src.Image()
		if err != nil {
			t.Fatalf("Image() error = %v", err)
		}
		sizes = append(sizes, img.Bounds().Dx())
	}
	if len(sizes) != 2 || sizes[0] != 5 || sizes[1] != 7 {
		t.Errorf("Files() decoded sizes %v, want [5 7]", sizes)
	}
}

func TestSourcesStopsEarly(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	n := 0
	for range Sources(ImageSource(img), ImageSource(img), ImageSource(img)) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d sources, want 2", n)
	}
}
