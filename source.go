package docscan

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"
	"iter"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source supplies one page image to a session. Implementations decode
// lazily, so a multi-page import only holds one full-resolution source in
// memory at a time.
type Source interface {
	// Image returns the decoded page. Failures should wrap ErrDecodeFailure.
	Image() (image.Image, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (image.Image, error)

// Image calls f.
func (f SourceFunc) Image() (image.Image, error) { return f() }

// ImageSource wraps an already decoded image, such as a camera frame or a
// page pre-rendered by an external PDF renderer.
func ImageSource(img image.Image) Source {
	return SourceFunc(func() (image.Image, error) {
		if img == nil {
			return nil, fmt.Errorf("%w: nil image", ErrDecodeFailure)
		}
		return img, nil
	})
}

// BytesSource decodes encoded image bytes (JPEG, PNG, GIF, WebP, TIFF, BMP).
func BytesSource(data []byte) Source {
	return SourceFunc(func() (image.Image, error) {
		return Decode(bytes.NewReader(data))
	})
}

// FileSource decodes the image file at path when the page is loaded.
func FileSource(path string) Source {
	return SourceFunc(func() (image.Image, error) {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrDecodeFailure, path, err)
		}
		defer func() { _ = f.Close() }()
		return Decode(f)
	})
}

// Decode decodes an image from r, auto-detecting the format.
// Every failure wraps ErrDecodeFailure.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty %s image", ErrDecodeFailure, format)
	}
	return img, nil
}

// Sources turns a fixed list of sources into the page sequence Load
// consumes.
func Sources(srcs ...Source) iter.Seq[Source] {
	return func(yield func(Source) bool) {
		for _, s := range srcs {
			if !yield(s) {
				return
			}
		}
	}
}

// Files is a page sequence over image files, one page per path.
func Files(paths ...string) iter.Seq[Source] {
	return func(yield func(Source) bool) {
		for _, p := range paths {
			if !yield(FileSource(p)) {
				return
			}
		}
	}
}
