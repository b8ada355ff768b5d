package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format is an on-disk page encoding.
type Format uint8

const (
	// FormatJPEG is baseline JPEG at the exporter's quality.
	FormatJPEG Format = iota
	// FormatPNG is lossless PNG.
	FormatPNG
	// FormatTIFF is Deflate-compressed TIFF.
	FormatTIFF
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 90

// ErrUnsupportedFormat is returned for an output extension with no encoder.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Ext returns the canonical file extension, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatTIFF:
		return ".tif"
	default:
		return ".jpg"
	}
}

func (f Format) String() string {
	return strings.TrimPrefix(f.Ext(), ".")
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Encode writes img to w in format f. quality only affects JPEG and is
// clamped to [1, 100]; 0 selects DefaultQuality.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	var err error
	switch f {
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)})
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("export: encode %s: %w", f, err)
	}
	return nil
}

func clampQuality(q int) int {
	if q == 0 {
		return DefaultQuality
	}
	return min(max(q, 1), 100)
}
