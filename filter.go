package docscan

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/docscan/internal/filter"
	"github.com/gogpu/docscan/internal/parallel"
)

// FilterKind selects one transform of the filter bank.
//
// Adding a filter means adding a constant here, its name in filterNames and
// a case in Apply. Nothing outside this file changes.
type FilterKind uint8

const (
	// FilterOriginal returns an unmodified copy.
	FilterOriginal FilterKind = iota

	// FilterGrayscale sets R=G=B=(R+G+B)/3.
	FilterGrayscale

	// FilterAdaptiveThreshold binarizes against a 15x15 local mean.
	FilterAdaptiveThreshold

	// FilterHighContrast is grayscale with a contrast gain and darkening bias.
	FilterHighContrast

	// FilterInvert inverts every color channel.
	FilterInvert

	// FilterSepia applies the classic sepia tone matrix.
	FilterSepia

	// FilterBrightness adds a fixed delta to every channel.
	FilterBrightness

	// FilterVibrant pushes channels away from their mean.
	FilterVibrant

	// FilterPrintBW is luminance grayscale with a print gamma curve.
	FilterPrintBW

	filterCount
)

// Filter bank constants.
const (
	thresholdWindow   = 15
	thresholdOffset   = 10
	contrastAmount    = 2.2
	contrastBias      = 20
	brightnessDelta   = 40
	vibranceFactor    = 1.5
	printGamma        = 1.4
	contrastMidpoint  = 128
	contrastNumerator = 259
)

var filterNames = [filterCount]string{
	FilterOriginal:          "original",
	FilterGrayscale:         "grayscale",
	FilterAdaptiveThreshold: "adaptive-threshold",
	FilterHighContrast:      "high-contrast",
	FilterInvert:            "invert",
	FilterSepia:             "sepia",
	FilterBrightness:        "brightness",
	FilterVibrant:           "vibrant",
	FilterPrintBW:           "print-bw",
}

// String returns the filter's stable name.
func (k FilterKind) String() string {
	if k < filterCount {
		return filterNames[k]
	}
	return fmt.Sprintf("FilterKind(%d)", uint8(k))
}

// IsValid reports whether k is one of the defined filters.
func (k FilterKind) IsValid() bool {
	return k < filterCount
}

// Filters returns every filter in declaration order.
func Filters() []FilterKind {
	out := make([]FilterKind, filterCount)
	for i := range out {
		out[i] = FilterKind(i)
	}
	return out
}

// ParseFilterKind looks up a filter by its String name, case-insensitively.
func ParseFilterKind(name string) (FilterKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range filterNames {
		if n == name {
			return FilterKind(i), nil
		}
	}
	return FilterOriginal, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, name)
}

var (
	printLUT    = filter.GammaLUT(printGamma)
	contrastLUT = buildContrastLUT()

	// filterPool is shared by every Apply call; it lives for the process.
	filterPool = sync.OnceValue(func() *parallel.WorkerPool {
		return parallel.NewWorkerPool(0)
	})
)

// buildContrastLUT tabulates the high-contrast curve over gray values.
func buildContrastLUT() filter.LUT {
	const c = contrastAmount
	factor := contrastNumerator * (c + 255) / (255 * (contrastNumerator - c))

	var lut filter.LUT
	for g := range lut {
		enhanced := factor*(float64(g)-contrastMidpoint) + contrastMidpoint - contrastBias
		lut[g] = filter.ClampByte(enhanced)
	}
	return lut
}

// Apply runs filter kind over original and returns a new buffer. The
// original is never modified, so switching filters repeatedly always
// starts from the same pixels. Alpha passes through unchanged.
//
// Apply never fails; an undefined kind behaves like FilterOriginal.
func Apply(original *PixelBuffer, kind FilterKind) *PixelBuffer {
	switch kind {
	case FilterOriginal:
		return original.Clone()
	case FilterAdaptiveThreshold:
		return adaptiveThreshold(original)
	case FilterGrayscale:
		return mapPixels(original, grayscalePixel)
	case FilterHighContrast:
		return mapPixels(original, highContrastPixel)
	case FilterInvert:
		return mapPixels(original, invertPixel)
	case FilterSepia:
		return mapPixels(original, sepiaPixel)
	case FilterBrightness:
		return mapPixels(original, brightnessPixel)
	case FilterVibrant:
		return mapPixels(original, vibrantPixel)
	case FilterPrintBW:
		return mapPixels(original, printPixel)
	}
	return original.Clone()
}

// pixelFunc transforms one RGB triple in place.
type pixelFunc func(p []byte)

// mapPixels applies fn to every pixel of a copy of src in parallel bands.
func mapPixels(src *PixelBuffer, fn pixelFunc) *PixelBuffer {
	dst := src.Clone()
	rowBytes := dst.width * 4
	parallel.Rows(filterPool(), dst.height, func(y0, y1 int) {
		band := dst.pix[y0*rowBytes : y1*rowBytes]
		for i := 0; i < len(band); i += 4 {
			fn(band[i : i+3 : i+3])
		}
	})
	return dst
}

func grayscalePixel(p []byte) {
	v := byte((int(p[0]) + int(p[1]) + int(p[2])) / 3)
	p[0], p[1], p[2] = v, v, v
}

func highContrastPixel(p []byte) {
	v := contrastLUT[(int(p[0])+int(p[1])+int(p[2]))/3]
	p[0], p[1], p[2] = v, v, v
}

func invertPixel(p []byte) {
	p[0], p[1], p[2] = 255-p[0], 255-p[1], 255-p[2]
}

func sepiaPixel(p []byte) {
	r, g, b := float64(p[0]), float64(p[1]), float64(p[2])
	p[0] = filter.ClampByte(0.393*r + 0.769*g + 0.189*b)
	p[1] = filter.ClampByte(0.349*r + 0.686*g + 0.168*b)
	p[2] = filter.ClampByte(0.272*r + 0.534*g + 0.131*b)
}

func brightnessPixel(p []byte) {
	for i := range 3 {
		p[i] = byte(min(int(p[i])+brightnessDelta, 255))
	}
}

func vibrantPixel(p []byte) {
	hi := max(p[0], p[1], p[2])
	lo := min(p[0], p[1], p[2])
	if hi == lo {
		return
	}
	avg := (float64(p[0]) + float64(p[1]) + float64(p[2])) / 3
	for i := range 3 {
		p[i] = filter.ClampByte(avg + (float64(p[i])-avg)*vibranceFactor)
	}
}

func printPixel(p []byte) {
	g := 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
	v := printLUT[filter.ClampByte(g)]
	p[0], p[1], p[2] = v, v, v
}

// adaptiveThreshold binarizes the grayscale plane against its local mean.
func adaptiveThreshold(src *PixelBuffer) *PixelBuffer {
	w, h := src.width, src.height
	gray := src.gray()
	integral := filter.NewIntegral(gray, w, h)
	bin := make([]uint8, len(gray))

	parallel.Rows(filterPool(), h, func(y0, y1 int) {
		filter.AdaptiveThresholdRows(gray, bin, integral, w, thresholdWindow, thresholdOffset, y0, y1)
	})

	dst := src.Clone()
	for i, v := range bin {
		dst.pix[i*4], dst.pix[i*4+1], dst.pix[i*4+2] = v, v, v
	}
	return dst
}
