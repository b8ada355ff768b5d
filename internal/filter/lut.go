package filter

import "math"

// LUT maps an 8-bit input value to an 8-bit output value.
type LUT [256]uint8

// GammaLUT precomputes out = 255 * (in/255)^gamma, rounded to nearest.
// gamma > 1 darkens midtones; the end points 0 and 255 are fixed.
func GammaLUT(gamma float64) LUT {
	var lut LUT
	for i := range lut {
		v := 255 * math.Pow(float64(i)/255, gamma)
		lut[i] = ClampByte(v)
	}
	return lut
}

// ClampByte rounds v to the nearest integer and clamps it to [0, 255].
// NaN maps to 0.
func ClampByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
