package filter

// BlurPlane applies a separable convolution with the given 1D kernel to a
// single-channel w x h plane and returns a new plane.
//
// The two passes process rows and then columns independently, achieving
// O(w*h*len(kernel)) instead of O(w*h*len(kernel)²). Samples outside the
// plane are taken from the nearest edge pixel.
func BlurPlane(src []float32, w, h int, kernel []float32) []float32 {
	out := make([]float32, len(src))
	if len(kernel) <= 1 {
		copy(out, src)
		return out
	}

	temp := make([]float32, len(src))
	blurHorizontal(src, temp, w, h, kernel)
	blurVertical(temp, out, w, h, kernel)
	return out
}

// blurHorizontal applies 1D horizontal convolution from src to dst.
func blurHorizontal(src, dst []float32, w, h int, kernel []float32) {
	half := len(kernel) / 2

	for y := range h {
		row := src[y*w : (y+1)*w]
		for x := range w {
			var sum float32
			for k, weight := range kernel {
				kx := clampInt(x+k-half, 0, w-1)
				sum += row[kx] * weight
			}
			dst[y*w+x] = sum
		}
	}
}

// blurVertical applies 1D vertical convolution from src to dst.
func blurVertical(src, dst []float32, w, h int, kernel []float32) {
	half := len(kernel) / 2

	for y := range h {
		for x := range w {
			var sum float32
			for k, weight := range kernel {
				ky := clampInt(y+k-half, 0, h-1)
				sum += src[ky*w+x] * weight
			}
			dst[y*w+x] = sum
		}
	}
}

// clampInt clamps an integer to [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
