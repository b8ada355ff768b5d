package filter

import (
	"math"
	"sync"
)

// SigmaForSize returns the standard deviation OpenCV derives for a kernel
// of the given odd size when no sigma is supplied:
// 0.3*((size-1)*0.5 - 1) + 0.8.
func SigmaForSize(size int) float64 {
	return 0.3*(float64(size-1)*0.5-1) + 0.8
}

// SizedGaussianKernel generates a normalized Gaussian kernel with exactly
// size taps and the conventional sigma for that size. Even sizes are
// rounded up to the next odd size; size < 3 yields the identity kernel.
func SizedGaussianKernel(size int) []float32 {
	if size < 3 {
		return []float32{1.0}
	}
	if size%2 == 0 {
		size++
	}
	return gaussian(size, SigmaForSize(size))
}

func gaussian(size int, sigma float64) []float32 {
	kernel := make([]float32, size)
	half := size / 2

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels on normalization.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := range size {
		x := float64(i - half)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}

	return kernel
}

// kernelCache caches computed sized kernels; the detector asks for the same
// size on every frame.
type kernelCache struct {
	mu    sync.RWMutex
	cache map[int][]float32
}

var defaultKernelCache = &kernelCache{cache: make(map[int][]float32)}

func (c *kernelCache) get(size int) []float32 {
	c.mu.RLock()
	if kernel, ok := c.cache[size]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := SizedGaussianKernel(size)

	c.mu.Lock()
	c.cache[size] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedSizedKernel returns a cached SizedGaussianKernel. The returned
// slice is shared and must not be modified.
func CachedSizedKernel(size int) []float32 {
	return defaultKernelCache.get(size)
}
