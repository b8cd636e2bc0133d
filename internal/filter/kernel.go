package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a 1D Gaussian kernel for the given standard
// deviation. The kernel is normalized so all values sum to 1.0.
//
// The kernel size is 2*Spread(sigma) + 1, which covers 99.7% of the
// Gaussian distribution (3 standard deviations).
//
// For sigma <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := Spread(sigma)
	size := halfSize*2 + 1

	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels in normalization.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
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

// Spread returns how far, in pixels, a blur of the given standard deviation
// grows the image extent on each side: ceil(3σ).
func Spread(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}

// BoxSizes returns n odd box widths whose successive application
// approximates a Gaussian of the given standard deviation.
//
// The sizes follow the standard construction: the ideal width
// sqrt(12σ²/n + 1) is rounded down to the nearest odd wl, and the first m
// passes use wl while the rest use wl+2, with m chosen so the summed
// variance matches σ².
func BoxSizes(sigma float64, n int) []int {
	if n <= 0 {
		return nil
	}
	sizes := make([]int, n)
	if sigma <= 0 {
		for i := range sizes {
			sizes[i] = 1
		}
		return sizes
	}

	nf := float64(n)
	wIdeal := math.Sqrt(12*sigma*sigma/nf + 1)
	wl := int(math.Floor(wIdeal))
	if wl%2 == 0 {
		wl--
	}
	if wl < 1 {
		wl = 1
	}
	wu := wl + 2

	wlf := float64(wl)
	mIdeal := (12*sigma*sigma - nf*wlf*wlf - 4*nf*wlf - 3*nf) / (-4*wlf - 4)
	m := int(math.Round(mIdeal))

	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}

// kernelCache caches computed Gaussian kernels to avoid recomputation.
// Key is sigma * 100 (to handle float precision), value is kernel.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[int][]float32),
		maxLen: maxLen,
	}
}

// get retrieves a kernel from cache or generates and caches it.
func (c *kernelCache) get(sigma float64) []float32 {
	key := int(sigma * 100)

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := GaussianKernel(sigma)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Clear half the cache.
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// Len reports the number of cached kernels.
func (c *kernelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// CachedGaussianKernel returns a cached Gaussian kernel for sigma.
// The returned slice is shared and must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	return defaultKernelCache.get(sigma)
}
