package filter

import (
	"errors"
	"image"
	"math"
	"sync"

	"github.com/gogpu/glow/internal/parallel"
)

// ExactSigmaLimit is the largest standard deviation blurred with an exact
// Gaussian kernel. Larger values use the three-pass box approximation.
const ExactSigmaLimit = 8.0

// boxPasses is the number of box blurs used to approximate a Gaussian.
const boxPasses = 3

// MaxPixels bounds the grown extent Blur will allocate. Peak memory is
// about 20 bytes per extent pixel: the RGBA result plus a float32 RGBA
// buffer for the horizontal pass.
const MaxPixels = 1 << 24

// Blur errors.
var (
	// ErrEmptySource is returned for a nil or zero-area source image.
	ErrEmptySource = errors.New("filter: empty source image")

	// ErrInvalidSigma is returned for a negative, NaN or infinite sigma.
	ErrInvalidSigma = errors.New("filter: invalid blur sigma")

	// ErrTooLarge is returned when the grown extent exceeds MaxPixels.
	ErrTooLarge = errors.New("filter: blur extent too large")
)

// Blur returns src convolved with a Gaussian of standard deviation sigma.
//
// The result's bounds are src.Bounds() grown by Spread(sigma) on every
// side, so the blur halo is kept rather than clipped. Samples outside src
// are transparent. src must hold premultiplied pixels (image.RGBA does).
//
// pool may be nil, in which case all passes run on the calling goroutine.
func Blur(src *image.RGBA, sigma float64, pool *parallel.WorkerPool) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptySource
	}
	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, ErrInvalidSigma
	}

	sb := src.Bounds()
	if !Fits(sb.Dx(), sb.Dy(), sigma) {
		return nil, ErrTooLarge
	}

	spread := Spread(sigma)
	dst := image.NewRGBA(sb.Inset(-spread))

	if spread == 0 {
		copyRegion(src, dst)
		return dst, nil
	}

	w, h := sb.Dx(), sb.Dy()
	outW, outH := w+2*spread, h+2*spread

	line := newLineBlur(sigma, max(outW, outH))

	// Horizontal pass: source rows -> temp. Rows above and below the source
	// stay zero, which is exactly their horizontal blur.
	temp := make([]float32, outW*outH*4)
	pool.ExecuteAll(bands(h, pool.Workers(), func(y0, y1 int) {
		buf := line.buffers()
		defer line.release(buf)
		row := buf.a[:outW*4]
		for y := y0; y < y1; y++ {
			clear(row)
			off := src.PixOffset(sb.Min.X, sb.Min.Y+y)
			for i, v := range src.Pix[off : off+w*4] {
				row[spread*4+i] = float32(v)
			}
			line.apply(row, buf.b[:outW*4])
			copy(temp[(y+spread)*outW*4:], row)
		}
	}))

	// Vertical pass: temp columns -> dst.
	pool.ExecuteAll(bands(outW, pool.Workers(), func(x0, x1 int) {
		buf := line.buffers()
		defer line.release(buf)
		col := buf.a[:outH*4]
		for x := x0; x < x1; x++ {
			for y := 0; y < outH; y++ {
				copy(col[y*4:y*4+4], temp[(y*outW+x)*4:])
			}
			line.apply(col, buf.b[:outH*4])
			for y := 0; y < outH; y++ {
				storePremul(dst.Pix[y*dst.Stride+x*4:], col[y*4:y*4+4])
			}
		}
	}))

	return dst, nil
}

// Fits reports whether a w x h image blurred with sigma stays within
// MaxPixels. The check runs in floating point so huge sigmas cannot
// overflow the spread.
func Fits(w, h int, sigma float64) bool {
	if w < 0 || h < 0 || sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return false
	}
	grow := 0.0
	if sigma > 0 {
		grow = 2 * math.Ceil(sigma*3)
	}
	return (float64(w)+grow)*(float64(h)+grow) <= MaxPixels
}

// lineBlur blurs single RGBA float lines in place. Samples past either end
// of a line are zero.
type lineBlur struct {
	kernel []float32 // exact Gaussian, nil when boxes are used
	radii  []int     // box radii, one per pass

	pool sync.Pool
}

type lineBuffers struct {
	a, b []float32
}

func newLineBlur(sigma float64, maxLen int) *lineBlur {
	lb := &lineBlur{}
	if sigma <= ExactSigmaLimit {
		lb.kernel = CachedGaussianKernel(sigma)
	} else {
		for _, size := range BoxSizes(sigma, boxPasses) {
			lb.radii = append(lb.radii, (size-1)/2)
		}
	}
	lb.pool.New = func() any {
		return &lineBuffers{
			a: make([]float32, maxLen*4),
			b: make([]float32, maxLen*4),
		}
	}
	return lb
}

func (lb *lineBlur) buffers() *lineBuffers { return lb.pool.Get().(*lineBuffers) }

func (lb *lineBlur) release(buf *lineBuffers) { lb.pool.Put(buf) }

// apply blurs line in place, using scratch (same length) as temporary space.
func (lb *lineBlur) apply(line, scratch []float32) {
	if lb.kernel != nil {
		convolveLine(scratch, line, lb.kernel)
		copy(line, scratch)
		return
	}
	src, dst := line, scratch
	for _, r := range lb.radii {
		boxLine(dst, src, r)
		src, dst = dst, src
	}
	if &src[0] != &line[0] {
		copy(line, src)
	}
}

// convolveLine writes src convolved with kernel into dst.
func convolveLine(dst, src []float32, kernel []float32) {
	n := len(src) / 4
	half := len(kernel) / 2

	for i := 0; i < n; i++ {
		var r, g, b, a float32
		k0 := max(0, half-i)
		k1 := min(len(kernel), n-i+half)
		for k := k0; k < k1; k++ {
			idx := (i + k - half) * 4
			weight := kernel[k]
			r += src[idx+0] * weight
			g += src[idx+1] * weight
			b += src[idx+2] * weight
			a += src[idx+3] * weight
		}
		dst[i*4+0] = r
		dst[i*4+1] = g
		dst[i*4+2] = b
		dst[i*4+3] = a
	}
}

// boxLine writes the mean of each window [i-r, i+r] of src into dst using a
// running sum.
func boxLine(dst, src []float32, r int) {
	n := len(src) / 4
	inv := 1 / float64(2*r+1)

	for c := 0; c < 4; c++ {
		var sum float64
		for j := 0; j <= r && j < n; j++ {
			sum += float64(src[j*4+c])
		}
		for i := 0; i < n; i++ {
			dst[i*4+c] = float32(sum * inv)
			if j := i + r + 1; j < n {
				sum += float64(src[j*4+c])
			}
			if j := i - r; j >= 0 {
				sum -= float64(src[j*4+c])
			}
		}
	}
}

// bands splits [0, n) into at most 2*workers contiguous ranges and returns
// one work item per range.
func bands(n, workers int, fn func(lo, hi int)) []func() {
	parts := min(n, workers*2)
	if parts < 1 {
		parts = 1
	}
	size := (n + parts - 1) / parts

	work := make([]func(), 0, parts)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		work = append(work, func() { fn(lo, hi) })
	}
	return work
}

// storePremul rounds one float pixel into dst, keeping each color channel
// no larger than alpha.
func storePremul(dst []uint8, px []float32) {
	a := clampUint8(px[3])
	dst[0] = min(clampUint8(px[0]), a)
	dst[1] = min(clampUint8(px[1]), a)
	dst[2] = min(clampUint8(px[2]), a)
	dst[3] = a
}

// copyRegion copies src into dst where their bounds overlap.
func copyRegion(src, dst *image.RGBA) {
	r := src.Bounds().Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		so := src.PixOffset(r.Min.X, y)
		do := dst.PixOffset(r.Min.X, y)
		copy(dst.Pix[do:do+r.Dx()*4], src.Pix[so:so+r.Dx()*4])
	}
}

// clampUint8 clamps a float32 to [0, 255] and converts to uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
