package glow

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/glow/internal/filter"
	"github.com/gogpu/glow/internal/parallel"
)

// BlurPrimitive is the Gaussian convolution a Glow delegates to.
//
// Blur must return a new premultiplied image whose Bounds() is the blur's
// native extent in src coordinates: the source bounds grown by however far
// the kernel spreads. Implementations must be safe for concurrent use and
// must not retain src.
//
// Hosts with a platform blur (GPU, SIMD) register it via RegisterPrimitive:
//
//	func init() {
//	    _ = glow.RegisterPrimitive(newPlatformBlur())
//	}
type BlurPrimitive interface {
	// Name returns the primitive name (e.g., "cpu").
	Name() string

	// Blur convolves src with a Gaussian of standard deviation radius.
	Blur(src *image.RGBA, radius float64) (*image.RGBA, error)
}

var (
	primMu sync.RWMutex
	prim   BlurPrimitive = NewCPUPrimitive(0)
)

// RegisterPrimitive sets the process-wide blur primitive used by every Glow
// created without WithPrimitive.
//
// Only one primitive can be registered. Subsequent calls replace the previous
// one; if the replaced primitive implements io.Closer it is closed.
func RegisterPrimitive(p BlurPrimitive) error {
	if p == nil {
		return errors.New("glow: primitive must not be nil")
	}
	propagateLogger(p, Logger())

	primMu.Lock()
	old := prim
	prim = p
	primMu.Unlock()

	if old != nil && old != p {
		Logger().Warn("glow: blur primitive replaced", "old", old.Name(), "new", p.Name())
		if c, ok := old.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return nil
}

// Primitive returns the currently registered blur primitive.
func Primitive() BlurPrimitive {
	primMu.RLock()
	p := prim
	primMu.RUnlock()
	return p
}

// CPUPrimitive is the built-in software blur. Small radii use an exact
// separable Gaussian, large radii a three-pass box approximation. Bands of
// rows and columns run on a worker pool that is started on first use.
type CPUPrimitive struct {
	workers int

	once sync.Once
	pool *parallel.WorkerPool

	mu     sync.Mutex
	closed bool
	logger *slog.Logger
}

// NewCPUPrimitive creates a software blur primitive with the given number of
// workers. If workers is 0 or negative, GOMAXPROCS is used; 1 runs every
// blur on the calling goroutine.
func NewCPUPrimitive(workers int) *CPUPrimitive {
	return &CPUPrimitive{workers: workers}
}

// Name returns "cpu".
func (p *CPUPrimitive) Name() string { return "cpu" }

// Blur implements BlurPrimitive.
func (p *CPUPrimitive) Blur(src *image.RGBA, radius float64) (*image.RGBA, error) {
	return filter.Blur(src, radius, p.workerPool())
}

// SetLogger receives the logger configured with glow.SetLogger.
func (p *CPUPrimitive) SetLogger(l *slog.Logger) {
	p.mu.Lock()
	p.logger = l
	p.mu.Unlock()
}

// Close stops the worker pool. Blurs started afterwards run serially.
func (p *CPUPrimitive) Close() error {
	p.mu.Lock()
	p.closed = true
	pool := p.pool
	p.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
	return nil
}

// workerPool returns the lazily started pool, or nil for serial blurs.
func (p *CPUPrimitive) workerPool() *parallel.WorkerPool {
	if p.workers == 1 {
		return nil
	}
	p.once.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			return
		}
		p.pool = parallel.NewWorkerPool(p.workers)
		if p.logger != nil {
			p.logger.Debug("glow: cpu blur pool started", "workers", p.pool.Workers())
		}
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pool
}
