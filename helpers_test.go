package glow

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/image/draw"
)

// Test helper functions shared across glow tests.

var opaqueBlue = color.RGBA{B: 255, A: 255}

// solidImage creates an image filled with c.
func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// mockPrimitive implements BlurPrimitive for testing.
type mockPrimitive struct {
	name   string
	blur   func(src *image.RGBA, radius float64) (*image.RGBA, error)
	calls  atomic.Int64
	closed atomic.Bool

	mu     sync.Mutex
	logger *slog.Logger
}

func (m *mockPrimitive) Name() string { return m.name }

func (m *mockPrimitive) Blur(src *image.RGBA, radius float64) (*image.RGBA, error) {
	m.calls.Add(1)
	if m.blur == nil {
		return nil, errors.New("mock: no blur")
	}
	return m.blur(src, radius)
}

func (m *mockPrimitive) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *mockPrimitive) SetLogger(l *slog.Logger) {
	m.mu.Lock()
	m.logger = l
	m.mu.Unlock()
}

func (m *mockPrimitive) currentLogger() *slog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger
}

// fixedExtent returns a blur func that ignores src and returns an image with
// the given bounds whose pixels encode their own coordinates.
func fixedExtent(r image.Rectangle) func(*image.RGBA, float64) (*image.RGBA, error) {
	return func(*image.RGBA, float64) (*image.RGBA, error) {
		img := image.NewRGBA(r)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetRGBA(x, y, coordColor(x, y))
			}
		}
		return img, nil
	}
}

// coordColor encodes a coordinate in [-100, 155) into an opaque color.
func coordColor(x, y int) color.RGBA {
	return color.RGBA{R: uint8(x + 100), G: uint8(y + 100), A: 255}
}

// swapPrimitive installs p as the registered primitive without closing the
// current one, and restores the original when the test ends.
func swapPrimitive(t *testing.T, p BlurPrimitive) {
	t.Helper()
	primMu.Lock()
	orig := prim
	prim = p
	primMu.Unlock()
	t.Cleanup(func() {
		primMu.Lock()
		prim = orig
		primMu.Unlock()
	})
}

// loopExecutor is a minimal serial executor driven by the test goroutine.
// It records whether code runs inside one of its posted functions.
type loopExecutor struct {
	queue  chan func()
	inside atomic.Bool
	posts  atomic.Int64
}

func newLoopExecutor() *loopExecutor {
	return &loopExecutor{queue: make(chan func(), 64)}
}

func (e *loopExecutor) Post(fn func()) {
	e.posts.Add(1)
	e.queue <- fn
}

// runOne executes the next posted function, failing after timeout.
func (e *loopExecutor) runOne(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case fn := <-e.queue:
		e.inside.Store(true)
		fn()
		e.inside.Store(false)
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a posted callback")
	}
}

// expectIdle fails if anything else gets posted within d.
func (e *loopExecutor) expectIdle(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case <-e.queue:
		t.Fatal("unexpected extra callback posted")
	case <-time.After(d):
	}
}

// result captures one callback invocation.
type result struct {
	img *image.RGBA
	err error
}

// countingView implements View and counts Draw calls.
type countingView struct {
	bounds image.Rectangle
	fill   color.RGBA
	draws  atomic.Int64
}

func (v *countingView) Bounds() image.Rectangle { return v.bounds }

func (v *countingView) Draw(dst draw.Image) {
	v.draws.Add(1)
	draw.Draw(dst, v.bounds, image.NewUniform(v.fill), image.Point{}, draw.Src)
}
