package glow

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/glow/internal/filter"
)

const (
	// DefaultRadius is the blur radius of the album-art glow.
	DefaultRadius = 80.0

	// InsetFactor relates the inset to the radius.
	InsetFactor = 4.0

	// MaxPixels bounds the larger of the blur extent and the output a single
	// transform may allocate. The CPU blur peaks at about 20 bytes per
	// extent pixel, roughly 320 MiB at the limit.
	MaxPixels = filter.MaxPixels
)

// ErrNoResult is returned when a glow could not be produced. Every failure
// of the transform wraps it; callers only learn that blurring failed.
var ErrNoResult = errors.New("glow: no result")

// Failure causes. They wrap ErrNoResult and exist for log output.
var (
	errNilImage    = fmt.Errorf("%w: nil image", ErrNoResult)
	errEmptyImage  = fmt.Errorf("%w: empty image", ErrNoResult)
	errTooLarge    = fmt.Errorf("%w: image too large", ErrNoResult)
	errNoPrimitive = fmt.Errorf("%w: blur primitive unavailable", ErrNoResult)
	errEmptyBlur   = fmt.Errorf("%w: blur produced no image", ErrNoResult)
	errBadCrop     = fmt.Errorf("%w: crop outside blur extent", ErrNoResult)
)

// Glow produces blurred glow images with a fixed configuration.
// A Glow holds no per-call state and is safe for concurrent use.
type Glow struct {
	radius    float64
	inset     float64
	primitive BlurPrimitive
	fixed     bool // primitive set by WithPrimitive
	logger    *slog.Logger
}

// New creates a Glow. Without options it uses DefaultRadius, an inset of
// InsetFactor*DefaultRadius and the registered blur primitive.
func New(opts ...Option) *Glow {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Glow{
		radius:    o.radius,
		inset:     InsetFactor * o.radius,
		primitive: o.primitive,
		fixed:     o.primitiveSet,
		logger:    o.logger,
	}
}

var (
	defaultOnce sync.Once
	defaultGlow *Glow
)

// Default returns the Glow used by the package-level functions.
func Default() *Glow {
	defaultOnce.Do(func() { defaultGlow = New() })
	return defaultGlow
}

// Blurred returns the glow of img using the default configuration.
// It is the synchronous entry point; see BlurAsync for the asynchronous one.
func Blurred(img image.Image) (*image.RGBA, error) {
	return Default().Apply(img)
}

// Radius returns the blur radius.
func (g *Glow) Radius() float64 { return g.radius }

// Inset returns the total growth of the output over the input, per axis.
func (g *Glow) Inset() float64 { return g.inset }

// Apply blurs img and crops the result to the input size plus the inset,
// centered on the blur. The output has origin (0,0).
//
// Apply never returns a partial image: on any failure it returns nil and an
// error wrapping ErrNoResult.
func (g *Glow) Apply(img image.Image) (*image.RGBA, error) {
	start := time.Now()
	out, err := g.apply(img)
	if err != nil {
		g.log().Debug("glow: transform failed", "err", err)
		return nil, err
	}
	g.log().Debug("glow: transform done",
		"in", img.Bounds().Size(),
		"out", out.Bounds().Size(),
		"elapsed", time.Since(start))
	return out, nil
}

func (g *Glow) apply(img image.Image) (*image.RGBA, error) {
	src, err := g.toRGBA(img)
	if err != nil {
		return nil, err
	}

	p := g.blurPrimitive()
	if p == nil {
		return nil, errNoPrimitive
	}

	blurred, err := p.Blur(src, g.radius)
	if err != nil {
		return nil, fmt.Errorf("%w: %s blur: %v", ErrNoResult, p.Name(), err)
	}
	if blurred == nil || blurred.Bounds().Empty() {
		return nil, errEmptyBlur
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	crop := CropRect(RectFrom(blurred.Bounds()), float64(w), float64(h), g.inset)
	return render(blurred, crop)
}

// toRGBA converts img to a premultiplied RGBA copy with origin (0,0).
func (g *Glow) toRGBA(img image.Image) (*image.RGBA, error) {
	if img == nil {
		return nil, errNilImage
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errEmptyImage
	}
	if !g.fits(b.Dx(), b.Dy()) {
		return nil, errTooLarge
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// fits reports whether a w x h input stays within MaxPixels once grown to
// its blur extent (ceil(3σ) per side) or to the output size (w + inset),
// whichever is larger.
func (g *Glow) fits(w, h int) bool {
	grow := max(2*math.Ceil(3*g.radius), g.inset)
	if math.IsNaN(grow) || math.IsInf(grow, 0) || grow < 0 {
		// Invalid radii are rejected by the primitive.
		grow = 0
	}
	return (float64(w)+grow)*(float64(h)+grow) <= MaxPixels
}

// render copies the crop region of blurred into a new image with origin
// (0,0). Parts of the crop outside the blur extent stay transparent.
func render(blurred *image.RGBA, crop Rect) (*image.RGBA, error) {
	if crop.Empty() || math.IsNaN(crop.X) || math.IsNaN(crop.Y) {
		return nil, errBadCrop
	}
	r := crop.Rectangle()
	if r.Empty() || !r.Overlaps(blurred.Bounds()) {
		return nil, errBadCrop
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), blurred, r.Min, draw.Src)
	return out, nil
}

func (g *Glow) blurPrimitive() BlurPrimitive {
	if g.fixed {
		return g.primitive
	}
	return Primitive()
}

func (g *Glow) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return Logger()
}
