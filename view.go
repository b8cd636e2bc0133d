package glow

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// View is anything that can render its current on-screen appearance.
//
// Draw reads live state, so it must only be called from the view's primary
// execution context.
type View interface {
	// Bounds returns the view's area in its own coordinate space.
	Bounds() image.Rectangle

	// Draw renders the view into dst, whose bounds equal Bounds().
	Draw(dst draw.Image)
}

// Snapshot rasterizes v into a new image that covers v.Bounds().
// It must be called on the view's primary execution context.
func Snapshot(v View) (*image.RGBA, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil view", ErrNoResult)
	}
	b := v.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty view", ErrNoResult)
	}
	dst := image.NewRGBA(b)
	v.Draw(dst)
	return dst, nil
}

// BlurViewAsync is g.ApplyViewAsync on the default Glow.
func BlurViewAsync(ctx context.Context, v View, done Callback) {
	Default().ApplyViewAsync(ctx, v, done)
}

// ApplyViewAsync snapshots v synchronously on the calling goroutine, which
// must be the view's primary execution context, then blurs the snapshot in
// the background as ApplyAsync does. When ApplyViewAsync returns the
// view is no longer read.
func (g *Glow) ApplyViewAsync(ctx context.Context, v View, done Callback) {
	snap, err := Snapshot(v)
	if err != nil {
		g.log().DebugContext(ctx, "glow: view snapshot failed", "err", err)
		if done != nil {
			g.deliver(ctx, func() { done(nil, err) })
		}
		return
	}
	g.ApplyAsync(ctx, snap, done)
}
