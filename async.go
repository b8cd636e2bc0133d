package glow

import (
	"context"
	"image"
)

// Callback receives the outcome of an asynchronous glow: the image, or nil
// and an error wrapping ErrNoResult.
type Callback func(img *image.RGBA, err error)

// ApplyAsync runs Apply on a new goroutine and passes the outcome to done.
//
// done is called exactly once, through the Executor carried by ctx (see
// WithExecutor), so a caller on a run loop gets its result back on that
// loop. If ctx carries no executor, done runs on the background goroutine.
// ctx selects the executor and scopes log records; it does not cancel the
// transform. Concurrent calls are fully independent.
func (g *Glow) ApplyAsync(ctx context.Context, img image.Image, done Callback) {
	if done == nil {
		done = func(*image.RGBA, error) {}
	}
	go func() {
		out, err := g.Apply(img)
		g.deliver(ctx, func() { done(out, err) })
	}()
}

// BlurAsync is ApplyAsync on the default Glow.
func BlurAsync(ctx context.Context, img image.Image, done Callback) {
	Default().ApplyAsync(ctx, img, done)
}
