package glow

import "context"

// Executor runs functions on an execution context, typically a UI-affine
// run loop. Post must not block for long and must eventually run fn exactly
// once.
type Executor interface {
	Post(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

// Post calls f(fn).
func (f ExecutorFunc) Post(fn func()) { f(fn) }

type executorKey struct{}

// WithExecutor returns a copy of ctx that carries e as the primary execution
// context. Asynchronous glow calls made with the returned context deliver
// their callbacks through e.
func WithExecutor(ctx context.Context, e Executor) context.Context {
	return context.WithValue(ctx, executorKey{}, e)
}

// ExecutorFrom returns the executor carried by ctx, or nil if there is none.
func ExecutorFrom(ctx context.Context) Executor {
	if ctx == nil {
		return nil
	}
	e, _ := ctx.Value(executorKey{}).(Executor)
	return e
}

// deliver runs fn through the executor carried by ctx. Without one, fn runs
// on the calling goroutine.
func (g *Glow) deliver(ctx context.Context, fn func()) {
	e := ExecutorFrom(ctx)
	if e == nil {
		g.log().DebugContext(ctx, "glow: no executor in context, calling back inline")
		fn()
		return
	}
	e.Post(fn)
}
