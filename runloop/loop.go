// Package runloop provides a serial run loop that serves as a primary
// (UI-affine) execution context for glow callbacks.
//
// A Loop executes posted functions one at a time, in posting order, on the
// goroutine that called Run. That goroutine is locked to its OS thread for
// the duration of Run, matching toolkits that require a fixed UI thread.
package runloop

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/gogpu/glow"
)

// ErrRunning is returned by Run when the loop is already running.
var ErrRunning = errors.New("runloop: already running")

// Loop is a serial executor. The zero value is not usable; create loops
// with New.
//
// Thread safety: Post, Do, Stop and Pending are safe for concurrent use.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	running bool
	stopReq bool // Stop called and not yet observed by a Run
	stopped bool // the last Run ended through Stop

	wake chan struct{} // capacity 1; signals queued work or Stop
}

// New creates a loop. It does not execute anything until Run is called.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop. Post never blocks.
//
// Functions posted while the loop is not running stay queued and run in
// order on the next Run, so nothing posted is ever dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	stopped := l.stopped && !l.running
	l.mu.Unlock()

	if stopped {
		glow.Logger().Warn("runloop: post to stopped loop, queued until next Run")
	}
	l.signal()
}

// Do posts fn and waits for it to finish. It must not be called from the
// loop's own goroutine, and it blocks until some Run executes fn.
func (l *Loop) Do(fn func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}

// Run executes posted functions on the calling goroutine until ctx is done
// or Stop is called. Functions still queued when Run returns stay queued.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrRunning
	}
	l.running = true
	l.stopped = false
	l.mu.Unlock()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		fn, stop := l.next()
		if stop {
			return nil
		}
		if fn != nil {
			fn()
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// next pops the next queued function. stop is true once Stop was called;
// the stop request is consumed.
func (l *Loop) next() (fn func(), stop bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopReq {
		l.stopReq = false
		l.stopped = true
		return nil, true
	}
	if len(l.queue) == 0 {
		return nil, false
	}
	fn = l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, false
}

// Stop makes the current Run return after the function it is executing.
// A Stop issued while no Run is executing is kept, and the next Run
// returns nil before executing anything.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopReq = true
	l.mu.Unlock()
	l.signal()
}

// Pending returns the number of queued functions.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Context returns a copy of parent that carries the loop as the glow
// executor, so asynchronous glow calls made with it call back on the loop.
func (l *Loop) Context(parent context.Context) context.Context {
	return glow.WithExecutor(parent, l)
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
