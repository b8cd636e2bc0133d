// Package glow renders the blurred "glow" variant of an image, the soft halo
// music players show behind album art.
//
// # Overview
//
// The transform blurs an image with a Gaussian of radius [DefaultRadius] and
// crops the blurred result to the input size grown by an inset of four
// radii, centered on the blur. The halo therefore extends past the original
// bounds on every side:
//
//	out, err := glow.Blurred(cover)
//	if err != nil {
//	    // errors.Is(err, glow.ErrNoResult) holds for every failure
//	}
//	// out is (w+320) x (h+320)
//
// # Asynchronous use
//
// The async entry points run the transform on a background goroutine and
// deliver the result through the [Executor] carried by the caller's context.
// A UI that owns a serial run loop passes a context derived from it:
//
//	loop := runloop.New()
//	ctx := loop.Context(context.Background())
//	glow.BlurAsync(ctx, cover, func(out *image.RGBA, err error) {
//	    // runs on the loop
//	})
//
// [ImageHolder] and [View] cover callers that hold an image or can draw
// themselves; [BlurViewAsync] rasterizes the view on the calling goroutine
// before handing off.
//
// # Blur primitives
//
// The convolution itself comes from a [BlurPrimitive]. A CPU primitive is
// registered by default; hosts with a faster blur call [RegisterPrimitive].
//
// # Logging
//
// glow is silent by default. Use [SetLogger] to route diagnostics to a
// [log/slog] logger.
package glow
