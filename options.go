package glow

import "log/slog"

// Option configures a Glow during creation.
//
// Example:
//
//	// Default album-art glow
//	g := glow.New()
//
//	// Tighter halo on a custom primitive
//	g := glow.New(glow.WithRadius(24), glow.WithPrimitive(myBlur))
type Option func(*options)

// options holds optional configuration for Glow creation.
type options struct {
	radius       float64
	primitive    BlurPrimitive
	primitiveSet bool
	logger       *slog.Logger
}

// defaultOptions returns the default glow options.
func defaultOptions() options {
	return options{
		radius: DefaultRadius,
	}
}

// WithRadius sets the blur radius (the Gaussian standard deviation, in
// pixels). The inset follows as InsetFactor times the radius.
func WithRadius(r float64) Option {
	return func(o *options) {
		o.radius = r
	}
}

// WithPrimitive sets the blur primitive, overriding the registered one.
// Passing nil makes every Apply fail with ErrNoResult, as on a host without
// a blur filter.
func WithPrimitive(p BlurPrimitive) Option {
	return func(o *options) {
		o.primitive = p
		o.primitiveSet = true
	}
}

// WithLogger sets the logger for this Glow instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
