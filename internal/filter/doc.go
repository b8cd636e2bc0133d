// Package filter provides the CPU blur primitive used by glow.
//
// Blur is a separable Gaussian blur whose output extent grows past the
// source bounds by the kernel spread, with transparent samples outside the
// source. That growth is what lets a glow halo extend beyond the original
// image:
//   - Exact separable convolution for small sigma (<= ExactSigmaLimit)
//   - Three-pass running-sum box blur for large sigma, O(1) per pixel
//
// Pixel data is premultiplied RGBA; intermediate results are float32.
// Row and column passes are split into bands that run on an optional
// parallel.WorkerPool, producing identical results with or without it.
package filter
