package glow

import (
	"context"
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// ImageHolder holds the image currently bound to a display element, such as
// an album-art view. It is safe for concurrent use.
//
// ImageHolder implements View, drawing its bound image.
type ImageHolder struct {
	mu  sync.RWMutex
	img image.Image
}

// NewImageHolder creates a holder bound to img, which may be nil.
func NewImageHolder(img image.Image) *ImageHolder {
	return &ImageHolder{img: img}
}

// SetImage binds img, replacing the previous image. nil unbinds.
func (h *ImageHolder) SetImage(img image.Image) {
	h.mu.Lock()
	h.img = img
	h.mu.Unlock()
}

// Image returns the bound image, or nil.
func (h *ImageHolder) Image() image.Image {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.img
}

// Bounds returns the bound image's bounds, or the empty rectangle.
func (h *ImageHolder) Bounds() image.Rectangle {
	img := h.Image()
	if img == nil {
		return image.Rectangle{}
	}
	return img.Bounds()
}

// Draw draws the bound image into dst at the image's own coordinates.
func (h *ImageHolder) Draw(dst draw.Image) {
	img := h.Image()
	if img == nil {
		return
	}
	draw.Draw(dst, img.Bounds(), img, img.Bounds().Min, draw.Over)
}

// BlurAsync is g.ApplyHolderAsync on the default Glow.
func (h *ImageHolder) BlurAsync(ctx context.Context, done Callback) {
	Default().ApplyHolderAsync(ctx, h, done)
}

// ApplyHolderAsync produces the glow of the image currently bound to h.
// With no image bound, done receives ErrNoResult through the context's
// executor and no transform runs.
func (g *Glow) ApplyHolderAsync(ctx context.Context, h *ImageHolder, done Callback) {
	var img image.Image
	if h != nil {
		img = h.Image()
	}
	if img == nil {
		if done == nil {
			return
		}
		g.deliver(ctx, func() { done(nil, errNilImage) })
		return
	}
	g.ApplyAsync(ctx, img, done)
}
