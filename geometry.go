package glow

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// RectFrom converts an integer image rectangle to a Rect.
func RectFrom(r image.Rectangle) Rect {
	return Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// Empty reports whether the rectangle has no area. NaN sizes count as empty.
func (r Rect) Empty() bool {
	return !(r.W > 0 && r.H > 0)
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Rectangle rounds the rectangle to pixel coordinates.
func (r Rect) Rectangle() image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.W)), y0+int(math.Round(r.H)))
}

// CropRect returns the region of a blurred image to keep.
//
// extent is the blur's native output extent, which is larger than the input
// because of kernel spread. The crop has size (inputW+inset, inputH+inset)
// and is positioned so that its center coincides with the center of extent:
//
//	x = extent.X + (extent.W - inputW - inset) / 2
//	y = extent.Y + (extent.H - inputH - inset) / 2
func CropRect(extent Rect, inputW, inputH, inset float64) Rect {
	return Rect{
		X: extent.X + (extent.W-inputW-inset)/2,
		Y: extent.Y + (extent.H-inputH-inset)/2,
		W: inputW + inset,
		H: inputH + inset,
	}
}
