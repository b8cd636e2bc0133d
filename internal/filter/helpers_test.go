package filter

import (
	"image"
	"image/color"
)

// Test helper functions shared across filter tests.

// createTestImage creates an image filled with the given color.
func createTestImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// createPatternImage creates a deterministic, non-uniform premultiplied image.
func createPatternImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8((x*37 + y*11) % 256)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(int(a) * ((x * 7) % 256) / 255),
				G: uint8(int(a) * ((y * 13) % 256) / 255),
				B: a / 2,
				A: a,
			})
		}
	}
	return img
}

// alphaSum returns the sum of all alpha values in img.
func alphaSum(img *image.RGBA) float64 {
	var sum float64
	for i := 3; i < len(img.Pix); i += 4 {
		sum += float64(img.Pix[i])
	}
	return sum
}

// absDiff returns |a-b| for bytes.
func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// formatFloat formats a float for benchmark names.
func formatFloat(f float64) string {
	if f == float64(int(f)) {
		return formatInt(int(f))
	}
	intPart := int(f)
	fracPart := int((f - float64(intPart)) * 100)
	if fracPart < 0 {
		fracPart = -fracPart
	}
	return formatInt(intPart) + "." + formatInt(fracPart)
}

// formatInt formats an integer without using fmt.
func formatInt(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}
