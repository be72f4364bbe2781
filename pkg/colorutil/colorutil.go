// Package colorutil provides shared color utilities for the card decoder.
package colorutil

import (
	"image/color"
)

// Levels used by binarized images.
const (
	Low  uint8 = 0
	High uint8 = 255
)

// Common colors used by the synthetic card renderer and overlays.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// CardStock is a typical bright card body under front lighting.
	CardStock = color.RGBA{R: 236, G: 228, B: 205, A: 255}
	// Backdrop is a dark surface seen through holes and around the card.
	Backdrop = color.RGBA{R: 24, G: 22, B: 30, A: 255}
)

// Luma converts 8-bit RGB to 8-bit luminance using the ITU-R 601-2 weights
// (L = R*299/1000 + G*587/1000 + B*114/1000).
func Luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*299 + uint32(g)*587 + uint32(b)*114) / 1000)
}

// AllAbove returns true if every channel is strictly greater than cutoff.
func AllAbove(r, g, b, cutoff uint8) bool {
	return r > cutoff && g > cutoff && b > cutoff
}

// RGB8 returns the 8-bit, alpha-premultiplied channels of c.
func RGB8(c color.Color) (r, g, b uint8) {
	r32, g32, b32, _ := c.RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8)
}

// Normalize maps an 8-bit intensity to [0, 1].
func Normalize(v float64) float64 {
	return v / float64(High)
}
