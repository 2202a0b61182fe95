// Package colorutil provides the overlay palette shared by the renderers.
package colorutil

import (
	"image/color"
)

// Overlay colors. Values are RGB; gocv converts them to BGR when drawing.
var (
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Gray    = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Semantic aliases for the simulation overlays.
var (
	Detection     = Magenta // Outline of the detected region
	TargetBox     = Blue    // Bounding box during targeting
	GuideArrow    = Yellow  // Targeting guide lines
	Success       = Green   // Box and outline after removal
	NeutralTissue = Gray    // Fill standing in for removed tissue
	Label         = White   // Before/After captions
)

// Luminance converts 8-bit RGB to gray with the ITU-R BT.601 weights used by
// OpenCV's BGR2GRAY conversion (0.299 R + 0.587 G + 0.114 B).
func Luminance(r, g, b uint8) uint8 {
	// Fixed point with 14 fractional bits, rounded, as OpenCV does.
	const (
		shift = 14
		rw    = 4899  // 0.299 * 2^14
		gw    = 9617  // 0.587 * 2^14
		bw    = 1868  // 0.114 * 2^14
		round = 1 << (shift - 1)
	)
	return uint8((rw*uint32(r) + gw*uint32(g) + bw*uint32(b) + round) >> shift)
}
