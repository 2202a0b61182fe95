// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"image"
)

// RectInt represents an axis-aligned rectangle with integer coordinates.
// Width and Height count pixels, so a single point has a 1x1 box.
type RectInt struct {
	X, Y          int
	Width, Height int
}

// NewRectInt creates a new RectInt.
func NewRectInt(x, y, width, height int) RectInt {
	return RectInt{X: x, Y: y, Width: width, Height: height}
}

// Empty returns true if the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// TopLeft returns the top-left corner.
func (r RectInt) TopLeft() image.Point {
	return image.Pt(r.X, r.Y)
}

// BottomRight returns the exclusive bottom-right corner.
func (r RectInt) BottomRight() image.Point {
	return image.Pt(r.X+r.Width, r.Y+r.Height)
}

// MidLeft returns the point halfway down the left edge.
// The half height uses integer division.
func (r RectInt) MidLeft() image.Point {
	return image.Pt(r.X, r.Y+r.Height/2)
}

// MidRight returns the point halfway down the right edge.
func (r RectInt) MidRight() image.Point {
	return image.Pt(r.X+r.Width, r.Y+r.Height/2)
}

// Rectangle converts to an image.Rectangle for drawing.
func (r RectInt) Rectangle() image.Rectangle {
	return image.Rectangle{Min: r.TopLeft(), Max: r.BottomRight()}
}

// Contains returns true if the point lies inside the rectangle.
func (r RectInt) Contains(p image.Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// FromRectangle converts an image.Rectangle, such as the one returned by
// gocv.BoundingRect, to a RectInt.
func FromRectangle(r image.Rectangle) RectInt {
	return RectInt{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
