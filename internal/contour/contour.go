// Package contour extracts the outer boundaries of foreground regions and
// picks the one to operate on.
package contour

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"surgery-sim/internal/segment"
	"surgery-sim/pkg/geometry"
)

// Contour is the closed outer boundary of one connected foreground region.
// Points are the simplified polyline produced by ChainApproxSimple: runs of
// horizontal, vertical and diagonal pixels collapse to their end points.
type Contour struct {
	Index  int           // Discovery order within the mask
	Points []image.Point // Closed polyline, last point connects back to the first
}

// Area returns the enclosed area, zero for single pixels and thin lines.
func (c Contour) Area() float64 {
	if len(c.Points) == 0 {
		return 0
	}
	pv := c.PointsVector()
	defer pv.Close()
	return gocv.ContourArea(pv.At(0))
}

// Moments returns the raw moments of the enclosed region.
func (c Contour) Moments() geometry.Moments {
	return geometry.RawMoments(c.Points)
}

// Bounds returns the tightest box containing every boundary point.
func (c Contour) Bounds() geometry.RectInt {
	if len(c.Points) == 0 {
		return geometry.RectInt{}
	}
	pv := c.PointsVector()
	defer pv.Close()
	return geometry.FromRectangle(gocv.BoundingRect(pv.At(0)))
}

// PointsVector wraps the contour for gocv drawing calls.
// The caller must Close the result.
func (c Contour) PointsVector() gocv.PointsVector {
	return gocv.NewPointsVectorFromPoints([][]image.Point{c.Points})
}

// Extract finds the external boundaries of every connected foreground region
// in a binary mask. Holes inside a region are not reported. A mask with no
// foreground yields an empty slice.
func Extract(mask gocv.Mat) ([]Contour, error) {
	if mask.Empty() {
		return nil, errors.Wrap(segment.ErrInvalidInput, "empty mask")
	}
	if mask.Type() != gocv.MatTypeCV8UC1 {
		return nil, errors.Wrapf(segment.ErrInvalidInput, "mask must be single-channel 8-bit, got %v", mask.Type())
	}

	found := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i, pts := range found.ToPoints() {
		contours = append(contours, Contour{Index: i, Points: pts})
	}
	return contours, nil
}

// SelectLargest returns the contour with the greatest enclosed area.
// Ties go to the contour found first. ok is false only when contours is empty.
func SelectLargest(contours []Contour) (largest Contour, ok bool) {
	if len(contours) == 0 {
		return Contour{}, false
	}

	best := 0
	bestArea := contours[0].Area()
	for i := 1; i < len(contours); i++ {
		if area := contours[i].Area(); area > bestArea {
			best = i
			bestArea = area
		}
	}
	return contours[best], true
}
