// Package target derives targeting geometry from a selected contour.
package target

import (
	"fmt"
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"surgery-sim/internal/contour"
	"surgery-sim/pkg/geometry"
)

// DefaultArrowOffset is the horizontal distance from the actuator reference
// point to the second guide line's origin.
const DefaultArrowOffset = 100

// Geometry is the targeting data derived from exactly one contour.
type Geometry struct {
	Box      geometry.RectInt
	Centroid r2.Vec // Area-weighted centroid from raw moments
	Area     float64
}

// CentroidPixel truncates the centroid to integer pixel coordinates.
func (g Geometry) CentroidPixel() image.Point {
	return image.Pt(int(math.Trunc(g.Centroid.X)), int(math.Trunc(g.Centroid.Y)))
}

func (g Geometry) String() string {
	return fmt.Sprintf("box=(%d,%d %dx%d) centroid=(%.1f,%.1f) area=%.0f",
		g.Box.X, g.Box.Y, g.Box.Width, g.Box.Height, g.Centroid.X, g.Centroid.Y, g.Area)
}

// Arrow is a guide line from a reference point to a point on the target.
type Arrow struct {
	From image.Point
	To   image.Point
}

// Vector returns the displacement from From to To.
func (a Arrow) Vector() r2.Vec {
	return r2.Sub(toVec(a.To), toVec(a.From))
}

// Length returns the Euclidean length of the arrow.
func (a Arrow) Length() float64 {
	return r2.Norm(a.Vector())
}

// BoundingBox returns the tightest axis-aligned box around the contour.
func BoundingBox(c contour.Contour) geometry.RectInt {
	return c.Bounds()
}

// Centroid returns (M10/M00, M01/M00) for the region the contour encloses.
// Zero-area contours are rejected before any division happens.
func Centroid(c contour.Contour) (r2.Vec, error) {
	cx, cy, ok := c.Moments().Centroid()
	if !ok {
		return r2.Vec{}, errors.Wrapf(ErrDegenerateGeometry, "contour %d with %d points", c.Index, len(c.Points))
	}
	return r2.Vec{X: cx, Y: cy}, nil
}

// Targeter computes bounding boxes, centroids and guide arrows.
type Targeter struct {
	ArrowOffset int
}

// New creates a Targeter with the given second-reference offset.
func New(arrowOffset int) *Targeter {
	return &Targeter{ArrowOffset: arrowOffset}
}

// Compute derives the full targeting geometry for one contour.
func (t *Targeter) Compute(c contour.Contour) (Geometry, error) {
	centroid, err := Centroid(c)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		Box:      BoundingBox(c),
		Centroid: centroid,
		Area:     c.Area(),
	}, nil
}

// Arrows returns the two guide lines: one from the reference point to the
// middle of the box's left edge, and one from a point ArrowOffset to the
// right of the reference to the middle of the box's right edge.
func (t *Targeter) Arrows(ref image.Point, box geometry.RectInt) (left, right Arrow) {
	left = Arrow{From: ref, To: box.MidLeft()}
	right = Arrow{From: ref.Add(image.Pt(t.ArrowOffset, 0)), To: box.MidRight()}
	return left, right
}

func toVec(p image.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}
