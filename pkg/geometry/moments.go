package geometry

import (
	"image"
	"math"
)

// minMomentArea mirrors the FLT_EPSILON cutoff OpenCV applies to contour moments.
const minMomentArea = 1.1920929e-07

// Moments holds the raw spatial moments of a closed polygon.
type Moments struct {
	M00 float64 // Enclosed area
	M10 float64
	M01 float64
}

// RawMoments computes the raw moments of the region enclosed by a closed
// polygon using Green's theorem, the same way OpenCV evaluates moments on a
// contour. The result does not depend on the winding direction. Polygons with
// fewer than three vertices, or with a vanishing signed area, yield zero
// moments.
func RawMoments(polygon []image.Point) Moments {
	n := len(polygon)
	if n < 3 {
		return Moments{}
	}

	var a00, a10, a01 float64
	prev := polygon[n-1]
	for _, p := range polygon {
		x0, y0 := float64(prev.X), float64(prev.Y)
		x1, y1 := float64(p.X), float64(p.Y)

		cross := x0*y1 - x1*y0
		a00 += cross
		a10 += cross * (x0 + x1)
		a01 += cross * (y0 + y1)

		prev = p
	}

	if math.Abs(a00) <= minMomentArea {
		return Moments{}
	}

	half, sixth := 0.5, 1.0/6.0
	if a00 < 0 {
		half, sixth = -half, -sixth
	}
	return Moments{
		M00: a00 * half,
		M10: a10 * sixth,
		M01: a01 * sixth,
	}
}

// Centroid returns the area-weighted centroid (M10/M00, M01/M00).
// ok is false when the enclosed area is zero and the centroid is undefined.
func (m Moments) Centroid() (cx, cy float64, ok bool) {
	if m.M00 == 0 {
		return 0, 0, false
	}
	return m.M10 / m.M00, m.M01 / m.M00, true
}
