// Package render draws simulation overlays and builds the before/after
// composite. Every function returns a new Mat and leaves its inputs intact.
package render

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"surgery-sim/internal/contour"
	"surgery-sim/internal/target"
	"surgery-sim/pkg/colorutil"
	"surgery-sim/pkg/geometry"
)

// DefaultRemovalRadius is the radius of the disk painted over the removed region.
const DefaultRemovalRadius = 20

const (
	lineThickness = 2
	labelScale    = 1.0
	labelMarginX  = 20
	labelBaseline = 30
)

// ErrDimensionMismatch is returned when frames that must share a height do not.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Compositor renders annotations onto copies of a frame.
type Compositor struct {
	RemovalRadius int
}

// New creates a Compositor.
func New(removalRadius int) *Compositor {
	return &Compositor{RemovalRadius: removalRadius}
}

// HighlightDetection outlines the detected contour.
func (c *Compositor) HighlightDetection(frame gocv.Mat, region contour.Contour) gocv.Mat {
	dst := frame.Clone()
	drawOutline(&dst, region, colorutil.Detection)
	return dst
}

// AnnotateTargeting draws the target box and both guide arrows.
func (c *Compositor) AnnotateTargeting(frame gocv.Mat, box geometry.RectInt, left, right target.Arrow) gocv.Mat {
	dst := frame.Clone()
	gocv.Rectangle(&dst, box.Rectangle(), colorutil.TargetBox, lineThickness)
	for _, a := range []target.Arrow{left, right} {
		gocv.ArrowedLine(&dst, a.From, a.To, colorutil.GuideArrow, lineThickness)
	}
	return dst
}

// MarkRemoved paints a filled neutral disk over the region's centroid.
func (c *Compositor) MarkRemoved(frame gocv.Mat, region contour.Contour) (gocv.Mat, error) {
	centroid, err := target.Centroid(region)
	if err != nil {
		return gocv.NewMat(), err
	}
	center := target.Geometry{Centroid: centroid}.CentroidPixel()

	dst := frame.Clone()
	gocv.Circle(&dst, center, c.RemovalRadius, colorutil.NeutralTissue, -1)
	return dst, nil
}

// AnnotateRemoval redraws the box and outline in the success color.
func (c *Compositor) AnnotateRemoval(frame gocv.Mat, region contour.Contour, box geometry.RectInt) gocv.Mat {
	dst := frame.Clone()
	gocv.Rectangle(&dst, box.Rectangle(), colorutil.Success, lineThickness)
	drawOutline(&dst, region, colorutil.Success)
	return dst
}

// SideBySide concatenates before and after horizontally and labels each half.
func (c *Compositor) SideBySide(before, after gocv.Mat) (gocv.Mat, error) {
	if before.Empty() || after.Empty() {
		return gocv.NewMat(), errors.Wrap(ErrDimensionMismatch, "empty frame")
	}
	if before.Rows() != after.Rows() {
		return gocv.NewMat(), errors.Wrapf(ErrDimensionMismatch, "heights %d and %d", before.Rows(), after.Rows())
	}
	if before.Type() != after.Type() {
		return gocv.NewMat(), errors.Wrapf(ErrDimensionMismatch, "types %v and %v", before.Type(), after.Type())
	}

	combined := gocv.NewMat()
	gocv.Hconcat(before, after, &combined)

	putLabel(&combined, "Before", image.Pt(labelMarginX, labelBaseline))
	putLabel(&combined, "After", image.Pt(before.Cols()+labelMarginX, labelBaseline))
	return combined, nil
}

func drawOutline(dst *gocv.Mat, region contour.Contour, col color.RGBA) {
	if len(region.Points) == 0 {
		return
	}
	pv := region.PointsVector()
	defer pv.Close()
	gocv.DrawContours(dst, pv, -1, col, lineThickness)
}

func putLabel(dst *gocv.Mat, text string, org image.Point) {
	gocv.PutText(dst, text, org, gocv.FontHersheySimplex, labelScale, colorutil.Label, lineThickness)
}
