package render

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"surgery-sim/internal/contour"
	"surgery-sim/internal/target"
	"surgery-sim/pkg/geometry"
)

func blankFrame(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func squareContour(x, y, size int) contour.Contour {
	return contour.Contour{Points: []image.Point{{x, y}, {x, y + size}, {x + size, y + size}, {x + size, y}}}
}

func TestSideBySideDimensions(t *testing.T) {
	before := blankFrame(100, 80)
	defer before.Close()
	after := blankFrame(100, 60)
	defer after.Close()

	combined, err := New(DefaultRemovalRadius).SideBySide(before, after)
	require.NoError(t, err)
	defer combined.Close()

	assert.Equal(t, 100, combined.Rows())
	assert.Equal(t, 140, combined.Cols())
	assert.Equal(t, gocv.MatTypeCV8UC3, combined.Type())
}

func TestSideBySideBurnsLabels(t *testing.T) {
	before := blankFrame(60, 120)
	defer before.Close()
	after := blankFrame(60, 120)
	defer after.Close()

	combined, err := New(DefaultRemovalRadius).SideBySide(before, after)
	require.NoError(t, err)
	defer combined.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(combined, &gray, gocv.ColorBGRToGray)

	for _, r := range []image.Rectangle{image.Rect(15, 5, 115, 40), image.Rect(135, 5, 235, 40)} {
		label := gray.Region(r)
		assert.Greater(t, gocv.CountNonZero(label), 0, "no label text in %v", r)
		label.Close()
	}
	assert.Equal(t, 0, gocv.CountNonZero(gray.Region(image.Rect(0, 45, 240, 60))))
}

func TestSideBySideHeightMismatch(t *testing.T) {
	before := blankFrame(100, 80)
	defer before.Close()
	after := blankFrame(99, 80)
	defer after.Close()

	combined, err := New(DefaultRemovalRadius).SideBySide(before, after)
	defer combined.Close()

	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.True(t, combined.Empty())
}

func TestAnnotateTargetingLeavesSourceIntact(t *testing.T) {
	frame := blankFrame(120, 160)
	defer frame.Close()
	original := frame.ToBytes()

	box := geometry.NewRectInt(60, 40, 30, 30)
	left, right := target.New(target.DefaultArrowOffset).Arrows(image.Pt(5, 100), box)

	annotated := New(DefaultRemovalRadius).AnnotateTargeting(frame, box, left, right)
	defer annotated.Close()

	assert.Equal(t, original, frame.ToBytes())
	assert.NotEqual(t, original, annotated.ToBytes())
	assert.Equal(t, gocv.Vecb{255, 0, 0}, annotated.GetVecbAt(40, 60), "box corner should be blue")

	// Writing to the result must not reach the source
	annotated.SetTo(gocv.NewScalar(9, 9, 9, 0))
	assert.Equal(t, original, frame.ToBytes())
}

func TestHighlightDetection(t *testing.T) {
	frame := blankFrame(50, 50)
	defer frame.Close()

	out := New(DefaultRemovalRadius).HighlightDetection(frame, squareContour(10, 10, 20))
	defer out.Close()

	assert.Equal(t, gocv.Vecb{255, 0, 255}, out.GetVecbAt(10, 20))
	assert.Equal(t, gocv.Vecb{0, 0, 0}, out.GetVecbAt(20, 20))
	assert.Equal(t, 0, gocv.CountNonZero(grayOf(t, frame)))
}

func TestMarkRemoved(t *testing.T) {
	frame := blankFrame(100, 100)
	defer frame.Close()

	out, err := New(DefaultRemovalRadius).MarkRemoved(frame, squareContour(30, 30, 40))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, gocv.Vecb{128, 128, 128}, out.GetVecbAt(50, 50))
	assert.Equal(t, gocv.Vecb{128, 128, 128}, out.GetVecbAt(50, 69))
	assert.Equal(t, gocv.Vecb{0, 0, 0}, out.GetVecbAt(50, 72))
	assert.Equal(t, 0, gocv.CountNonZero(grayOf(t, frame)))
}

func TestMarkRemovedDegenerate(t *testing.T) {
	frame := blankFrame(20, 20)
	defer frame.Close()

	line := contour.Contour{Points: []image.Point{{2, 2}, {12, 2}}}
	out, err := New(DefaultRemovalRadius).MarkRemoved(frame, line)
	defer out.Close()

	assert.True(t, errors.Is(err, target.ErrDegenerateGeometry))
	assert.True(t, out.Empty())
}

func TestAnnotateRemoval(t *testing.T) {
	frame := blankFrame(80, 80)
	defer frame.Close()

	region := squareContour(20, 20, 30)
	out := New(DefaultRemovalRadius).AnnotateRemoval(frame, region, region.Bounds())
	defer out.Close()

	assert.Equal(t, gocv.Vecb{0, 255, 0}, out.GetVecbAt(20, 35))
	assert.Equal(t, gocv.Vecb{0, 0, 0}, out.GetVecbAt(35, 35))
}

func grayOf(t *testing.T, frame gocv.Mat) gocv.Mat {
	t.Helper()
	gray := gocv.NewMat()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	t.Cleanup(func() { gray.Close() })
	return gray
}
