// Package segment separates bright foreground regions from the background.
package segment

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"surgery-sim/pkg/colorutil"
)

// DefaultThreshold is the gray level a pixel must exceed to count as foreground.
const DefaultThreshold = 100

// ErrInvalidInput is returned when a frame is empty or has an unexpected layout.
var ErrInvalidInput = errors.New("invalid input buffer")

// Segmenter converts a color frame into a binary foreground mask.
//
// Intensity is the BT.601 luma (0.299 R + 0.587 G + 0.114 B) computed by
// OpenCV's BGR2GRAY conversion. A pixel is foreground (255) when its
// intensity is strictly greater than Threshold and background (0) otherwise.
type Segmenter struct {
	Threshold uint8
}

// New creates a Segmenter with the given threshold.
func New(threshold uint8) *Segmenter {
	return &Segmenter{Threshold: threshold}
}

// Segment returns a single-channel 8-bit mask with the same size as frame.
// The caller owns the returned Mat.
func (s *Segmenter) Segment(frame gocv.Mat) (gocv.Mat, error) {
	if frame.Empty() || frame.Rows() == 0 || frame.Cols() == 0 {
		return gocv.NewMat(), errors.Wrap(ErrInvalidInput, "empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()

	switch frame.Type() {
	case gocv.MatTypeCV8UC3:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	case gocv.MatTypeCV8UC4:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRAToGray)
	case gocv.MatTypeCV8UC1:
		frame.CopyTo(&gray)
	default:
		return gocv.NewMat(), errors.Wrapf(ErrInvalidInput, "unsupported mat type %v", frame.Type())
	}

	mask := gocv.NewMat()
	gocv.Threshold(gray, &mask, float32(s.Threshold), 255, gocv.ThresholdBinary)
	return mask, nil
}

// IsForeground classifies a single RGB pixel with the same rule Segment
// applies to whole frames.
func (s *Segmenter) IsForeground(r, g, b uint8) bool {
	return colorutil.Luminance(r, g, b) > s.Threshold
}
