// Package image provides image loading and saving for the simulation.
// Frames are held as 8-bit, 3-channel BGR gocv Mats end to end.
package image

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load reads the image at path and returns it as a BGR Mat. OpenCV decodes
// the file and drops any alpha channel. Files OpenCV cannot decode fall back
// to the Go decoders registered in this package.
// The caller owns the returned Mat and must Close it.
func Load(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return gocv.NewMat(), errors.Wrapf(ErrFileNotFound, "%s", path)
		}
		return gocv.NewMat(), errors.Wrap(err, "failed to stat image")
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	return decode(path)
}

func decode(path string) (gocv.Mat, error) {
	file, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "failed to open image")
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return gocv.NewMat(), errors.Wrapf(ErrUnreadable, "%s: %v", path, err)
	}
	return ToMat(img)
}

// ToMat converts a Go image to a BGR Mat. Alpha is discarded without
// premultiplying, as OpenCV does when reading in color mode.
func ToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return gocv.NewMat(), errors.Wrap(ErrUnreadable, "image has no pixels")
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*bounds.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	mat, err := gocv.NewMatFromBytes(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC4, nrgba.Pix)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "failed to create mat")
	}
	defer mat.Close()

	// OpenCV expects BGR ordering
	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// Save writes a Mat to path. The format is chosen from the file extension.
func Save(path string, mat gocv.Mat) error {
	if mat.Empty() {
		return errors.New("refusing to save an empty image")
	}
	if !IsWritableFormat(path) {
		return errors.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}
	if !gocv.IMWrite(path, mat) {
		return errors.Errorf("failed to write image %s", path)
	}
	return nil
}

// SupportedFormats returns the list of formats Load can decode.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg", ".bmp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// IsWritableFormat checks if the given path has an extension the encoder
// accepts. OpenCV writes every format Load reads.
func IsWritableFormat(path string) bool {
	return IsSupportedFormat(path)
}
