package image

import "github.com/pkg/errors"

var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("image file not found")

	// ErrUnreadable is returned when the file exists but cannot be decoded.
	ErrUnreadable = errors.New("image could not be decoded")
)
