package target

import "github.com/pkg/errors"

// ErrDegenerateGeometry is returned when a centroid is requested for a
// contour that encloses no area.
var ErrDegenerateGeometry = errors.New("degenerate geometry: contour has zero area")
