package surgery

import "github.com/pkg/errors"

// ErrNoTargetFound marks a run that ended because nothing was detected.
// It is reported through Result.Outcome and is not a failure.
var ErrNoTargetFound = errors.New("no tumor detected")
