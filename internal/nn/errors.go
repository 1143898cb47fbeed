package nn

import (
	"errors"
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Error kinds surfaced by layers. They are raised synchronously at the call
// that detects them (construction, build or forward) and propagate to the
// caller; nothing is retried or swallowed, and no partial tensor is ever
// returned alongside a non-nil error.
var (
	// ErrInvalidPadding reports a reflection padding amount that is negative
	// or too large for the input extent (reflection without edge duplication
	// requires pad <= dim-1).
	ErrInvalidPadding = errors.New("invalid reflection padding")

	// ErrInvalidConfig reports an unsupported option value or a malformed
	// serialized layer configuration.
	ErrInvalidConfig = errors.New("invalid layer config")
)

// ShapeError reports a missing or mismatched dimension: an axis without a
// statically known size at build time, a selector whose length does not match
// the style count, or an input whose rank a layer cannot accept.
type ShapeError struct {
	Op     string       // operation or layer that detected the problem
	Detail string       // human-readable description
	Shape  tensor.Shape // offending shape, when one exists
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Shape != nil {
		return fmt.Sprintf("%s: %s (shape %v)", e.Op, e.Detail, e.Shape)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func shapeErrorf(op string, shape tensor.Shape, format string, args ...any) error {
	return &ShapeError{Op: op, Detail: fmt.Sprintf(format, args...), Shape: shape}
}
