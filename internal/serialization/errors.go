package serialization

import (
	"errors"
	"fmt"
)

// Sentinel errors for checkpoint reading and validation.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes, not a .stn file")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header size exceeds limit")
	ErrChecksumMismatch   = errors.New("checksum mismatch, file may be corrupted")
	ErrUnsupportedDType   = errors.New("unsupported tensor dtype")
	ErrTensorNotFound     = errors.New("tensor not found in checkpoint")
)

// ValidationError reports a structural problem found while validating a
// checkpoint header against the file's data section.
type ValidationError struct {
	Tensor string // offending tensor name, empty for file-level problems
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Tensor == "" {
		return fmt.Sprintf("checkpoint validation: %s", e.Detail)
	}
	return fmt.Sprintf("checkpoint validation: tensor %q: %s", e.Tensor, e.Detail)
}

func validationErrorf(tensor, format string, args ...any) *ValidationError {
	return &ValidationError{Tensor: tensor, Detail: fmt.Sprintf(format, args...)}
}
