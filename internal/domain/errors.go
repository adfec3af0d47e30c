package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation         = errors.New("validation failed")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidCostKind    = errors.New("invalid cost kind")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrInvalidMonth       = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidRange       = errors.New("invalid range")
	ErrInvalidWindow      = errors.New("invalid savings window")
	ErrUnknownAssumption  = errors.New("unknown assumption")
	ErrSeriesOutOfOrder   = errors.New("series is not in chronological order")
	ErrSeriesDuplicate    = errors.New("series contains a month twice")
	ErrSeriesGap          = errors.New("series skips a month")
	ErrNoteMonthDuplicate = errors.New("more than one note for the same month")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)

// Validation constants
const (
	MaxCostNameLength = 255
)

// ValidationError names the field a rejected mutation failed on.
// errors.Is matches both ErrValidation and the wrapped cause.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError wraps err as a validation failure on field
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
