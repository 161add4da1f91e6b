package salesinvoice

import (
	"errors"
	"fmt"
)

var (
	// ErrNotWellFormed is returned when the input cannot be parsed as XML at all.
	ErrNotWellFormed = errors.New("input is not well-formed XML")

	// ErrWrongRootElement is returned when the document parses but its root
	// element's local name is not the expected source tag.
	ErrWrongRootElement = errors.New("unexpected root element")
)

// FormatError marks a per-file fatal condition: the input is not a
// SalesInvoicePrint document the pipeline can process. Files failing with a
// FormatError are routed to quarantine; anything softer (a missing optional
// field) is silently defaulted and never surfaces as an error.
type FormatError struct {
	// Op is the operation that failed (e.g., "Normalize").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context, such as the offending root tag.
	Details string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("salesinvoice: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("salesinvoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *FormatError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFormatError creates a FormatError for the given operation.
func NewFormatError(op string, err error, details string) *FormatError {
	return &FormatError{Op: op, Err: err, Details: details}
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
