// Package markup normalizes legal-document markup (case-law casebody XML and
// opinion HTML) into plain text and structured fields.
package markup

import "fmt"

// MalformedMarkupError is returned when a document lacks the structure the
// parser requires, such as a casebody with no opinion blocks.
type MalformedMarkupError struct {
	Message string
	Cause   error
}

func (e *MalformedMarkupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed markup: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed markup: %s", e.Message)
}

func (e *MalformedMarkupError) Unwrap() error {
	return e.Cause
}

// DateError represents a decision date that cannot be parsed at any granularity
type DateError struct {
	Value   string
	Message string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("date error: %s: %q", e.Message, e.Value)
}
