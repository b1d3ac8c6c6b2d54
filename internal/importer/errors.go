// Package importer drives source documents through normalization, court
// resolution, matching, reconciliation and persistence.
package importer

import (
	"fmt"
	"strings"
)

// AmbiguousMatchError is reported when a document matches more than one
// existing cluster. Nothing is merged; the document is queued for review.
type AmbiguousMatchError struct {
	Key        string
	Candidates []int64
}

func (e *AmbiguousMatchError) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, id := range e.Candidates {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("ambiguous match for %s: clusters %s", e.Key, strings.Join(ids, ", "))
}

// ImportError represents a failure to process one document
type ImportError struct {
	Key     string
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import error: %s: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("import error: %s: %s", e.Key, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}
