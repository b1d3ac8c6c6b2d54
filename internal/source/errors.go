// Package source reads case-law documents from a directory tree or an S3
// bucket and turns them into source documents for the importer.
package source

import "fmt"

// DocumentError represents a document that could not be read or decoded
type DocumentError struct {
	Key     string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s: %s", e.Key, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
