// Package courts resolves free-text court names to canonical court codes.
package courts

import "fmt"

// RegistryError represents a failure loading or compiling the court tables
type RegistryError struct {
	Message string
	Cause   error
}

func (e *RegistryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("court registry error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("court registry error: %s", e.Message)
}

func (e *RegistryError) Unwrap() error {
	return e.Cause
}
