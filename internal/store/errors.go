package store

import (
	"errors"
	"fmt"
)

// ErrNotFound marks operations targeting a job or server ID (or parameter
// key) that does not exist. Always wrapped with the offending ID.
var ErrNotFound = errors.New("does not exist")

// ValidationError reports a rejected server field. Validation runs before
// persistence, so a rejected input never partially writes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
