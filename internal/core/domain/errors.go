package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")

// ValidationError rejects a candidate record before it is submitted anywhere.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
