package store

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUpdate reports a zero Update or an Updater with a nil function.
	ErrInvalidUpdate = errors.New("invalid update descriptor")
	// ErrUnknownField reports a Fields key with no matching field.
	ErrUnknownField = errors.New("unknown field")
	// ErrFieldType reports a Fields value that cannot be assigned to its field.
	ErrFieldType = errors.New("field type mismatch")
	// ErrNotComposite reports a Patch applied to a value that has no fields.
	ErrNotComposite = errors.New("value is not composite")
)

// UpdateError is the panic value raised by Set for a descriptor that cannot
// be applied. The store is left unchanged.
type UpdateError struct {
	Kind  string
	Field string
	Err   error
}

func (e *UpdateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("store: %s update: field %q: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("store: %s update: %v", e.Kind, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}
