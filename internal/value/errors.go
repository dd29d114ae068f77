package value

import (
	"errors"
	"fmt"
)

var (
	// ErrSerialization matches every *SerializationError.
	ErrSerialization = errors.New("value cannot be serialized")
	// ErrTypeMismatch is returned when a payload mixes types or does not match a declared target.
	ErrTypeMismatch = errors.New("value type mismatch")
	// ErrMissingValue is returned when an attribute points at no value row.
	ErrMissingValue = errors.New("attribute has no value")
	// ErrUnknownKind is returned for value kinds the store does not handle.
	ErrUnknownKind = errors.New("unknown value kind")
)

// SerializationError reports a scalar payload that cannot be encoded as JSON.
type SerializationError struct {
	// Type is the Go type of the rejected payload.
	Type string
	// Err is the encoder error.
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize %s as json: %v", e.Type, e.Err)
}

// Unwrap returns the encoder error.
func (e *SerializationError) Unwrap() error { return e.Err }

// Is matches ErrSerialization.
func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }
