package contenttype

import "errors"

var (
	// ErrNotRegistered is returned when a type is not in the registry.
	ErrNotRegistered = errors.New("content type not registered")
	// ErrObjectNotFound is returned when a referenced object does not exist.
	ErrObjectNotFound = errors.New("referenced object not found")
	// ErrUnsavedObject is returned when an object without primary key is referenced.
	ErrUnsavedObject = errors.New("referenced object has no id")
)
