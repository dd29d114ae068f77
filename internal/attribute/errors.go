package attribute

import "errors"

var (
	// ErrKeyNotFound is returned when an owner has no attribute with the key.
	ErrKeyNotFound = errors.New("attribute key not found")
	// ErrKeyEmpty is returned when staging an attribute without key.
	ErrKeyEmpty = errors.New("attribute key cannot be empty")
	// ErrUnsavedOwner is returned when the owning entity has no id yet.
	ErrUnsavedOwner = errors.New("attribute owner has no id")
	// ErrWrongOwner is returned when a schema is applied to another entity type.
	ErrWrongOwner = errors.New("schema does not apply to owner")
)
