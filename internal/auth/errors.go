package auth

import "errors"

var (
	// ErrDBNil is returned when a provider is created without database.
	ErrDBNil = errors.New("auth: db is nil")

	// ErrUserNameEmpty is returned when a user without username is created.
	ErrUserNameEmpty = errors.New("username cannot be empty")

	// ErrPasswordEmpty is returned when a user without password is created.
	ErrPasswordEmpty = errors.New("password cannot be empty")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
)
