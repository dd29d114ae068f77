package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.url is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrDBHostEmpty error if a network database engine has no host.
	ErrDBHostEmpty = errors.New("config db.host can not be empty for mysql and postgres")

	// ErrDBPathEmpty error if sqlite has no database file.
	ErrDBPathEmpty = errors.New("config db.path can not be empty for sqlite")
)
