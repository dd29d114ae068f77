package cms

import "errors"

var (
	// ErrDBNil is returned when the core is built without a database.
	ErrDBNil = errors.New("database is nil")
	// ErrSiteNotFound is returned when no site serves a host and no default site is configured.
	ErrSiteNotFound = errors.New("site not found")
	// ErrContentletNameEmpty is returned when a contentlet has no name.
	ErrContentletNameEmpty = errors.New("contentlet name is empty")
)
