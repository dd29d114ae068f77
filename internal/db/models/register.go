package models

import "github.com/gophilo/gophilo/internal/contenttype"

// NewRegistry returns a content type registry holding every model that
// attribute values may reference.
func NewRegistry() *contenttype.Registry {
	r := contenttype.NewRegistry()

	contenttype.Register[User](r)
	contenttype.Register[Group](r)
	contenttype.Register[Site](r)
	contenttype.Register[Tag](r)
	contenttype.Register[Template](r)
	contenttype.Register[Page](r)

	return r
}
