package tree

import "errors"

var (
	// ErrNotFound is returned when no node matches a path or id.
	ErrNotFound = errors.New("node not found")
	// ErrAncestorNotFound is returned when a path root is not an ancestor of the node.
	ErrAncestorNotFound = errors.New("root is not an ancestor of node")
	// ErrCycle is returned when a parent assignment or stored data would loop.
	ErrCycle = errors.New("tree cycle")
	// ErrSlugTaken is returned when a sibling already uses the slug.
	ErrSlugTaken = errors.New("slug already used by a sibling")
	// ErrTooDeep is returned when a walk exceeds the configured depth.
	ErrTooDeep = errors.New("tree depth limit exceeded")
	// ErrSlugEmpty is returned when a node without slug is stored.
	ErrSlugEmpty = errors.New("slug cannot be empty")
	// ErrSlugInvalid is returned when a slug contains the path separator.
	ErrSlugInvalid = errors.New("slug contains the path separator")
)
