// Package tree resolves slug paths over parent-pointer models.
//
// Any gorm model with a nullable parent_id column and a slug column unique
// among siblings can be walked by a Resolver. Walks are iterative and capped
// by a maximum depth.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultSeparator separates slugs in a path.
	DefaultSeparator = "/"
	// DefaultMaxDepth caps ancestor walks and path lengths.
	DefaultMaxDepth = 64

	rootQueryPattern     = "parent_id IS NULL"
	childQueryPattern    = "parent_id = ?"
	childrenQueryPattern = "parent_id IN ?"
	slugQueryPattern     = "slug = ?"
)

// Node is a model that takes part in a single-parent hierarchy.
type Node interface {
	NodeID() uint
	NodeParentID() *uint
	NodeSlug() string
}

// NodePtr constrains a pointer to the model T.
type NodePtr[T any] interface {
	*T
	Node
	SetNodeParentID(id *uint)
}

// Labeled is a node with a display label.
type Labeled interface {
	NodeLabel() string
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	separator string
	maxDepth  int
}

// WithSeparator sets the path separator. Empty values are ignored.
func WithSeparator(sep string) Option {
	return func(o *options) {
		if sep != "" {
			o.separator = sep
		}
	}
}

// WithMaxDepth sets the depth cap. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// Resolver finds nodes of the model T by slug path.
type Resolver[T any, PT NodePtr[T]] struct {
	db   *gorm.DB
	opts options
}

// New returns a Resolver for the model T.
func New[T any, PT NodePtr[T]](db *gorm.DB, opts ...Option) *Resolver[T, PT] {
	o := options{
		separator: DefaultSeparator,
		maxDepth:  DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return &Resolver[T, PT]{db: db, opts: o}
}

// WithDB returns a copy of the resolver bound to db, e.g. a transaction.
func (r *Resolver[T, PT]) WithDB(db *gorm.DB) *Resolver[T, PT] {
	return &Resolver[T, PT]{db: db, opts: r.opts}
}

// Separator returns the path separator.
func (r *Resolver[T, PT]) Separator() string {
	return r.opts.separator
}

// MaxDepth returns the depth cap.
func (r *Resolver[T, PT]) MaxDepth() int {
	return r.opts.maxDepth
}

// Get returns the node at path below root, or below the forest roots if root
// is nil. Empty segments are ignored.
func (r *Resolver[T, PT]) Get(path string, root PT) (PT, error) {
	node, remainder, err := r.walk(path, root)
	if err != nil {
		return nil, err
	}

	if remainder != "" || node == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	return node, nil
}

// Partial returns the deepest node matching a prefix of path and the
// unmatched rest joined by the separator. The rest is empty on a full match.
// ErrNotFound is returned only if not even the first segment matches and no
// root was given.
func (r *Resolver[T, PT]) Partial(path string, root PT) (PT, string, error) {
	node, remainder, err := r.walk(path, root)
	if err != nil {
		return nil, "", err
	}

	if node == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	return node, remainder, nil
}

func (r *Resolver[T, PT]) walk(path string, root PT) (PT, string, error) {
	segments := r.Split(path)
	if len(segments) > r.opts.maxDepth {
		return nil, "", fmt.Errorf("%w: %d segments", ErrTooDeep, len(segments))
	}

	node := root

	for i, slug := range segments {
		var parentID *uint
		if node != nil {
			id := node.NodeID()
			parentID = &id
		}

		child, err := r.child(parentID, slug)
		if errors.Is(err, ErrNotFound) {
			return node, strings.Join(segments[i:], r.opts.separator), nil
		}

		if err != nil {
			return nil, "", err
		}

		node = child
	}

	return node, "", nil
}

// Split returns the non-empty segments of path.
func (r *Resolver[T, PT]) Split(path string) []string {
	parts := strings.Split(path, r.opts.separator)
	segments := parts[:0]

	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}

	return segments
}

func (r *Resolver[T, PT]) child(parentID *uint, slug string) (PT, error) {
	var node T

	q := r.scope(parentID).Where(slugQueryPattern, slug)
	if err := q.First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
		}

		return nil, err
	}

	return &node, nil
}

func (r *Resolver[T, PT]) scope(parentID *uint) *gorm.DB {
	if parentID == nil {
		return r.db.Where(rootQueryPattern)
	}

	return r.db.Where(childQueryPattern, *parentID)
}

// ByID returns the node with the given id.
func (r *Resolver[T, PT]) ByID(id uint) (PT, error) {
	var node T

	if err := r.db.First(&node, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}

		return nil, err
	}

	return &node, nil
}

// Roots returns all nodes without parent, ordered by slug.
func (r *Resolver[T, PT]) Roots() ([]PT, error) {
	return r.list(nil)
}

// Children returns the direct children of node, ordered by slug.
func (r *Resolver[T, PT]) Children(node PT) ([]PT, error) {
	id := node.NodeID()
	return r.list(&id)
}

func (r *Resolver[T, PT]) list(parentID *uint) ([]PT, error) {
	var rows []T

	if err := r.scope(parentID).Order("slug").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]PT, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}

	return out, nil
}

// Parent returns the parent of node, nil for roots.
func (r *Resolver[T, PT]) Parent(node PT) (PT, error) {
	if node.NodeParentID() == nil {
		return nil, nil
	}

	return r.ByID(*node.NodeParentID())
}

// Ancestors returns the ancestors of node, nearest first.
func (r *Resolver[T, PT]) Ancestors(node PT) ([]PT, error) {
	var (
		out  []PT
		seen = map[uint]struct{}{node.NodeID(): {}}
		next = node.NodeParentID()
	)

	for next != nil {
		if _, ok := seen[*next]; ok {
			return nil, fmt.Errorf("%w: node %d is its own ancestor", ErrCycle, *next)
		}

		if len(out) >= r.opts.maxDepth {
			return nil, fmt.Errorf("%w: more than %d ancestors", ErrTooDeep, r.opts.maxDepth)
		}

		parent, err := r.ByID(*next)
		if err != nil {
			return nil, err
		}

		seen[*next] = struct{}{}
		out = append(out, parent)
		next = parent.NodeParentID()
	}

	return out, nil
}

// HasAncestor reports whether candidate is node or one of its ancestors.
func (r *Resolver[T, PT]) HasAncestor(node, candidate PT) (bool, error) {
	if node.NodeID() == candidate.NodeID() {
		return true, nil
	}

	ancestors, err := r.Ancestors(node)
	if err != nil {
		return false, err
	}

	for _, a := range ancestors {
		if a.NodeID() == candidate.NodeID() {
			return true, nil
		}
	}

	return false, nil
}
