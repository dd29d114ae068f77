package tree

import (
	"fmt"
	"slices"
	"strings"
)

// PathOption configures Path.
type PathOption func(*pathOptions)

type pathOptions struct {
	separator string
	label     bool
}

// WithPathSeparator overrides the resolver separator for one call.
func WithPathSeparator(sep string) PathOption {
	return func(o *pathOptions) {
		o.separator = sep
	}
}

// WithLabel builds the path from node labels instead of slugs.
// Nodes that do not implement Labeled fall back to their slug.
func WithLabel() PathOption {
	return func(o *pathOptions) {
		o.label = true
	}
}

// Path returns the path of node. With a nil root the path starts at the
// forest root. Otherwise root itself is left out and must be node or one of
// its ancestors, or ErrAncestorNotFound is returned before anything is built.
func (r *Resolver[T, PT]) Path(node, root PT, opts ...PathOption) (string, error) {
	o := pathOptions{separator: r.opts.separator}
	for _, opt := range opts {
		opt(&o)
	}

	if root != nil {
		ok, err := r.HasAncestor(node, root)
		if err != nil {
			return "", err
		}

		if !ok {
			return "", fmt.Errorf("%w: %d is not above %d", ErrAncestorNotFound, root.NodeID(), node.NodeID())
		}
	}

	ancestors, err := r.Ancestors(node)
	if err != nil {
		return "", err
	}

	chain := append([]PT{node}, ancestors...)
	parts := make([]string, 0, len(chain))

	for _, n := range chain {
		if root != nil && n.NodeID() == root.NodeID() {
			break
		}

		parts = append(parts, segment(n, o.label))
	}

	slices.Reverse(parts)

	return strings.Join(parts, o.separator), nil
}

func segment(n Node, label bool) string {
	if l, ok := n.(Labeled); ok && label {
		return l.NodeLabel()
	}

	return n.NodeSlug()
}
