package cms

import "github.com/gophilo/gophilo/internal/tree"

// Option configures a Core.
type Option func(*options)

type options struct {
	separator   string
	maxDepth    int
	cache       bool
	defaultSite string
}

func newOptions(opts []Option) options {
	o := options{
		separator: tree.DefaultSeparator,
		maxDepth:  tree.DefaultMaxDepth,
		cache:     true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithSeparator sets the path separator of the page and template trees.
func WithSeparator(sep string) Option {
	return func(o *options) {
		if sep != "" {
			o.separator = sep
		}
	}
}

// WithMaxDepth caps tree depth and template nesting.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithTemplateCache toggles the compiled template cache.
func WithTemplateCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// WithDefaultSite names the site domain served for unknown hosts.
func WithDefaultSite(domain string) Option {
	return func(o *options) {
		o.defaultSite = domain
	}
}
