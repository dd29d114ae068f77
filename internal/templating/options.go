package templating

// DefaultMaxDepth caps extends and include nesting.
const DefaultMaxDepth = 64

// Option configures a Crawler or an Engine.
type Option func(*options)

type options struct {
	maxDepth int
	cache    bool
}

func newOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth, cache: true}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMaxDepth sets the nesting cap. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithCache toggles caching of compiled templates.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}
