package templating

import (
	"fmt"
	"sort"
	"text/template"
	"text/template/parse"

	"github.com/rs/zerolog/log"
)

// Crawler lists the containers a template needs, following constant extends
// and include calls into other stored templates.
type Crawler struct {
	loader Loader
	parser *parser
	opts   options
}

// NewCrawler returns a crawler loading templates through loader.
func NewCrawler(loader Loader, opts ...Option) *Crawler {
	o := newOptions(opts)

	return &Crawler{
		loader: loader,
		parser: &parser{cache: newCache[*template.Template](o.cache)},
		opts:   o,
	}
}

type crawl struct {
	names   map[string]struct{}
	visited map[string]struct{}
}

// Containers returns the sorted, distinct container names used by the
// template name and every template it statically extends or includes.
//
// Calls with a non-constant argument are skipped. A failure inside one node,
// such as a missing included template, drops only that node's contribution.
// Only loading or parsing name itself can fail the crawl.
func (c *Crawler) Containers(name string) ([]string, error) {
	src, err := c.loader.Load(name)
	if err != nil {
		return nil, err
	}

	t, err := c.parser.parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", name, err)
	}

	st := &crawl{
		names:   make(map[string]struct{}),
		visited: map[string]struct{}{name: {}},
	}

	c.template(st, t, 0)

	out := make([]string, 0, len(st.names))
	for n := range st.names {
		out = append(out, n)
	}

	sort.Strings(out)

	return out, nil
}

// template walks the body and every define of t.
func (c *Crawler) template(st *crawl, t *template.Template, depth int) {
	for _, sub := range t.Templates() {
		if sub.Tree == nil || sub.Tree.Root == nil {
			continue
		}

		c.list(st, sub.Tree.Root, depth)
	}
}

func (c *Crawler) list(st *crawl, list *parse.ListNode, depth int) {
	if list == nil {
		return
	}

	for _, node := range list.Nodes {
		c.node(st, node, depth)
	}
}

func (c *Crawler) node(st *crawl, node parse.Node, depth int) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Str("node", node.String()).Msg("container crawl skipped node")
		}
	}()

	pipes, lists := children(node)

	for _, pipe := range pipes {
		for _, cmd := range commands(pipe) {
			c.command(st, cmd, depth)
		}
	}

	for _, l := range lists {
		c.list(st, l, depth)
	}
}

func (c *Crawler) command(st *crawl, cmd *parse.CommandNode, depth int) {
	fc, ok := callOf(cmd)
	if !ok {
		return
	}

	if fc.fn == FuncContainer {
		st.names[fc.arg] = struct{}{}
		return
	}

	if err := c.follow(st, fc.arg, depth+1); err != nil {
		log.Debug().Err(err).Str("template", fc.arg).Str("call", fc.fn).Msg("container crawl skipped template")
	}
}

// follow crawls the stored template name once per crawl.
func (c *Crawler) follow(st *crawl, name string, depth int) error {
	if _, seen := st.visited[name]; seen {
		return nil
	}

	if depth > c.opts.maxDepth {
		return fmt.Errorf("%w: %q at depth %d", ErrTooDeep, name, depth)
	}

	st.visited[name] = struct{}{}

	src, err := c.loader.Load(name)
	if err != nil {
		return err
	}

	t, err := c.parser.parse(src)
	if err != nil {
		return fmt.Errorf("parse %q: %w", name, err)
	}

	c.template(st, t, depth)

	return nil
}
