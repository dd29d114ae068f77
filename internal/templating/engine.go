package templating

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"github.com/gophilo/gophilo/internal/attribute"
	"github.com/gophilo/gophilo/internal/db/models"
)

// Context is the dot of a rendered page template.
type Context struct {
	// Page is the rendered page.
	Page *models.Page
	// Contentlets fill the containers by name.
	Contentlets map[string]*models.Contentlet
	// Attributes is the page attribute mapping, including inherited keys.
	Attributes attribute.Mapping
	// Data carries request values such as the unmatched path remainder.
	Data map[string]any
}

// NewContext returns the render context of page.
func NewContext(page *models.Page, contentlets []models.Contentlet, attrs attribute.Mapping) *Context {
	ctx := &Context{
		Page:        page,
		Contentlets: make(map[string]*models.Contentlet, len(contentlets)),
		Attributes:  attrs,
		Data:        make(map[string]any),
	}

	for i := range contentlets {
		ctx.Contentlets[contentlets[i].Name] = &contentlets[i]
	}

	return ctx
}

// Engine renders stored templates as HTML.
type Engine struct {
	loader Loader
	parser *parser
	sets   *cache[*template.Template]
	opts   options
}

type compiled struct {
	set  *template.Template
	root string
}

// NewEngine returns an engine loading templates through loader.
func NewEngine(loader Loader, opts ...Option) *Engine {
	o := newOptions(opts)

	return &Engine{
		loader: loader,
		parser: &parser{cache: newCache[*texttemplate.Template](o.cache)},
		sets:   newCache[*template.Template](o.cache),
		opts:   o,
	}
}

// Render executes the template name with ctx as dot and writes the result to w.
//
// If name extends another template with a constant path, the chain is
// compiled into one set, root template first, so that the defines of each
// descendant replace the blocks of its ancestors. The root is executed.
func (e *Engine) Render(w io.Writer, name string, ctx *Context) error {
	return e.render(w, name, ctx, 0)
}

func (e *Engine) render(w io.Writer, name string, ctx *Context, depth int) error {
	c, err := e.compile(name)
	if err != nil {
		return err
	}

	t, err := c.set.Clone()
	if err != nil {
		return fmt.Errorf("clone %q: %w", name, err)
	}

	t.Funcs(e.funcs(ctx, depth))

	if err = t.ExecuteTemplate(w, c.root, ctx); err != nil {
		return fmt.Errorf("render %q: %w", name, err)
	}

	return nil
}

func (e *Engine) compile(name string) (*compiled, error) {
	chain, err := e.chain(name)
	if err != nil {
		return nil, err
	}

	versions := make([]string, len(chain))
	for i, src := range chain {
		versions[i] = src.Name + "=" + src.Version
	}

	version := strings.Join(versions, "\x00")
	root := chain[len(chain)-1]

	if set, ok := e.sets.get(name, version); ok {
		return &compiled{set: set, root: root.Name}, nil
	}

	set, err := template.New(root.Name).Funcs(template.FuncMap(stubFuncs())).Parse(root.Code)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", root.Name, err)
	}

	for i := len(chain) - 2; i >= 0; i-- {
		if _, err = set.New(chain[i].Name).Parse(chain[i].Code); err != nil {
			return nil, fmt.Errorf("parse %q: %w", chain[i].Name, err)
		}
	}

	e.sets.put(name, version, set)

	return &compiled{set: set, root: root.Name}, nil
}

// chain returns name followed by the templates it extends, nearest first.
func (e *Engine) chain(name string) ([]*Source, error) {
	var (
		chain []*Source
		seen  = make(map[string]struct{})
	)

	for cur := name; ; {
		if _, ok := seen[cur]; ok {
			return nil, fmt.Errorf("%w: %q", ErrRecursiveExtends, cur)
		}

		if len(chain) >= e.opts.maxDepth {
			return nil, fmt.Errorf("%w: extends chain of %q", ErrTooDeep, name)
		}

		seen[cur] = struct{}{}

		src, err := e.loader.Load(cur)
		if err != nil {
			return nil, err
		}

		t, err := e.parser.parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", cur, err)
		}

		chain = append(chain, src)

		parent, ok := extendsOf(t)
		if !ok {
			return chain, nil
		}

		cur = parent
	}
}

func (e *Engine) funcs(ctx *Context, depth int) template.FuncMap {
	return template.FuncMap{
		FuncContainer: func(name string) (template.HTML, error) {
			return e.container(ctx, name, depth)
		},
		FuncExtends: func(string) string { return "" },
		FuncInclude: func(name string, data ...any) (template.HTML, error) {
			if depth+1 > e.opts.maxDepth {
				return "", fmt.Errorf("%w: include %q", ErrTooDeep, name)
			}

			sub := ctx
			if len(data) > 0 {
				if c, ok := data[0].(*Context); ok {
					sub = c
				}
			}

			var buf bytes.Buffer
			if err := e.render(&buf, name, sub, depth+1); err != nil {
				return "", err
			}

			return template.HTML(buf.String()), nil //nolint:gosec
		},
		FuncAttr: func(key string) (any, error) {
			if ctx == nil || ctx.Attributes == nil {
				return nil, nil
			}

			v, err := ctx.Attributes.Get(key)
			if errors.Is(err, attribute.ErrKeyNotFound) {
				return nil, nil
			}

			return v, err
		},
		FuncMarkdown: Markdown,
	}
}

// container renders the contentlet filling name. Missing contentlets render empty.
func (e *Engine) container(ctx *Context, name string, depth int) (template.HTML, error) {
	if ctx == nil {
		return "", nil
	}

	cl, ok := ctx.Contentlets[name]
	if !ok {
		return "", nil
	}

	if cl.Dynamic {
		if depth+1 > e.opts.maxDepth {
			return "", fmt.Errorf("%w: container %q", ErrTooDeep, name)
		}

		t, err := template.New("contentlet:" + name).Funcs(e.funcs(ctx, depth+1)).Parse(cl.Content)
		if err != nil {
			return "", fmt.Errorf("parse contentlet %q: %w", name, err)
		}

		var buf bytes.Buffer
		if err = t.Execute(&buf, ctx); err != nil {
			return "", fmt.Errorf("render contentlet %q: %w", name, err)
		}

		return template.HTML(buf.String()), nil //nolint:gosec
	}

	if cl.Format == models.ContentletFormatMarkdown {
		return Markdown(cl.Content)
	}

	return template.HTML(cl.Content), nil //nolint:gosec
}
