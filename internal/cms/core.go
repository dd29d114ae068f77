// Package cms assembles the content core: the type registry, the value and
// attribute stores, the page and template trees, the container crawler and
// the page renderer.
package cms

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gophilo/gophilo/internal/attribute"
	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/templating"
	"github.com/gophilo/gophilo/internal/tree"
	"github.com/gophilo/gophilo/internal/value"
)

const (
	domainQueryPattern = "domain = ?"
	pageQueryPattern   = "page_id = ?"
)

// Pages resolves pages by slug path.
type Pages = tree.Resolver[models.Page, *models.Page]

// Templates resolves templates by slug path.
type Templates = tree.Resolver[models.Template, *models.Template]

// Core holds the wired content services. It is safe for concurrent use.
type Core struct {
	db         *gorm.DB
	registry   *contenttype.Registry
	values     *value.Store
	attributes *attribute.Store
	pages      *Pages
	templates  *Templates
	crawler    *templating.Crawler
	engine     *templating.Engine
	opts       options
}

// New returns a core over db. A nil registry selects models.NewRegistry.
func New(db *gorm.DB, reg *contenttype.Registry, opts ...Option) (*Core, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if reg == nil {
		reg = models.NewRegistry()
	}

	o := newOptions(opts)
	treeOpts := []tree.Option{tree.WithSeparator(o.separator), tree.WithMaxDepth(o.maxDepth)}
	tplOpts := []templating.Option{templating.WithMaxDepth(o.maxDepth), templating.WithCache(o.cache)}

	values := value.NewStore(db, reg)
	templates := tree.New[models.Template](db, treeOpts...)
	loader := templating.NewDBLoader(templates)

	return &Core{
		db:         db,
		registry:   reg,
		values:     values,
		attributes: attribute.NewStore(db, values),
		pages:      tree.New[models.Page](db, treeOpts...),
		templates:  templates,
		crawler:    templating.NewCrawler(loader, tplOpts...),
		engine:     templating.NewEngine(loader, tplOpts...),
		opts:       o,
	}, nil
}

// DB returns the database handle.
func (c *Core) DB() *gorm.DB { return c.db }

// Registry returns the content type registry.
func (c *Core) Registry() *contenttype.Registry { return c.registry }

// Attributes returns the attribute store.
func (c *Core) Attributes() *attribute.Store { return c.attributes }

// Pages returns the page resolver.
func (c *Core) Pages() *Pages { return c.pages }

// Templates returns the template resolver.
func (c *Core) Templates() *Templates { return c.templates }

// Crawler returns the container crawler.
func (c *Core) Crawler() *templating.Crawler { return c.crawler }

// Separator returns the path separator of both trees.
func (c *Core) Separator() string { return c.opts.separator }

// Site returns the site serving host. The port is ignored. Unknown hosts get
// the default site if one is configured.
func (c *Core) Site(host string) (*models.Site, error) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	host = strings.ToLower(host)

	site, err := c.site(host)
	if errors.Is(err, ErrSiteNotFound) && c.opts.defaultSite != "" && c.opts.defaultSite != host {
		return c.site(c.opts.defaultSite)
	}

	return site, err
}

func (c *Core) site(domain string) (*models.Site, error) {
	var site models.Site

	if err := c.db.Preload("RootPage").Where(domainQueryPattern, domain).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrSiteNotFound, domain)
		}

		return nil, err
	}

	return &site, nil
}

// Resolve returns the deepest page matching path below the site root and the
// unmatched remainder. A nil site or a site without root page resolves from
// the page forest roots.
func (c *Core) Resolve(site *models.Site, path string) (*models.Page, string, error) {
	var root *models.Page
	if site != nil {
		root = site.RootPage
	}

	if root == nil && len(c.pages.Split(path)) == 0 {
		return nil, "", fmt.Errorf("%w: %q", tree.ErrNotFound, path)
	}

	return c.pages.Partial(path, root)
}

// PageAttributes returns the attributes of page chained over its ancestors.
func (c *Core) PageAttributes(page *models.Page) (attribute.Mapping, error) {
	return attribute.ForNode(c.attributes, c.pages, page)
}

// UpdatePage stages payloads through PageSchema and commits them. A nil
// payload deletes a scalar key and clears a reference field. The commit
// result is returned even when staging some entries failed.
func (c *Core) UpdatePage(page *models.Page, payloads map[string]any) (*attribute.CommitResult, error) {
	changes := c.attributes.Stage(page)

	staged := make(map[string]any, len(payloads))

	for k, v := range payloads {
		if f, declared := PageSchema.Field(k); v == nil && (!declared || f.Kind == value.KindJSON) {
			changes.Delete(k)
			continue
		}

		staged[k] = v
	}

	stageErr := PageSchema.Apply(changes, staged)

	return c.attributes.Commit(changes), stageErr
}

// Contentlets returns the contentlets of page.
func (c *Core) Contentlets(page *models.Page) ([]models.Contentlet, error) {
	var contentlets []models.Contentlet

	if err := c.db.Where(pageQueryPattern, page.ID).Order("name").Find(&contentlets).Error; err != nil {
		return nil, err
	}

	return contentlets, nil
}

// SaveContentlet creates or replaces the contentlet of page named cl.Name.
func (c *Core) SaveContentlet(page *models.Page, cl *models.Contentlet) error {
	if cl.Name == "" {
		return ErrContentletNameEmpty
	}

	if cl.Format == "" {
		cl.Format = models.ContentletFormatHTML
	}

	cl.PageID = page.ID

	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "page_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "dynamic", "format"}),
	}).Create(cl).Error
}

// TemplatePath returns the slug path of the template of page.
func (c *Core) TemplatePath(page *models.Page) (*models.Template, string, error) {
	tpl, err := c.templates.ByID(page.TemplateID)
	if err != nil {
		return nil, "", fmt.Errorf("template of page %d: %w", page.ID, err)
	}

	path, err := c.templates.Path(tpl, nil)
	if err != nil {
		return nil, "", err
	}

	return tpl, path, nil
}

// Containers returns the container names required by the template at path.
func (c *Core) Containers(path string) ([]string, error) {
	return c.crawler.Containers(path)
}

// PageContainers returns the container names required by the template of page.
func (c *Core) PageContainers(page *models.Page) ([]string, error) {
	_, path, err := c.TemplatePath(page)
	if err != nil {
		return nil, err
	}

	return c.crawler.Containers(path)
}

// Render writes page rendered through its template to w and returns the
// template mime type, empty for the default. data is exposed to the template
// as .Data.
func (c *Core) Render(w io.Writer, page *models.Page, data map[string]any) (string, error) {
	tpl, path, err := c.TemplatePath(page)
	if err != nil {
		return "", err
	}

	contentlets, err := c.Contentlets(page)
	if err != nil {
		return "", err
	}

	attrs, err := c.PageAttributes(page)
	if err != nil {
		return "", err
	}

	ctx := templating.NewContext(page, contentlets, attrs)
	for k, v := range data {
		ctx.Data[k] = v
	}

	if err = c.engine.Render(w, path, ctx); err != nil {
		return "", err
	}

	return tpl.MimeType, nil
}
