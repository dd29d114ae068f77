// Package dashboard renders the admin overview of pages, templates, sites
// and content types.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/config"
	ctdb "github.com/gophilo/gophilo/internal/db/controller/contenttype"
	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/tree"
	"github.com/gophilo/gophilo/internal/web/handler"
	"github.com/gophilo/gophilo/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.AdminPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "admin/dashboard"
)

// PageItem is one row of the page tree.
type PageItem struct {
	ID       uint
	Title    string
	Path     string
	Depth    int
	Template string
	Missing  []string
}

// TemplateItem is one row of the template tree.
type TemplateItem struct {
	ID         uint
	Label      string
	Path       string
	Depth      int
	MimeType   string
	Containers []string
	Error      string
}

// ContentTypeItem is a stored content type and whether this process can load it.
type ContentTypeItem struct {
	ID         uint
	Name       string
	Registered bool
}

// Data is the dashboard view model.
type Data struct {
	Pages        []PageItem
	Templates    []TemplateItem
	Sites        []models.Site
	ContentTypes []ContentTypeItem
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	core *cms.Core
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init registers the dashboard route.
func (s *Service) Init(app fiber.Router, cfg *config.Config, core *cms.Core) {
	if app == nil || cfg == nil || core == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.core = core

	app.Get(Path, s.Get)
}

// Get renders the dashboard.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", "admin", "dashboard").
		AddBreadcrumb(s.cfg.Title, handler.RootPath, false).
		AddBreadcrumb("Dashboard", Path, true)

	data, err := s.data()
	if err != nil {
		return err
	}

	log.Debug().
		Int("pages", len(data.Pages)).
		Int("templates", len(data.Templates)).
		Int("sites", len(data.Sites)).
		Msg("dashboard data retrieved")

	return c.Render(TemplateName, fiber.Map{
		"Title":       s.cfg.Title,
		"Navigation":  nav,
		"Data":        data,
		"CurrentUser": c.Locals("CurrentUser"),
	}, handler.BaseLayout)
}

func (s *Service) data() (*Data, error) {
	data := &Data{}

	pageRoots, err := s.core.Pages().Roots()
	if err != nil {
		return nil, err
	}

	if err = walk(s.core.Pages(), pageRoots, 0, func(p *models.Page, depth int) error {
		item, err := s.pageItem(p, depth)
		if err == nil {
			data.Pages = append(data.Pages, item)
		}

		return err
	}); err != nil {
		return nil, err
	}

	tplRoots, err := s.core.Templates().Roots()
	if err != nil {
		return nil, err
	}

	if err = walk(s.core.Templates(), tplRoots, 0, func(t *models.Template, depth int) error {
		item, err := s.templateItem(t, depth)
		if err == nil {
			data.Templates = append(data.Templates, item)
		}

		return err
	}); err != nil {
		return nil, err
	}

	if err = s.core.DB().Preload("RootPage").Order("domain").Find(&data.Sites).Error; err != nil {
		return nil, err
	}

	types, err := ctdb.GetAll(s.core.DB())
	if err != nil {
		return nil, err
	}

	for _, ct := range types {
		data.ContentTypes = append(data.ContentTypes, ContentTypeItem{
			ID:         ct.ID,
			Name:       ct.Name,
			Registered: s.core.Registry().IsRegistered(ct.Name),
		})
	}

	return data, nil
}

func (s *Service) pageItem(p *models.Page, depth int) (PageItem, error) {
	path, err := s.core.Pages().Path(p, nil)
	if err != nil {
		return PageItem{}, err
	}

	_, tplPath, err := s.core.TemplatePath(p)
	if err != nil {
		return PageItem{}, err
	}

	item := PageItem{ID: p.ID, Title: p.Title, Path: path, Depth: depth, Template: tplPath}

	containers, err := s.core.Containers(tplPath)
	if err != nil {
		return PageItem{}, err
	}

	contentlets, err := s.core.Contentlets(p)
	if err != nil {
		return PageItem{}, err
	}

	filled := make(map[string]bool, len(contentlets))
	for _, cl := range contentlets {
		filled[cl.Name] = true
	}

	for _, name := range containers {
		if !filled[name] {
			item.Missing = append(item.Missing, name)
		}
	}

	return item, nil
}

// templateItem reports crawl failures on the item instead of failing the view.
func (s *Service) templateItem(t *models.Template, depth int) (TemplateItem, error) {
	path, err := s.core.Templates().Path(t, nil)
	if err != nil {
		return TemplateItem{}, err
	}

	label, err := s.core.Templates().Path(t, nil, tree.WithLabel(), tree.WithPathSeparator(" / "))
	if err != nil {
		return TemplateItem{}, err
	}

	item := TemplateItem{ID: t.ID, Label: label, Path: path, Depth: depth, MimeType: t.MimeType}

	if item.Containers, err = s.core.Containers(path); err != nil {
		item.Error = err.Error()
	}

	return item, nil
}

// walk visits nodes depth first, parents before children.
func walk[T any, PT tree.NodePtr[T]](r *tree.Resolver[T, PT], nodes []PT, depth int, fn func(PT, int) error) error {
	if depth >= r.MaxDepth() {
		return nil
	}

	for _, n := range nodes {
		if err := fn(n, depth); err != nil {
			return err
		}

		children, err := r.Children(n)
		if err != nil {
			return err
		}

		if err = walk(r, children, depth+1, fn); err != nil {
			return err
		}
	}

	return nil
}
