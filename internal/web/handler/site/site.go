// Package site serves pages by host and path.
package site

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/config"
	"github.com/gophilo/gophilo/internal/db/models"
	fiberlogger "github.com/gophilo/gophilo/internal/logger/adapter/fiber"
	"github.com/gophilo/gophilo/internal/web/handler"
	"github.com/gophilo/gophilo/internal/web/navigation"
)

// Path is the catch-all route of the page handler. It must be registered last.
const Path = handler.RootPath + "*"

// Service is the page serving handler.
type Service struct {
	handler.Service
	cfg  *config.Config
	core *cms.Core
}

var (
	// Handler is the page serving handler.
	Handler = Service{}
)

// Init registers the catch-all page route.
func (s *Service) Init(app fiber.Router, cfg *config.Config, core *cms.Core) {
	if app == nil || cfg == nil || core == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.core = core

	app.Get(Path, s.Get)
}

// Get renders the page addressed by the request host and path. Paths that
// only partially match a page are not found.
func (s *Service) Get(c *fiber.Ctx) error {
	site, err := s.core.Site(c.Hostname())
	if err != nil && !errors.Is(err, cms.ErrSiteNotFound) {
		return err
	}

	path, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return fiber.ErrBadRequest
	}

	page, remainder, err := s.core.Resolve(site, path)
	if err != nil {
		return err
	}

	if remainder != "" {
		return fiber.ErrNotFound
	}

	nav, err := s.navigation(site, page)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	mime, err := s.core.Render(&buf, page, map[string]any{
		"Navigation": nav,
		"Site":       site,
	})
	if err != nil {
		return err
	}

	if mime == "" {
		mime = fiber.MIMETextHTMLCharsetUTF8
	}

	c.Locals(fiberlogger.LocalPage, page.ID)
	c.Set(fiber.HeaderContentType, mime)

	return c.Send(buf.Bytes())
}

// navigation builds the breadcrumbs from the site root down to page.
func (s *Service) navigation(site *models.Site, page *models.Page) (*navigation.Context, error) {
	ancestors, err := s.core.Pages().Ancestors(page)
	if err != nil {
		return nil, err
	}

	var root *models.Page
	if site != nil {
		root = site.RootPage
	}

	chain := append([]*models.Page{page}, ancestors...)

	// crumbs collects nodes from page up to and including the site root
	var crumbs []*models.Page

	for _, p := range chain {
		crumbs = append(crumbs, p)

		if root != nil && p.ID == root.ID {
			break
		}
	}

	section := ""
	if len(crumbs) > 1 {
		section = crumbs[len(crumbs)-2].Slug
	}

	nav := navigation.NewContext(page.Title, section, page.Slug)

	for i := len(crumbs) - 1; i >= 0; i-- {
		p := crumbs[i]

		rel, err := s.core.Pages().Path(p, root)
		if err != nil {
			return nil, err
		}

		nav.AddBreadcrumb(p.Title, handler.RootPath+strings.ReplaceAll(rel, s.core.Separator(), "/"), i == 0)
	}

	return nav, nil
}
