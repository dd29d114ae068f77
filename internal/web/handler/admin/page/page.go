// Package page provides the admin JSON API for pages, their attributes and contentlets.
package page

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gophilo/gophilo/internal/attribute"
	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/config"
	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/web/handler"
)

const (
	// Path is the base path of the page API.
	Path = handler.APIPath + "/pages"
)

// Service is the page API handler.
type Service struct {
	handler.Service
	cfg       *config.Config
	core      *cms.Core
	validator *validator.Validate
}

// View is the JSON representation of a page.
type View struct {
	ID         uint           `json:"id"`
	ParentID   *uint          `json:"parentId"`
	Slug       string         `json:"slug"`
	Title      string         `json:"title"`
	Path       string         `json:"path"`
	Template   string         `json:"template"`
	Attributes map[string]any `json:"attributes"`
	OwnKeys    []string       `json:"ownKeys"`
	Containers []string       `json:"containers"`
	Missing    []string       `json:"missing"` // containers without contentlet
}

// CreateRequest creates a page below Parent, a page path. An empty parent creates a root page.
type CreateRequest struct {
	Parent   string `json:"parent"`
	Slug     string `json:"slug"     validate:"required,max=255"`
	Title    string `json:"title"    validate:"required,max=255"`
	Template string `json:"template" validate:"required"`
}

// MoveRequest moves a page below Parent. An empty parent makes it a root page.
type MoveRequest struct {
	Parent string `json:"parent"`
}

// ContentletRequest fills a container of a page.
type ContentletRequest struct {
	Content string `json:"content"`
	Dynamic bool   `json:"dynamic"`
	Format  string `json:"format" validate:"omitempty,oneof=html markdown"`
}

// KeyResult reports the outcome of one attribute key.
type KeyResult struct {
	Key   string `json:"key"`
	Op    string `json:"op"`
	Error string `json:"error,omitempty"`
}

var (
	// Handler is the page API handler.
	Handler = Service{}
)

// Init registers the page API routes.
func (s *Service) Init(app fiber.Router, cfg *config.Config, core *cms.Core) {
	if app == nil || cfg == nil || core == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.core = core
	s.validator = validator.New()

	app.Get(Path, s.Get)
	app.Post(Path, s.Create)
	app.Get(Path+"/:id", s.GetByID)
	app.Patch(Path+"/:id/parent", s.Move)
	app.Get(Path+"/:id/attributes", s.Attributes)
	app.Put(Path+"/:id/attributes", s.UpdateAttributes)
	app.Put(Path+"/:id/contentlets/:name", s.PutContentlet)
}

// Get returns the page at the query parameter path.
func (s *Service) Get(c *fiber.Ctx) error {
	page, err := s.core.Pages().Get(c.Query("path"), nil)
	if err != nil {
		return err
	}

	return s.render(c, page)
}

// GetByID returns the page with the given id.
func (s *Service) GetByID(c *fiber.Ctx) error {
	page, err := s.page(c)
	if err != nil {
		return err
	}

	return s.render(c, page)
}

// Create creates a page.
func (s *Service) Create(c *fiber.Ctx) error {
	var in CreateRequest

	if err := s.bind(c, &in); err != nil {
		return err
	}

	tpl, err := s.core.Templates().Get(in.Template, nil)
	if err != nil {
		return fmt.Errorf("template %q: %w", in.Template, err)
	}

	page := &models.Page{Slug: in.Slug, Title: in.Title, TemplateID: tpl.ID}

	if in.Parent != "" {
		parent, err := s.core.Pages().Get(in.Parent, nil)
		if err != nil {
			return fmt.Errorf("parent %q: %w", in.Parent, err)
		}

		page.ParentID = &parent.ID
	}

	if err = s.core.Pages().Create(page); err != nil {
		return err
	}

	log.Info().Uint("page", page.ID).Str("slug", page.Slug).Msg("page created")

	c.Status(fiber.StatusCreated)

	return s.render(c, page)
}

// Move sets the parent of a page.
func (s *Service) Move(c *fiber.Ctx) error {
	page, err := s.page(c)
	if err != nil {
		return err
	}

	var in MoveRequest
	if err = s.bind(c, &in); err != nil {
		return err
	}

	var parent *models.Page

	if in.Parent != "" {
		if parent, err = s.core.Pages().Get(in.Parent, nil); err != nil {
			return fmt.Errorf("parent %q: %w", in.Parent, err)
		}
	}

	if err = s.core.Pages().SetParent(page, parent); err != nil {
		return err
	}

	return s.render(c, page)
}

// Attributes returns the own and inherited attributes of a page.
func (s *Service) Attributes(c *fiber.Ctx) error {
	page, err := s.page(c)
	if err != nil {
		return err
	}

	attrs, own, err := s.attributes(page)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"attributes": attrs, "ownKeys": own})
}

// UpdateAttributes stages the body, a JSON object of key to payload, and
// commits it. Null deletes a key. Keys are committed independently, so the
// response lists the outcome per key and uses 207 for partial success.
func (s *Service) UpdateAttributes(c *fiber.Ctx) error {
	page, err := s.page(c)
	if err != nil {
		return err
	}

	var body map[string]any
	if err = c.BodyParser(&body); err != nil {
		return fmt.Errorf("%w: %w", handler.ErrInvalidBody, err)
	}

	payloads := make(map[string]any, len(body))

	for k, v := range body {
		if payloads[k], err = importValue(s.core, v); err != nil {
			return fmt.Errorf("attribute %q: %w", k, err)
		}
	}

	result, err := s.core.UpdatePage(page, payloads)
	if err != nil {
		return err
	}

	results := make([]KeyResult, len(result.Results))
	for i, r := range result.Results {
		results[i] = KeyResult{Key: r.Key, Op: string(r.Op)}
		if r.Err != nil {
			results[i].Error = r.Err.Error()
		}
	}

	if !result.OK() {
		c.Status(fiber.StatusMultiStatus)
	}

	return c.JSON(fiber.Map{"results": results})
}

// PutContentlet creates or replaces a contentlet of a page.
func (s *Service) PutContentlet(c *fiber.Ctx) error {
	page, err := s.page(c)
	if err != nil {
		return err
	}

	var in ContentletRequest
	if err = s.bind(c, &in); err != nil {
		return err
	}

	cl := &models.Contentlet{
		Name:    c.Params("name"),
		Content: in.Content,
		Dynamic: in.Dynamic,
		Format:  models.ContentletFormat(in.Format),
	}

	if err = s.core.SaveContentlet(page, cl); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"page": page.ID, "name": cl.Name, "format": cl.Format, "dynamic": cl.Dynamic})
}

func (s *Service) bind(c *fiber.Ctx, in any) error {
	if err := c.BodyParser(in); err != nil {
		return fmt.Errorf("%w: %w", handler.ErrInvalidBody, err)
	}

	if err := s.validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", handler.ErrInvalidBody, err)
	}

	return nil
}

func (s *Service) page(c *fiber.Ctx) (*models.Page, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, fiber.ErrBadRequest
	}

	return s.core.Pages().ByID(uint(id))
}

func (s *Service) attributes(page *models.Page) (map[string]any, []string, error) {
	chain, err := s.core.PageAttributes(page)
	if err != nil {
		return nil, nil, err
	}

	keys, err := chain.Keys()
	if err != nil {
		return nil, nil, err
	}

	attrs := make(map[string]any, len(keys))

	for _, k := range keys {
		v, err := chain.Get(k)
		if err != nil && !errors.Is(err, attribute.ErrKeyNotFound) {
			return nil, nil, err
		}

		attrs[k] = exportValue(v)
	}

	own, err := s.core.Attributes().Keys(page)
	if err != nil {
		return nil, nil, err
	}

	return attrs, own, nil
}

func (s *Service) render(c *fiber.Ctx, page *models.Page) error {
	path, err := s.core.Pages().Path(page, nil)
	if err != nil {
		return err
	}

	_, tplPath, err := s.core.TemplatePath(page)
	if err != nil {
		return err
	}

	attrs, own, err := s.attributes(page)
	if err != nil {
		return err
	}

	containers, err := s.core.Containers(tplPath)
	if err != nil {
		return err
	}

	contentlets, err := s.core.Contentlets(page)
	if err != nil {
		return err
	}

	missing := []string{}

	for _, name := range containers {
		if !slices.ContainsFunc(contentlets, func(cl models.Contentlet) bool { return cl.Name == name }) {
			missing = append(missing, name)
		}
	}

	return c.JSON(View{
		ID:         page.ID,
		ParentID:   page.ParentID,
		Slug:       page.Slug,
		Title:      page.Title,
		Path:       path,
		Template:   tplPath,
		Attributes: attrs,
		OwnKeys:    own,
		Containers: containers,
		Missing:    missing,
	})
}
