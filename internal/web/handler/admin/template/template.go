// Package template provides the admin JSON API for stored templates.
package template

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/config"
	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/templating"
	"github.com/gophilo/gophilo/internal/tree"
	"github.com/gophilo/gophilo/internal/web/handler"
)

const (
	// Path is the base path of the template API.
	Path = handler.APIPath + "/templates"
)

// Service is the template API handler.
type Service struct {
	handler.Service
	cfg       *config.Config
	core      *cms.Core
	validator *validator.Validate
}

// View is the JSON representation of a template.
type View struct {
	ID         uint     `json:"id"`
	ParentID   *uint    `json:"parentId"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Label      string   `json:"label"`
	MimeType   string   `json:"mimeType"`
	Code       string   `json:"code"`
	Containers []string `json:"containers"`
}

// CreateRequest creates a template below Parent, a template path.
type CreateRequest struct {
	Parent   string `json:"parent"`
	Slug     string `json:"slug"     validate:"required,max=255"`
	Name     string `json:"name"     validate:"required,max=255"`
	Code     string `json:"code"`
	MimeType string `json:"mimeType" validate:"max=255"`
}

// UpdateRequest replaces the code and mime type of a template.
type UpdateRequest struct {
	Code     string `json:"code"`
	MimeType string `json:"mimeType" validate:"max=255"`
}

var (
	// Handler is the template API handler.
	Handler = Service{}
)

// Init registers the template API routes.
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
	app.Put(Path+"/:id", s.Update)
}

// Get returns the template at the query parameter path.
func (s *Service) Get(c *fiber.Ctx) error {
	tpl, err := s.core.Templates().Get(c.Query("path"), nil)
	if err != nil {
		return err
	}

	return s.render(c, tpl)
}

// GetByID returns the template with the given id.
func (s *Service) GetByID(c *fiber.Ctx) error {
	tpl, err := s.template(c)
	if err != nil {
		return err
	}

	return s.render(c, tpl)
}

// Create creates a template. The code must parse.
func (s *Service) Create(c *fiber.Ctx) error {
	var in CreateRequest

	if err := s.bind(c, &in); err != nil {
		return err
	}

	if err := templating.Validate(in.Code); err != nil {
		return err
	}

	tpl := &models.Template{Slug: in.Slug, Name: in.Name, Code: in.Code, MimeType: in.MimeType}

	if in.Parent != "" {
		parent, err := s.core.Templates().Get(in.Parent, nil)
		if err != nil {
			return fmt.Errorf("parent %q: %w", in.Parent, err)
		}

		tpl.ParentID = &parent.ID
	}

	if err := s.core.Templates().Create(tpl); err != nil {
		return err
	}

	log.Info().Uint("template", tpl.ID).Str("slug", tpl.Slug).Msg("template created")

	c.Status(fiber.StatusCreated)

	return s.render(c, tpl)
}

// Update replaces the code of a template. Cached compilations expire with
// the new version.
func (s *Service) Update(c *fiber.Ctx) error {
	tpl, err := s.template(c)
	if err != nil {
		return err
	}

	var in UpdateRequest
	if err = s.bind(c, &in); err != nil {
		return err
	}

	if err = templating.Validate(in.Code); err != nil {
		return err
	}

	err = s.core.DB().Model(tpl).Updates(map[string]any{"code": in.Code, "mime_type": in.MimeType}).Error
	if err != nil {
		return err
	}

	tpl.Code = in.Code
	tpl.MimeType = in.MimeType

	return s.render(c, tpl)
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

func (s *Service) template(c *fiber.Ctx) (*models.Template, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, fiber.ErrBadRequest
	}

	return s.core.Templates().ByID(uint(id))
}

func (s *Service) render(c *fiber.Ctx, tpl *models.Template) error {
	path, err := s.core.Templates().Path(tpl, nil)
	if err != nil {
		return err
	}

	label, err := s.core.Templates().Path(tpl, nil, tree.WithLabel(), tree.WithPathSeparator(" / "))
	if err != nil {
		return err
	}

	containers, err := s.core.Containers(path)
	if err != nil {
		return err
	}

	return c.JSON(View{
		ID:         tpl.ID,
		ParentID:   tpl.ParentID,
		Slug:       tpl.Slug,
		Name:       tpl.Name,
		Path:       path,
		Label:      label,
		MimeType:   tpl.MimeType,
		Code:       tpl.Code,
		Containers: containers,
	})
}
