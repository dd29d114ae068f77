package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gophilo/gophilo/internal/attribute"
	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/templating"
	"github.com/gophilo/gophilo/internal/tree"
	"github.com/gophilo/gophilo/internal/value"
)

// ErrInvalidBody is returned when a request body cannot be decoded or validated.
var ErrInvalidBody = errors.New("invalid request body")

// Status maps domain errors to http status codes. Unknown errors are 500.
func Status(err error) int {
	var fe *fiber.Error

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, tree.ErrNotFound),
		errors.Is(err, attribute.ErrKeyNotFound),
		errors.Is(err, templating.ErrTemplateNotFound),
		errors.Is(err, contenttype.ErrObjectNotFound),
		errors.Is(err, cms.ErrSiteNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, tree.ErrCycle),
		errors.Is(err, tree.ErrSlugTaken):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidBody),
		errors.Is(err, tree.ErrSlugEmpty),
		errors.Is(err, tree.ErrSlugInvalid),
		errors.Is(err, tree.ErrTooDeep),
		errors.Is(err, templating.ErrSyntax),
		errors.Is(err, value.ErrTypeMismatch),
		errors.Is(err, value.ErrSerialization),
		errors.Is(err, contenttype.ErrNotRegistered),
		errors.Is(err, contenttype.ErrUnsavedObject),
		errors.Is(err, cms.ErrContentletNameEmpty):
		return fiber.StatusUnprocessableEntity
	}

	return fiber.StatusInternalServerError
}

// ErrorHandler is the fiber error handler. Admin API routes get a JSON body,
// everything else plain text. Internal errors are logged and not exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := Status(err)
	msg := err.Error()

	if code == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		msg = fiber.ErrInternalServerError.Message
	}

	c.Status(code)

	if len(c.Path()) >= len(APIPath) && c.Path()[:len(APIPath)] == APIPath {
		return c.JSON(fiber.Map{"error": msg})
	}

	return c.SendString(msg)
}
