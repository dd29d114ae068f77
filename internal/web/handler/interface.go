package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app fiber.Router, cfg *config.Config, core *cms.Core)
}
