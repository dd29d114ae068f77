// Package daemon opens the database, prepares the content core and runs the
// web service.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/config"
	"github.com/gophilo/gophilo/internal/db/dsn"
	"github.com/gophilo/gophilo/internal/db/models"
	gormlogger "github.com/gophilo/gophilo/internal/logger/adapter/gorm"
	"github.com/gophilo/gophilo/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	core       *cms.Core
	webService *web.Service
}

// Start serves http on the configured port until WaitShutdown stops it.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// Core returns the content core of the daemon.
func (d *Daemon) Core() *cms.Core {
	return d.core
}

// OpenDB connects to the configured database with SQL logging through zerolog.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log.Logger, cfg.Log.SQL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// NewCore returns the content core configured by cfg.CMS. Dev mode disables
// the template cache.
func NewCore(cfg *config.Config, db *gorm.DB) (*cms.Core, error) {
	return cms.New(db, nil,
		cms.WithSeparator(cfg.CMS.PathSeparator),
		cms.WithMaxDepth(cfg.CMS.MaxDepth),
		cms.WithDefaultSite(cfg.CMS.DefaultSite),
		cms.WithTemplateCache(cfg.CMS.CacheTemplates && !cfg.DevMode),
	)
}

// New opens and migrates the database, ensures the admin user and builds the
// web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	if err = seed(cfg, db); err != nil {
		return nil, err
	}

	core, err := NewCore(cfg, db)
	if err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, core)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		core:       core,
		webService: webService,
	}, nil
}
