package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/auth"
	"github.com/gophilo/gophilo/internal/config"
	"github.com/gophilo/gophilo/internal/db/models"
)

// seed ensures the configured admin user. Without one, an empty user table
// leaves the admin surface unreachable, which is logged.
func seed(cfg *config.Config, db *gorm.DB) error {
	if cfg.Admin.Username == "" {
		var count int64
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			log.Warn().Msg("no admin user configured and none stored: /admin is not accessible")
		}

		return nil
	}

	provider, err := auth.NewLocalProvider(db)
	if err != nil {
		return err
	}

	_, err = provider.EnsureUser(cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)

	return err
}
