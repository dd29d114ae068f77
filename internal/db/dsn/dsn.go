// Package dsn builds database connection strings and gorm dialectors from the configuration.
package dsn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/config"
)

// ErrUnknownEngine is returned for an unsupported db.gormEngine.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Create builds the data source name for the configured engine.
func Create(cfg *config.Config) (string, error) {
	db := cfg.DB

	switch db.GormEngine {
	case config.EngineSQLite:
		if db.Extras == "" {
			return db.Path, nil
		}

		return db.Path + "?" + db.Extras, nil
	case config.EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			db.Extras,
		), nil
	case config.EnginePostgres:
		parts := []string{
			"host=" + db.Host,
			fmt.Sprintf("port=%d", db.Port),
			"user=" + db.User,
			"password=" + db.Password,
			"dbname=" + db.Name,
		}

		if db.Extras != "" {
			parts = append(parts, db.Extras)
		}

		return strings.Join(parts, " "), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownEngine, db.GormEngine)
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	source, err := Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	default:
		return sqlite.Open(source), nil
	}
}
