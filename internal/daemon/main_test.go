package daemon

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gophilo/gophilo/internal/auth"
	"github.com/gophilo/gophilo/internal/config"
	"github.com/gophilo/gophilo/internal/db/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{Title: "Test"}
	cfg.DB.GormEngine = config.EngineSQLite
	cfg.DB.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.CMS.PathSeparator = "/"
	cfg.CMS.MaxDepth = 16
	cfg.CMS.CacheTemplates = true

	return cfg
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin = config.Admin{Username: "admin", Password: "secret", Email: "admin@example.com"}

	d, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, d.Core())

	provider, err := auth.NewLocalProvider(d.Core().DB())
	require.NoError(t, err)

	user, err := provider.Authenticate("admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)

	assert.Equal(t, "/", d.Core().Separator())
}

func TestSeedWithoutAdmin(t *testing.T) {
	cfg := testConfig(t)

	db, err := OpenDB(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, seed(cfg, db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOpenDBUnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := OpenDB(cfg)
	require.Error(t, err)
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)
}
