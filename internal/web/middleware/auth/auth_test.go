package auth

import (
	"encoding/base64"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/auth"
	"github.com/gophilo/gophilo/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(models.All()...)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestMiddleware(t *testing.T) {
	db := setupTestDB(t)

	provider, err := auth.NewLocalProvider(db)
	require.NoError(t, err)

	_, err = provider.EnsureUser("admin", "", "secret")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/admin", New(provider, ""), User(provider), func(c *fiber.Ctx) error {
		user, _ := c.Locals(LocalUser).(*models.User)
		return c.SendString("hello " + user.Username)
	})

	testCases := []struct {
		name           string
		authorization  string
		expectedStatus int
		expectedBody   string
	}{
		{name: "no credentials", expectedStatus: fiber.StatusUnauthorized},
		{name: "wrong password", authorization: basic("admin", "nope"), expectedStatus: fiber.StatusUnauthorized},
		{name: "unknown user", authorization: basic("root", "secret"), expectedStatus: fiber.StatusUnauthorized},
		{name: "valid", authorization: basic("admin", "secret"), expectedStatus: fiber.StatusOK, expectedBody: "hello admin"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
			if tc.authorization != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.authorization)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			if tc.expectedStatus == fiber.StatusUnauthorized {
				assert.Contains(t, resp.Header.Get(fiber.HeaderWWWAuthenticate), DefaultRealm)
				return
			}

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedBody, string(body))
		})
	}
}
