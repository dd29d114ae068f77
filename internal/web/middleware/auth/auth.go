package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/rs/zerolog/log"

	"github.com/gophilo/gophilo/internal/auth"
)

const (
	// LocalUser is the fiber.Locals key holding the authenticated *models.User.
	LocalUser = "CurrentUser"

	// DefaultRealm is used when no realm is configured.
	DefaultRealm = "gophilo admin"

	localUsername = "username"
)

// New returns the basic auth middleware. Requests pass only with the
// credentials of an active user.
func New(provider *auth.LocalProvider, realm string) fiber.Handler {
	if realm == "" {
		realm = DefaultRealm
	}

	return basicauth.New(basicauth.Config{
		Realm: realm,
		Authorizer: func(username, password string) bool {
			if _, err := provider.Authenticate(username, password); err != nil {
				log.Warn().Err(err).Str("username", username).Msg("admin authentication failed")
				return false
			}

			return true
		},
		ContextUsername: localUsername,
	})
}

// User stores the authenticated user in fiber.Locals. It must run after New.
func User(provider *auth.LocalProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, _ := c.Locals(localUsername).(string)

		user, err := provider.GetUserByUsername(username)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(LocalUser, user)

		return c.Next()
	}
}
