// Package auth provides the basic auth middleware guarding the admin surface.
//
// Credentials are checked against active users through auth.LocalProvider.
// On success the user is stored in fiber.Locals under LocalUser for handlers
// and templates.
//
// Usage:
//
//	admin := app.Group(handler.AdminPath,
//		authmiddleware.New(provider, cfg.Webserver.AdminRealm),
//		authmiddleware.User(provider),
//	)
package auth
