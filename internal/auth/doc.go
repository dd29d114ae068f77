// Package auth authenticates admin users stored in the database.
//
// Passwords are stored as Argon2id hashes (see models.HashPassword). Only
// active users authenticate. The web layer wraps LocalProvider in a basic auth
// middleware.
package auth
