package auth

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/db/models"
)

const (
	whereUsername = "username = ?"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) (*LocalProvider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &LocalProvider{db: db}, nil
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(username, password string) (*models.User, error) {
	user, err := p.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// EnsureUser creates an active user or, if the username exists, resets its
// password and activates it. It returns true if the user was created.
func (p *LocalProvider) EnsureUser(username, email, password string) (bool, error) {
	if username == "" {
		return false, ErrUserNameEmpty
	}

	if password == "" {
		return false, ErrPasswordEmpty
	}

	user, err := p.GetUserByUsername(username)

	switch {
	case errors.Is(err, ErrUserNotFound):
		user = &models.User{
			Active:   true,
			Username: username,
			Email:    email,
			Password: models.HashPassword(password),
		}

		if err = p.db.Create(user).Error; err != nil {
			return false, fmt.Errorf("failed to create user: %w", err)
		}

		log.Info().Str("username", username).Msg("admin user created")

		return true, nil
	case err != nil:
		return false, err
	}

	updates := map[string]any{
		"active":   true,
		"password": models.HashPassword(password),
	}

	if email != "" {
		updates["email"] = email
	}

	if err = p.db.Model(user).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}

	return false, nil
}

// GetUserByUsername retrieves a user by username.
func (p *LocalProvider) GetUserByUsername(username string) (*models.User, error) {
	var user models.User

	err := p.db.Where(whereUsername, username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
