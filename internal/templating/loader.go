package templating

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/tree"
)

// Source is the code of a stored template.
type Source struct {
	// Name is the name the template was loaded by.
	Name string
	// Code is the template source.
	Code string
	// Version changes whenever Code changes. Compiled templates are cached per version.
	Version string
	// MimeType is the content type of the rendered output, empty for the default.
	MimeType string
}

// Loader finds template sources by name.
type Loader interface {
	Load(name string) (*Source, error)
}

// MapLoader serves templates from memory. The version is the code itself.
type MapLoader map[string]string

// Load implements Loader.
func (m MapLoader) Load(name string) (*Source, error) {
	code, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return &Source{Name: name, Code: code, Version: code}, nil
}

// DBLoader resolves template names as slug paths in the template tree.
type DBLoader struct {
	templates *tree.Resolver[models.Template, *models.Template]
}

// NewDBLoader returns a loader over the template tree.
func NewDBLoader(templates *tree.Resolver[models.Template, *models.Template]) *DBLoader {
	return &DBLoader{templates: templates}
}

// Load implements Loader.
func (l *DBLoader) Load(name string) (*Source, error) {
	tpl, err := l.templates.Get(name, nil)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}

		return nil, err
	}

	return &Source{
		Name:     name,
		Code:     tpl.Code,
		Version:  strconv.FormatUint(uint64(tpl.ID), 10) + "@" + strconv.FormatInt(tpl.UpdatedAt.UnixNano(), 10),
		MimeType: tpl.MimeType,
	}, nil
}
