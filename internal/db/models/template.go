package models

import "time"

// Template is a stored Go template addressed by its slug path in the template tree.
type Template struct {
	// ID is the unique identifier for the template.
	ID uint `gorm:"primaryKey"`
	// ParentID points at the parent template. Nil marks a root template.
	ParentID *uint `gorm:"uniqueIndex:idx_template_parent_slug,priority:1"`
	// Slug is the path segment, unique among siblings.
	Slug string `gorm:"size:255;not null;uniqueIndex:idx_template_parent_slug,priority:2"`
	// Name is the human readable name used for display paths.
	Name string `gorm:"size:255;not null"`
	// Documentation describes the template for editors.
	Documentation string `gorm:"type:text"`
	// MimeType is the content type sent when a page renders with this template.
	MimeType string `gorm:"size:255"`
	// Code is the template source.
	Code string `gorm:"type:text;not null"`
	// CreatedAt is the timestamp when the template was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the template was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Template model.
func (Template) TableName() string {
	return "templates"
}

// ContentType returns the registry name of the Template model.
func (*Template) ContentType() string { return "template" }

// ObjectID returns the primary key.
func (t *Template) ObjectID() uint { return t.ID }

// NodeID returns the primary key.
func (t *Template) NodeID() uint { return t.ID }

// NodeParentID returns the parent id, nil for roots.
func (t *Template) NodeParentID() *uint { return t.ParentID }

// NodeSlug returns the path segment.
func (t *Template) NodeSlug() string { return t.Slug }

// SetNodeParentID sets the parent id.
func (t *Template) SetNodeParentID(id *uint) { t.ParentID = id }

// NodeLabel returns the name used in display paths.
func (t *Template) NodeLabel() string { return t.Name }
