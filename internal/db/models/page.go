package models

import "time"

// Page is a tree entity rendered through a Template.
// Pages inherit attributes from their ancestors.
type Page struct {
	// ID is the unique identifier for the page.
	ID uint `gorm:"primaryKey"`
	// ParentID points at the parent page. Nil marks a root page.
	ParentID *uint `gorm:"uniqueIndex:idx_page_parent_slug,priority:1"`
	// Slug is the path segment, unique among siblings.
	Slug string `gorm:"size:255;not null;uniqueIndex:idx_page_parent_slug,priority:2"`
	// Title is the page title used for display paths.
	Title string `gorm:"size:255;not null"`
	// TemplateID is the template used to render the page.
	TemplateID uint `gorm:"not null;index"`
	// Template is the associated template.
	Template Template `gorm:"foreignKey:TemplateID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// Contentlets are the filled containers of the page.
	Contentlets []Contentlet `gorm:"foreignKey:PageID"`
	// CreatedAt is the timestamp when the page was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the page was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Page model.
func (Page) TableName() string {
	return "pages"
}

// ContentType returns the registry name of the Page model.
func (*Page) ContentType() string { return "page" }

// ObjectID returns the primary key.
func (p *Page) ObjectID() uint { return p.ID }

// NodeID returns the primary key.
func (p *Page) NodeID() uint { return p.ID }

// NodeParentID returns the parent id, nil for roots.
func (p *Page) NodeParentID() *uint { return p.ParentID }

// NodeSlug returns the path segment.
func (p *Page) NodeSlug() string { return p.Slug }

// SetNodeParentID sets the parent id.
func (p *Page) SetNodeParentID(id *uint) { p.ParentID = id }

// NodeLabel returns the title used in display paths.
func (p *Page) NodeLabel() string { return p.Title }
