package models

// ContentletFormat selects how static contentlet content is converted before insertion.
type ContentletFormat string

const (
	// ContentletFormatHTML inserts the content as trusted HTML.
	ContentletFormatHTML ContentletFormat = "html"
	// ContentletFormatMarkdown converts the content from markdown to HTML.
	ContentletFormatMarkdown ContentletFormat = "markdown"
)

// Contentlet fills the container called Name on a page.
type Contentlet struct {
	// ID is the unique identifier for the contentlet.
	ID uint `gorm:"primaryKey"`
	// PageID is the owning page.
	PageID uint `gorm:"not null;uniqueIndex:idx_contentlet_page_name,priority:1"`
	// Name matches the container name used in the template.
	Name string `gorm:"size:255;not null;uniqueIndex:idx_contentlet_page_name,priority:2"`
	// Content is the raw content.
	Content string `gorm:"type:text"`
	// Dynamic marks content that is itself executed as a template.
	Dynamic bool `gorm:"not null;default:false"`
	// Format applies to static content only.
	Format ContentletFormat `gorm:"type:varchar(20);not null;default:'html'"`
}

// TableName specifies the database table name for the Contentlet model.
func (Contentlet) TableName() string {
	return "contentlets"
}
