package cms

import "github.com/gophilo/gophilo/internal/attribute"

// Attribute keys declared for pages.
const (
	KeyDescription = "description"
	KeyAuthor      = "author"
	KeyTags        = "tags"
	KeyKeywords    = "keywords"
)

// PageSchema declares the attribute-backed fields of pages.
// Undeclared keys are still accepted as free-form attributes.
var PageSchema = attribute.NewSchema("page",
	attribute.JSON(KeyDescription).WithDefault(""),
	attribute.JSON(KeyKeywords),
	attribute.ForeignKey(KeyAuthor, "user"),
	attribute.ManyToMany(KeyTags, "tag"),
)
