package models

import "time"

// ContentType maps a registered type name to a stable integer identifier.
// Attribute rows and reference values point at content types by this id.
type ContentType struct {
	// ID is the unique identifier for the content type.
	ID uint `gorm:"primaryKey"`
	// Name is the registry name of the type (e.g. "page", "user").
	Name string `gorm:"unique;size:100;not null"`
	// CreatedAt is the timestamp when the content type was first seen (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the ContentType model.
func (ContentType) TableName() string {
	return "content_types"
}
