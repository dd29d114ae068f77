package models

// Tag is a label that can be referenced from attributes.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`
	Slug string `gorm:"size:255;not null;unique"`
}

// TableName specifies the database table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}

// ContentType returns the registry name of the Tag model.
func (*Tag) ContentType() string { return "tag" }

// ObjectID returns the primary key.
func (t *Tag) ObjectID() uint { return t.ID }
