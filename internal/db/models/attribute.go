package models

import "time"

// ValueKind discriminates which value table an attribute points at.
type ValueKind string

const (
	// ValueKindJSON points at a row in json_values.
	ValueKindJSON ValueKind = "json"
	// ValueKindForeignKey points at a row in foreign_key_values.
	ValueKindForeignKey ValueKind = "foreign_key"
	// ValueKindManyToMany points at a row in many_to_many_values.
	ValueKindManyToMany ValueKind = "many_to_many"
)

// Attribute is a named value attached to an entity.
// The key is unique per entity, and a value row belongs to exactly one attribute.
type Attribute struct {
	// ID is the unique identifier for the attribute.
	ID uint `gorm:"primaryKey"`
	// EntityTypeID is the content type of the owning entity.
	EntityTypeID uint `gorm:"not null;uniqueIndex:idx_attribute_entity_key,priority:2;index:idx_attribute_entity,priority:1"`
	// EntityID is the primary key of the owning entity.
	EntityID uint `gorm:"not null;uniqueIndex:idx_attribute_entity_key,priority:3;index:idx_attribute_entity,priority:2"`
	// Key is the attribute name. The column avoids the reserved word "key".
	Key string `gorm:"column:attr_key;size:255;not null;uniqueIndex:idx_attribute_entity_key,priority:1"`
	// ValueKind selects the value table.
	ValueKind ValueKind `gorm:"type:varchar(20);uniqueIndex:idx_attribute_value,priority:1"`
	// ValueID is the primary key of the value row inside the ValueKind table.
	ValueID *uint `gorm:"uniqueIndex:idx_attribute_value,priority:2"`
	// CreatedAt is the timestamp when the attribute was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the attribute was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Attribute model.
func (Attribute) TableName() string {
	return "attributes"
}
