package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONPayload is an encoded JSON document. It is stored as text on sqlite,
// where a json column would coerce top-level numbers to INTEGER or REAL.
type JSONPayload datatypes.JSON

// Value implements driver.Valuer.
func (p JSONPayload) Value() (driver.Value, error) {
	return datatypes.JSON(p).Value()
}

// Scan implements sql.Scanner.
func (p *JSONPayload) Scan(v any) error {
	return (*datatypes.JSON)(p).Scan(v)
}

// GormDataType implements schema.GormDataTypeInterface.
func (JSONPayload) GormDataType() string {
	return "json"
}

// GormDBDataType implements migrator.GormDataTypeInterface.
func (JSONPayload) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	}

	return "TEXT"
}

// JSONValue stores a scalar attribute payload as JSON.
type JSONValue struct {
	ID    uint        `gorm:"primaryKey"`
	Value JSONPayload
}

// TableName specifies the database table name for the JSONValue model.
func (JSONValue) TableName() string {
	return "json_values"
}

// ForeignKeyValue references exactly one instance of a registered type.
// A nil ObjectID is an empty reference.
type ForeignKeyValue struct {
	ID            uint  `gorm:"primaryKey"`
	ContentTypeID *uint `gorm:"index"`
	ObjectID      *uint
}

// TableName specifies the database table name for the ForeignKeyValue model.
func (ForeignKeyValue) TableName() string {
	return "foreign_key_values"
}

// ManyToManyValue references a set of instances of one registered type.
// ObjectIDs is a comma separated id list.
type ManyToManyValue struct {
	ID            uint   `gorm:"primaryKey"`
	ContentTypeID *uint  `gorm:"index"`
	ObjectIDs     string `gorm:"type:text"`
}

// TableName specifies the database table name for the ManyToManyValue model.
func (ManyToManyValue) TableName() string {
	return "many_to_many_values"
}
