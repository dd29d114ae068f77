// Package models contains database model definitions.
//
// Tree models (Template, Page) carry a nullable ParentID and a Slug that is
// unique among siblings. Entity models expose their content type name and id
// so the attribute store can key rows by (entity type, entity id).
package models
