package value

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/contenttype"
	ctdb "github.com/gophilo/gophilo/internal/db/controller/contenttype"
	"github.com/gophilo/gophilo/internal/db/models"
)

const idQueryPattern = "id = ?"

// Store reads and writes the value rows behind attributes.
type Store struct {
	db    *gorm.DB
	reg   *contenttype.Registry
	types *ctdb.Cache
}

// NewStore returns a value store over db that resolves references through reg.
func NewStore(db *gorm.DB, reg *contenttype.Registry) *Store {
	return &Store{
		db:    db,
		reg:   reg,
		types: ctdb.NewCache(),
	}
}

// Registry returns the registry used for classification and loading.
func (s *Store) Registry() *contenttype.Registry {
	return s.reg
}

// Classify is Classify bound to the store's registry.
func (s *Store) Classify(payload any) (Value, error) {
	return Classify(s.reg, payload)
}

// Write stores v as the value of attr and saves attr.
//
// A value of the same kind is updated in place. A different kind deletes the
// old row and creates the new one. Both happen in one transaction, so attr
// never points at two rows or at none. An unsaved attr is created after its
// value row.
func (s *Store) Write(tx *gorm.DB, attr *models.Attribute, v Value) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		if attr.ValueID != nil && attr.ValueKind == v.Kind() {
			updated, err := s.update(tx, *attr.ValueID, v)
			if err != nil {
				return err
			}

			if updated {
				return nil
			}
		}

		if attr.ValueID != nil {
			if err := deleteRow(tx, attr.ValueKind, *attr.ValueID); err != nil {
				return err
			}
		}

		id, err := s.create(tx, v)
		if err != nil {
			return err
		}

		attr.ValueKind = v.Kind()
		attr.ValueID = &id

		return tx.Save(attr).Error
	})
}

// Delete removes the value row of attr. The attribute row is left alone.
func (s *Store) Delete(tx *gorm.DB, attr *models.Attribute) error {
	if attr.ValueID == nil {
		return nil
	}

	return deleteRow(tx, attr.ValueKind, *attr.ValueID)
}

// Raw returns the stored value of attr without loading referenced objects.
func (s *Store) Raw(attr *models.Attribute) (Value, error) {
	return s.raw(s.db, attr)
}

// Read returns the payload of attr: decoded JSON for scalars, the referenced
// object for references (nil when empty), the referenced objects for sets.
// JSON numbers decode as json.Number at any depth.
func (s *Store) Read(attr *models.Attribute) (any, error) {
	v, err := s.raw(s.db, attr)
	if err != nil {
		return nil, err
	}

	switch tv := v.(type) {
	case Scalar:
		return tv.Data, nil
	case Ref:
		if tv.ID == 0 {
			return nil, nil
		}

		return s.reg.Get(s.db, tv.Type, tv.ID)
	case RefSet:
		return s.reg.Load(s.db, tv.Type, tv.IDs)
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownKind, v)
}

func (s *Store) raw(db *gorm.DB, attr *models.Attribute) (Value, error) {
	if attr.ValueID == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingValue, attr.Key)
	}

	id := *attr.ValueID

	switch attr.ValueKind {
	case KindJSON:
		var row models.JSONValue
		if err := first(db, &row, id, attr.Key); err != nil {
			return nil, err
		}

		data, err := decodeJSON(row.Value)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", attr.Key, err)
		}

		return Scalar{Data: data, raw: row.Value}, nil
	case KindForeignKey:
		var row models.ForeignKeyValue
		if err := first(db, &row, id, attr.Key); err != nil {
			return nil, err
		}

		name, err := s.typeName(db, row.ContentTypeID)
		if err != nil {
			return nil, err
		}

		ref := Ref{Type: name}
		if row.ObjectID != nil {
			ref.ID = *row.ObjectID
		}

		return ref, nil
	case KindManyToMany:
		var row models.ManyToManyValue
		if err := first(db, &row, id, attr.Key); err != nil {
			return nil, err
		}

		name, err := s.typeName(db, row.ContentTypeID)
		if err != nil {
			return nil, err
		}

		ids, err := decodeIDs(row.ObjectIDs)
		if err != nil {
			return nil, err
		}

		return NewRefSet(name, ids...), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, attr.ValueKind)
}

// update rewrites the row in place. updated is false if the row is gone.
func (s *Store) update(tx *gorm.DB, id uint, v Value) (updated bool, err error) {
	var result *gorm.DB

	switch tv := v.(type) {
	case Scalar:
		raw, err := tv.JSON()
		if err != nil {
			return false, err
		}

		result = tx.Model(&models.JSONValue{}).Where(idQueryPattern, id).
			Update("value", models.JSONPayload(raw))
	case Ref:
		ctID, err := s.types.ID(tx, tv.Type)
		if err != nil {
			return false, err
		}

		result = tx.Model(&models.ForeignKeyValue{}).Where(idQueryPattern, id).
			Updates(map[string]any{"content_type_id": ctID, "object_id": optionalID(tv.ID)})
	case RefSet:
		ctID, err := s.types.ID(tx, tv.Type)
		if err != nil {
			return false, err
		}

		result = tx.Model(&models.ManyToManyValue{}).Where(idQueryPattern, id).
			Updates(map[string]any{"content_type_id": ctID, "object_ids": encodeIDs(tv.IDs)})
	default:
		return false, fmt.Errorf("%w: %T", ErrUnknownKind, v)
	}

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (s *Store) create(tx *gorm.DB, v Value) (uint, error) {
	switch tv := v.(type) {
	case Scalar:
		raw, err := tv.JSON()
		if err != nil {
			return 0, err
		}

		row := models.JSONValue{Value: models.JSONPayload(raw)}
		if err := tx.Create(&row).Error; err != nil {
			return 0, err
		}

		return row.ID, nil
	case Ref:
		ctID, err := s.types.ID(tx, tv.Type)
		if err != nil {
			return 0, err
		}

		var objectID *uint
		if tv.ID != 0 {
			objectID = &tv.ID
		}

		row := models.ForeignKeyValue{ContentTypeID: &ctID, ObjectID: objectID}
		if err := tx.Create(&row).Error; err != nil {
			return 0, err
		}

		return row.ID, nil
	case RefSet:
		ctID, err := s.types.ID(tx, tv.Type)
		if err != nil {
			return 0, err
		}

		row := models.ManyToManyValue{ContentTypeID: &ctID, ObjectIDs: encodeIDs(tv.IDs)}
		if err := tx.Create(&row).Error; err != nil {
			return 0, err
		}

		return row.ID, nil
	}

	return 0, fmt.Errorf("%w: %T", ErrUnknownKind, v)
}

func (s *Store) typeName(db *gorm.DB, id *uint) (string, error) {
	if id == nil {
		return "", fmt.Errorf("%w: reference without content type", ErrMissingValue)
	}

	return s.types.Name(db, *id)
}

func deleteRow(tx *gorm.DB, kind Kind, id uint) error {
	var model any

	switch kind {
	case KindJSON:
		model = &models.JSONValue{}
	case KindForeignKey:
		model = &models.ForeignKeyValue{}
	case KindManyToMany:
		model = &models.ManyToManyValue{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return tx.Where(idQueryPattern, id).Delete(model).Error
}

func first(db *gorm.DB, row any, id uint, key string) error {
	err := db.Where(idQueryPattern, id).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %q", ErrMissingValue, key)
	}

	return err
}

func optionalID(id uint) any {
	if id == 0 {
		return nil
	}

	return id
}
