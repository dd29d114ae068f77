// Package attribute stores named values attached to entities.
//
// Reads go through Mapping views. A View covers an entity's own rows, a Chain
// falls back to ancestor views for tree entities. Writes are staged in
// Changes and persisted by Commit, one transaction per key.
package attribute

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/contenttype"
	ctdb "github.com/gophilo/gophilo/internal/db/controller/contenttype"
	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/tree"
	"github.com/gophilo/gophilo/internal/value"
)

const (
	keyColumn          = "attr_key"
	entityQueryPattern = "entity_type_id = ? AND entity_id = ?"
	keyQueryPattern    = "attr_key = ?"
)

// Mapping is a read-only key to payload view.
type Mapping interface {
	// Get returns the payload for key or an error wrapping ErrKeyNotFound.
	Get(key string) (any, error)
	// Keys returns the sorted distinct keys.
	Keys() ([]string, error)
}

// Store gives access to the attributes of entities.
type Store struct {
	db     *gorm.DB
	values *value.Store
	types  *ctdb.Cache
}

// NewStore returns an attribute store writing values through values.
func NewStore(db *gorm.DB, values *value.Store) *Store {
	return &Store{
		db:     db,
		values: values,
		types:  ctdb.NewCache(),
	}
}

// Values returns the underlying value store.
func (s *Store) Values() *value.Store {
	return s.values
}

// Get returns the payload of the owner's own attribute key.
func (s *Store) Get(owner contenttype.Object, key string) (any, error) {
	attr, err := s.find(s.db, owner, key)
	if err != nil {
		return nil, err
	}

	return s.values.Read(attr)
}

// Raw returns the stored value of the owner's own attribute key without
// loading referenced objects.
func (s *Store) Raw(owner contenttype.Object, key string) (value.Value, error) {
	attr, err := s.find(s.db, owner, key)
	if err != nil {
		return nil, err
	}

	return s.values.Raw(attr)
}

// Keys returns the sorted distinct keys of the owner's own attributes.
func (s *Store) Keys(owner contenttype.Object) ([]string, error) {
	typeID, id, err := s.entity(s.db, owner)
	if err != nil {
		return nil, err
	}

	keys := []string{}

	err = s.db.Model(&models.Attribute{}).
		Where(entityQueryPattern, typeID, id).
		Distinct(keyColumn).
		Order(keyColumn).
		Pluck(keyColumn, &keys).Error
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// View returns a lazy mapping over the owner's own attributes.
func (s *Store) View(owner contenttype.Object) *View {
	return &View{store: s, owner: owner}
}

// Attributes returns the mapping of owner. With ancestors, nearest first,
// lookups that miss on owner fall through to them in order.
func (s *Store) Attributes(owner contenttype.Object, ancestors ...contenttype.Object) Mapping {
	if len(ancestors) == 0 {
		return s.View(owner)
	}

	views := make([]Mapping, 0, len(ancestors)+1)
	views = append(views, s.View(owner))

	for _, a := range ancestors {
		views = append(views, s.View(a))
	}

	return NewChain(views...)
}

// EntityNode is a tree model that also owns attributes.
type EntityNode[T any] interface {
	tree.NodePtr[T]
	contenttype.Object
}

// ForNode returns the chained mapping of node and its ancestors as loaded by r.
func ForNode[T any, PT EntityNode[T]](s *Store, r *tree.Resolver[T, PT], node PT) (Mapping, error) {
	ancestors, err := r.Ancestors(node)
	if err != nil {
		return nil, fmt.Errorf("attributes of %s %d: %w", node.ContentType(), node.ObjectID(), err)
	}

	objs := make([]contenttype.Object, len(ancestors))
	for i, a := range ancestors {
		objs[i] = a
	}

	return s.Attributes(node, objs...), nil
}

func (s *Store) entity(db *gorm.DB, owner contenttype.Object) (typeID, id uint, err error) {
	if owner.ObjectID() == 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsavedOwner, owner.ContentType())
	}

	typeID, err = s.types.ID(db, owner.ContentType())
	if err != nil {
		return 0, 0, err
	}

	return typeID, owner.ObjectID(), nil
}

func (s *Store) find(db *gorm.DB, owner contenttype.Object, key string) (*models.Attribute, error) {
	typeID, id, err := s.entity(db, owner)
	if err != nil {
		return nil, err
	}

	var attr models.Attribute

	err = db.Where(entityQueryPattern, typeID, id).Where(keyQueryPattern, key).First(&attr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
		}

		return nil, err
	}

	return &attr, nil
}
