// Package contenttype keeps the set of model types that attribute values may reference.
//
// A Registry is built once at startup and handed to the value and attribute
// stores. Registration after startup is supported but not meant for live traffic.
package contenttype

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// Object is a persisted model that can be referenced by attribute values.
type Object interface {
	// ContentType returns the registry name of the model.
	ContentType() string
	// ObjectID returns the primary key, 0 while unsaved.
	ObjectID() uint
}

// Type describes a registered model.
type Type struct {
	// Name is the registry name.
	Name string
	// Model is the struct type of the model.
	Model reflect.Type

	load func(db *gorm.DB, ids []uint) ([]Object, error)
}

// Registry is the allow list of referenceable model types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds the model T to the registry and returns its descriptor.
// Registering the same type twice keeps a single entry.
func Register[T any, PT interface {
	*T
	Object
}](r *Registry) Type {
	name := PT(new(T)).ContentType()

	t := Type{
		Name:  name,
		Model: reflect.TypeFor[T](),
		load: func(db *gorm.DB, ids []uint) ([]Object, error) {
			var rows []T
			if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
				return nil, fmt.Errorf("load %s: %w", name, err)
			}

			out := make([]Object, 0, len(rows))
			for i := range rows {
				out = append(out, PT(&rows[i]))
			}

			return out, nil
		},
	}

	r.mu.Lock()
	r.types[name] = t
	r.mu.Unlock()

	return t
}

// Unregister removes a type. Removing an absent name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.types, name)
	r.mu.Unlock()
}

// Allowed returns the sorted names of all registered types.
func (r *Registry) Allowed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// IsRegistered reports whether name is registered.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[name]

	return ok
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}

	return t, nil
}

// Check verifies that obj is of a registered type and has been saved.
func (r *Registry) Check(obj Object) error {
	if !r.IsRegistered(obj.ContentType()) {
		return fmt.Errorf("%w: %q", ErrNotRegistered, obj.ContentType())
	}

	if obj.ObjectID() == 0 {
		return fmt.Errorf("%w: %s", ErrUnsavedObject, obj.ContentType())
	}

	return nil
}

// Load fetches the objects of type name with the given ids.
// Missing ids are left out of the result.
func (r *Registry) Load(db *gorm.DB, name string, ids []uint) ([]Object, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []Object{}, nil
	}

	return t.load(db, ids)
}

// Get fetches a single object of type name.
func (r *Registry) Get(db *gorm.DB, name string, id uint) (Object, error) {
	objs, err := r.Load(db, name, []uint{id})
	if err != nil {
		return nil, err
	}

	if len(objs) == 0 {
		return nil, fmt.Errorf("%w: %s %d", ErrObjectNotFound, name, id)
	}

	return objs[0], nil
}

// NameOf returns the registry name carried by the Go type rt, which may be a
// model struct or a pointer to one. ok is false if rt does not implement Object.
func NameOf(rt reflect.Type) (name string, ok bool) {
	objType := reflect.TypeFor[Object]()

	switch {
	case rt.Kind() == reflect.Pointer && rt.Implements(objType):
		return reflect.New(rt.Elem()).Interface().(Object).ContentType(), true //nolint:forcetypeassert
	case rt.Kind() == reflect.Struct && reflect.PointerTo(rt).Implements(objType):
		return reflect.New(rt).Interface().(Object).ContentType(), true //nolint:forcetypeassert
	}

	return "", false
}
