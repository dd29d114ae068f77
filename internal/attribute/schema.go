package attribute

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/value"
)

// Field declares an attribute-backed field of an entity type.
type Field struct {
	// Key is the attribute key.
	Key string
	// Kind is the only value kind the field accepts.
	Kind value.Kind
	// Target is the registered type referenced by reference fields.
	Target string
	// Default is returned by Get when the key is missing.
	Default any
}

// JSON declares a scalar field.
func JSON(key string) Field {
	return Field{Key: key, Kind: value.KindJSON}
}

// ForeignKey declares a field referencing one object of target.
func ForeignKey(key, target string) Field {
	return Field{Key: key, Kind: value.KindForeignKey, Target: target}
}

// ManyToMany declares a field referencing a set of objects of target.
func ManyToMany(key, target string) Field {
	return Field{Key: key, Kind: value.KindManyToMany, Target: target}
}

// WithDefault returns a copy of f with a default payload.
func (f Field) WithDefault(payload any) Field {
	f.Default = payload
	return f
}

// Set validates payload against the field and stages it on c.
// A nil payload clears a reference field to an empty reference, a nil or
// empty slice clears a set field.
func (f Field) Set(c *Changes, payload any) error {
	var (
		v   value.Value
		err error
	)

	if f.Target != "" && !c.reg.IsRegistered(f.Target) {
		return fmt.Errorf("field %q: %w: %s", f.Key, contenttype.ErrNotRegistered, f.Target)
	}

	switch {
	case payload == nil && f.Kind == value.KindForeignKey:
		v = value.Ref{Type: f.Target}
	case f.Kind == value.KindManyToMany && isEmptySlice(payload):
		v = value.NewRefSet(f.Target)
	default:
		v, err = value.Classify(c.reg, payload)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
	}

	if v.Kind() != f.Kind {
		return fmt.Errorf("field %q: %w: want %s, got %s", f.Key, value.ErrTypeMismatch, f.Kind, v.Kind())
	}

	if target := targetOf(v); target != f.Target {
		return fmt.Errorf("field %q: %w: want %s, got %s", f.Key, value.ErrTypeMismatch, f.Target, target)
	}

	c.put(f.Key, v)

	return nil
}

// Get reads the field from m, falling back to the default when missing.
func (f Field) Get(m Mapping) (any, error) {
	v, err := m.Get(f.Key)
	if errors.Is(err, ErrKeyNotFound) && f.Default != nil {
		return f.Default, nil
	}

	return v, err
}

// Clear stages the removal of the field.
func (f Field) Clear(c *Changes) {
	c.Delete(f.Key)
}

func isEmptySlice(payload any) bool {
	if payload == nil {
		return true
	}

	rv := reflect.ValueOf(payload)

	return rv.Kind() == reflect.Slice && rv.Len() == 0
}

func targetOf(v value.Value) string {
	switch tv := v.(type) {
	case value.Ref:
		return tv.Type
	case value.RefSet:
		return tv.Type
	}

	return ""
}

// Schema lists the declared fields of one entity type.
type Schema struct {
	entity string
	fields map[string]Field
}

// NewSchema declares the fields of entity. It panics on duplicate keys.
func NewSchema(entity string, fields ...Field) *Schema {
	s := &Schema{entity: entity, fields: make(map[string]Field, len(fields))}

	for _, f := range fields {
		if _, dup := s.fields[f.Key]; dup {
			panic(fmt.Sprintf("attribute: duplicate field %q in %s schema", f.Key, entity))
		}

		s.fields[f.Key] = f
	}

	return s
}

// Entity returns the content type name the schema applies to.
func (s *Schema) Entity() string {
	return s.entity
}

// Field returns the declared field for key.
func (s *Schema) Field(key string) (Field, bool) {
	f, ok := s.fields[key]
	return f, ok
}

// Fields returns the declared fields sorted by key.
func (s *Schema) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// Apply stages every entry of payloads on c. Declared keys go through their
// field, other keys are staged as free attributes. All entries are tried and
// the errors are joined.
func (s *Schema) Apply(c *Changes, payloads map[string]any) error {
	if c.owner.ContentType() != s.entity {
		return fmt.Errorf("%w: %s schema, %s owner", ErrWrongOwner, s.entity, c.owner.ContentType())
	}

	keys := make([]string, 0, len(payloads))
	for k := range payloads {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var errs []error

	for _, k := range keys {
		var err error
		if f, ok := s.fields[k]; ok {
			err = f.Set(c, payloads[k])
		} else {
			err = c.Set(k, payloads[k])
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Read returns the declared fields of m as a map, applying defaults and
// skipping missing fields without default.
func (s *Schema) Read(m Mapping) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))

	for _, f := range s.Fields() {
		v, err := f.Get(m)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		out[f.Key] = v
	}

	return out, nil
}
