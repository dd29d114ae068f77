package value

import (
	"fmt"
	"reflect"

	"github.com/gophilo/gophilo/internal/contenttype"
)

// Classify picks the value kind for payload.
//
//   - a Value is validated and returned unchanged
//   - a slice of registered objects becomes a RefSet, also when empty
//   - a registered object becomes a Ref, also when passed by value
//   - anything else becomes a Scalar and must encode as JSON
func Classify(reg *contenttype.Registry, payload any) (Value, error) {
	switch p := payload.(type) {
	case Value:
		return validate(reg, p)
	case contenttype.Object:
		return classifyObject(reg, p)
	}

	if payload != nil {
		rv := reflect.ValueOf(payload)

		switch rv.Kind() {
		case reflect.Slice:
			v, ok, err := classifySlice(reg, rv)
			if ok || err != nil {
				return v, err
			}
		case reflect.Struct:
			if _, ok := contenttype.NameOf(rv.Type()); ok {
				ptr := reflect.New(rv.Type())
				ptr.Elem().Set(rv)

				return classifyObject(reg, ptr.Interface().(contenttype.Object)) //nolint:forcetypeassert
			}
		}
	}

	s, err := NewScalar(payload)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func validate(reg *contenttype.Registry, v Value) (Value, error) {
	switch tv := v.(type) {
	case Scalar:
		if _, err := tv.JSON(); err != nil {
			return nil, err
		}

		return tv, nil
	case Ref:
		if _, err := reg.Lookup(tv.Type); err != nil {
			return nil, err
		}

		return tv, nil
	case RefSet:
		if _, err := reg.Lookup(tv.Type); err != nil {
			return nil, err
		}

		return NewRefSet(tv.Type, tv.IDs...), nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownKind, v)
}

func classifyObject(reg *contenttype.Registry, obj contenttype.Object) (Value, error) {
	if isNil(obj) {
		name, _ := contenttype.NameOf(reflect.TypeOf(obj))
		if _, err := reg.Lookup(name); err != nil {
			return nil, err
		}

		return Ref{Type: name}, nil
	}

	if err := reg.Check(obj); err != nil {
		return nil, err
	}

	return Ref{Type: obj.ContentType(), ID: obj.ObjectID()}, nil
}

// classifySlice reports ok=false when rv is not a collection of objects.
func classifySlice(reg *contenttype.Registry, rv reflect.Value) (Value, bool, error) {
	elem := rv.Type().Elem()

	if name, ok := contenttype.NameOf(elem); ok {
		if _, err := reg.Lookup(name); err != nil {
			return nil, true, err
		}

		objs := make([]contenttype.Object, 0, rv.Len())
		for i := range rv.Len() {
			item := rv.Index(i)
			if elem.Kind() == reflect.Struct {
				item = item.Addr()
			}

			obj := item.Interface().(contenttype.Object) //nolint:forcetypeassert
			if isNil(obj) {
				return nil, true, fmt.Errorf("%w: nil %s in collection", ErrTypeMismatch, name)
			}

			objs = append(objs, obj)
		}

		v, err := refSetOf(reg, name, objs)

		return v, true, err
	}

	if elem.Kind() != reflect.Interface || rv.Len() == 0 {
		return nil, false, nil
	}

	objs := make([]contenttype.Object, 0, rv.Len())
	for i := range rv.Len() {
		if obj, ok := rv.Index(i).Interface().(contenttype.Object); ok && !isNil(obj) {
			objs = append(objs, obj)
		}
	}

	switch len(objs) {
	case 0:
		return nil, false, nil
	case rv.Len():
		v, err := refSetOf(reg, objs[0].ContentType(), objs)
		return v, true, err
	}

	return nil, true, fmt.Errorf("%w: collection mixes objects and plain values", ErrTypeMismatch)
}

func refSetOf(reg *contenttype.Registry, name string, objs []contenttype.Object) (Value, error) {
	ids := make([]uint, 0, len(objs))

	for _, obj := range objs {
		if obj.ContentType() != name {
			return nil, fmt.Errorf("%w: collection mixes %s and %s", ErrTypeMismatch, name, obj.ContentType())
		}

		if err := reg.Check(obj); err != nil {
			return nil, err
		}

		ids = append(ids, obj.ObjectID())
	}

	if _, err := reg.Lookup(name); err != nil {
		return nil, err
	}

	return NewRefSet(name, ids...), nil
}

func isNil(obj contenttype.Object) bool {
	rv := reflect.ValueOf(obj)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
