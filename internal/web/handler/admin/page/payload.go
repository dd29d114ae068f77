package page

import (
	"fmt"
	"slices"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/web/handler"
)

// JSON keys marking references in attribute payloads.
const (
	keyRef  = "$ref"
	keyID   = "id"
	keyRefs = "$refs"
	keyIDs  = "ids"
)

// exportValue turns attribute values into JSON friendly values. Objects
// become {"$ref": type, "id": id}, object lists {"$refs": type, "ids": [...]}.
func exportValue(v any) any {
	switch tv := v.(type) {
	case contenttype.Object:
		return map[string]any{keyRef: tv.ContentType(), keyID: tv.ObjectID()}
	case []contenttype.Object:
		if len(tv) == 0 {
			return []any{}
		}

		ids := make([]uint, len(tv))
		for i, obj := range tv {
			ids[i] = obj.ObjectID()
		}

		return map[string]any{keyRefs: tv[0].ContentType(), keyIDs: ids}
	}

	return v
}

// importValue is the inverse of exportValue. Referenced objects are loaded
// through the registry and must exist.
func importValue(core *cms.Core, v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}

	if name, ok := m[keyRef].(string); ok {
		id, err := toID(m[keyID])
		if err != nil {
			return nil, err
		}

		return core.Registry().Get(core.DB(), name, id)
	}

	if name, ok := m[keyRefs].(string); ok {
		raw, _ := m[keyIDs].([]any)

		ids := make([]uint, 0, len(raw))
		for _, r := range raw {
			id, err := toID(r)
			if err != nil {
				return nil, err
			}

			ids = append(ids, id)
		}

		slices.Sort(ids)
		ids = slices.Compact(ids)

		objs, err := core.Registry().Load(core.DB(), name, ids)
		if err != nil {
			return nil, err
		}

		if len(objs) != len(ids) {
			return nil, fmt.Errorf("%w: %s ids %v", contenttype.ErrObjectNotFound, name, ids)
		}

		return objs, nil
	}

	return v, nil
}

func toID(v any) (uint, error) {
	f, ok := v.(float64)
	if !ok || f < 1 || f != float64(uint(f)) {
		return 0, fmt.Errorf("%w: reference id %v", handler.ErrInvalidBody, v)
	}

	return uint(f), nil
}
