// Package value implements the polymorphic attribute value.
//
// A Value is one of three kinds: a JSON scalar, a single reference to a
// registered model, or a set of references to models of one registered type.
// Each kind lives in its own table. The Store keeps exactly one value row per
// attribute and swaps the row when the kind changes.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gophilo/gophilo/internal/db/models"
)

// Kind identifies the storage table of a value.
type Kind = models.ValueKind

// Value kinds.
const (
	KindJSON       = models.ValueKindJSON
	KindForeignKey = models.ValueKindForeignKey
	KindManyToMany = models.ValueKindManyToMany
)

// Value is implemented by Scalar, Ref and RefSet only.
type Value interface {
	Kind() Kind
	sealed()
}

// Scalar is any JSON encodable payload.
type Scalar struct {
	Data any

	raw []byte
}

// NewScalar encodes data and returns the scalar, or a *SerializationError.
func NewScalar(data any) (Scalar, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Scalar{}, &SerializationError{Type: fmt.Sprintf("%T", data), Err: err}
	}

	return Scalar{Data: data, raw: raw}, nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}

	return data, nil
}

// Kind returns KindJSON.
func (Scalar) Kind() Kind { return KindJSON }

// JSON returns the encoded payload.
func (s Scalar) JSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}

	checked, err := NewScalar(s.Data)
	if err != nil {
		return nil, err
	}

	return checked.raw, nil
}

func (Scalar) sealed() {}

// Ref points at one object of a registered type. ID 0 is an empty reference.
type Ref struct {
	Type string
	ID   uint
}

// Kind returns KindForeignKey.
func (Ref) Kind() Kind { return KindForeignKey }

func (Ref) sealed() {}

// RefSet points at a set of objects of one registered type.
type RefSet struct {
	Type string
	IDs  []uint
}

// NewRefSet returns a RefSet with sorted, deduplicated ids.
func NewRefSet(typ string, ids ...uint) RefSet {
	out := slices.Clone(ids)
	slices.Sort(out)
	out = slices.Compact(out)

	if out == nil {
		out = []uint{}
	}

	return RefSet{Type: typ, IDs: out}
}

// Kind returns KindManyToMany.
func (RefSet) Kind() Kind { return KindManyToMany }

func (RefSet) sealed() {}

// encodeIDs renders ids as a comma separated list.
func encodeIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}

	return strings.Join(parts, ",")
}

// decodeIDs parses a comma separated id list. Blank entries are skipped.
func decodeIDs(s string) ([]uint, error) {
	ids := []uint{}

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseUint(part, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid id list %q: %w", s, err)
		}

		ids = append(ids, uint(id))
	}

	return ids, nil
}
