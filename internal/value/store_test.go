package value

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(models.All()...)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedTags inserts tags and returns them with ids set.
func seedTags(t *testing.T, db *gorm.DB, slugs ...string) []*models.Tag {
	t.Helper()

	tags := make([]*models.Tag, 0, len(slugs))
	for _, slug := range slugs {
		tag := &models.Tag{Name: slug, Slug: slug}
		require.NoError(t, db.Create(tag).Error, "failed to seed tag")
		tags = append(tags, tag)
	}

	return tags
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)

	return n
}

func write(t *testing.T, s *Store, db *gorm.DB, attr *models.Attribute, payload any) {
	t.Helper()

	v, err := s.Classify(payload)
	require.NoError(t, err)
	require.NoError(t, s.Write(db, attr, v))
}

func newAttribute(key string) *models.Attribute {
	return &models.Attribute{EntityTypeID: 1, EntityID: 1, Key: key}
}

func TestStoreScalarRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db, newTestRegistry())

	testCases := []struct {
		name     string
		payload  any
		expected any
	}{
		{name: "string", payload: "hello", expected: "hello"},
		{name: "number", payload: 42, expected: json.Number("42")},
		{name: "negative", payload: -7, expected: json.Number("-7")},
		{name: "float", payload: 3.5, expected: json.Number("3.5")},
		{name: "beyond float precision", payload: int64(9007199254740993), expected: json.Number("9007199254740993")},
		{name: "numeric string", payload: "123", expected: "123"},
		{name: "bool", payload: true, expected: true},
		{name: "null", payload: nil, expected: nil},
		{name: "object", payload: map[string]any{"a": []int{1, 2}}, expected: map[string]any{"a": []any{json.Number("1"), json.Number("2")}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			attr := newAttribute(tc.name)
			write(t, s, db, attr, tc.payload)

			require.NotZero(t, attr.ID)
			assert.Equal(t, KindJSON, attr.ValueKind)

			got, err := s.Read(attr)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestStoreSameKindUpdatesInPlace(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db, newTestRegistry())

	attr := newAttribute("title")
	write(t, s, db, attr, "first")
	valueID := *attr.ValueID

	write(t, s, db, attr, "second")

	assert.Equal(t, valueID, *attr.ValueID)
	assert.Equal(t, int64(1), countRows(t, db, &models.JSONValue{}))

	got, err := s.Read(attr)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStoreKindSwitchLeavesNoOrphans(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db, newTestRegistry())
	tags := seedTags(t, db, "go")

	attr := newAttribute("topic")
	write(t, s, db, attr, "plain text")
	require.Equal(t, int64(1), countRows(t, db, &models.JSONValue{}))

	write(t, s, db, attr, tags[0])

	assert.Equal(t, KindForeignKey, attr.ValueKind)
	assert.Equal(t, int64(0), countRows(t, db, &models.JSONValue{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.ForeignKeyValue{}))

	got, err := s.Read(attr)
	require.NoError(t, err)

	tag, ok := got.(*models.Tag)
	require.True(t, ok)
	assert.Equal(t, "go", tag.Slug)

	// and back to a set
	write(t, s, db, attr, tags)
	assert.Equal(t, int64(0), countRows(t, db, &models.ForeignKeyValue{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.ManyToManyValue{}))
}

func TestStoreRefSetRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db, newTestRegistry())
	tags := seedTags(t, db, "go", "cms", "web")

	attr := newAttribute("tags")
	write(t, s, db, attr, []*models.Tag{tags[2], tags[0], tags[1]})

	raw, err := s.Raw(attr)
	require.NoError(t, err)
	assert.Equal(t, NewRefSet("tag", tags[0].ID, tags[1].ID, tags[2].ID), raw)

	got, err := s.Read(attr)
	require.NoError(t, err)

	objs, ok := got.([]contenttype.Object)
	require.True(t, ok)

	slugs := make([]string, 0, len(objs))
	for _, obj := range objs {
		slugs = append(slugs, obj.(*models.Tag).Slug)
	}

	assert.ElementsMatch(t, []string{"go", "cms", "web"}, slugs)
}

func TestStoreEmptyRef(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db, newTestRegistry())

	attr := newAttribute("featured")
	write(t, s, db, attr, Ref{Type: "page"})

	got, err := s.Read(attr)
	require.NoError(t, err)
	assert.Nil(t, got)

	raw, err := s.Raw(attr)
	require.NoError(t, err)
	assert.Equal(t, Ref{Type: "page"}, raw)
}

func TestStoreDelete(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db, newTestRegistry())

	attr := newAttribute("gone")
	write(t, s, db, attr, 1)

	require.NoError(t, s.Delete(db, attr))
	assert.Equal(t, int64(0), countRows(t, db, &models.JSONValue{}))

	_, err := s.Read(attr)
	require.ErrorIs(t, err, ErrMissingValue)

	assert.NoError(t, s.Delete(db, newAttribute("never-written")))
}

func TestStoreReadWithoutValue(t *testing.T) {
	s := NewStore(setupTestDB(t), newTestRegistry())

	_, err := s.Read(newAttribute("empty"))
	require.ErrorIs(t, err, ErrMissingValue)
}
