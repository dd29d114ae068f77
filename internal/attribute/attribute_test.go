package attribute

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/tree"
	"github.com/gophilo/gophilo/internal/value"
)

type unregistered struct{ ID uint }

func (*unregistered) ContentType() string { return "unregistered" }

func (u *unregistered) ObjectID() uint { return u.ID }

type testEnv struct {
	db    *gorm.DB
	store *Store
	pages *tree.Resolver[models.Page, *models.Page]
}

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(models.All()...)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)

	return &testEnv{
		db:    db,
		store: NewStore(db, value.NewStore(db, models.NewRegistry())),
		pages: tree.New[models.Page](db),
	}
}

// seedPage creates a page below parent (nil for a root page).
func (e *testEnv) seedPage(t *testing.T, slug string, parent *models.Page) *models.Page {
	t.Helper()

	tpl := &models.Template{Slug: "tpl-" + slug, Name: slug, Code: ""}
	require.NoError(t, e.db.Create(tpl).Error)

	page := &models.Page{Slug: slug, Title: slug, TemplateID: tpl.ID}
	if parent != nil {
		page.ParentID = &parent.ID
	}

	require.NoError(t, e.pages.Create(page))

	return page
}

func (e *testEnv) commit(t *testing.T, c *Changes) {
	t.Helper()

	result := e.store.Commit(c)
	require.NoError(t, result.Err())
	assert.True(t, c.Empty())
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)

	return n
}

func TestRoundTrip(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)

	testCases := []struct {
		name     string
		payload  any
		expected any
	}{
		{name: "string", payload: "hello", expected: "hello"},
		{name: "int", payload: 42, expected: json.Number("42")},
		{name: "float", payload: 3.5, expected: json.Number("3.5")},
		{name: "large int", payload: int64(9007199254740993), expected: json.Number("9007199254740993")},
		{name: "bool", payload: false, expected: false},
		{name: "list", payload: []string{"a", "b"}, expected: []any{"a", "b"}},
		{name: "object", payload: map[string]any{"x": true}, expected: map[string]any{"x": true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := env.store.Stage(page)
			require.NoError(t, c.Set(tc.name, tc.payload))
			env.commit(t, c)

			got, err := env.store.Get(page, tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLastWriteWins(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)

	c := env.store.Stage(page)
	require.NoError(t, c.Set("title", "v1"))
	require.NoError(t, c.Set("title", "v2"))
	assert.Equal(t, []string{"title"}, c.Added())
	env.commit(t, c)

	got, err := env.store.Get(page, "title")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, int64(1), env.count(t, &models.Attribute{}))
	assert.Equal(t, int64(1), env.count(t, &models.JSONValue{}))

	// a later commit of the same key reuses the row
	c = env.store.Stage(page)
	require.NoError(t, c.Set("title", "v3"))
	env.commit(t, c)
	assert.Equal(t, int64(1), env.count(t, &models.JSONValue{}))
}

func TestSetDeleteToggle(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)

	c := env.store.Stage(page)
	require.NoError(t, c.Set("a", 1))
	c.Delete("a")
	assert.Empty(t, c.Added())
	assert.Equal(t, []string{"a"}, c.Removed())

	c.Delete("b")
	require.NoError(t, c.Set("b", 2))
	assert.Equal(t, []string{"b"}, c.Added())
	assert.Equal(t, []string{"a"}, c.Removed())

	env.commit(t, c)

	_, err := env.store.Get(page, "a")
	require.ErrorIs(t, err, ErrKeyNotFound)

	got, err := env.store.Get(page, "b")
	require.NoError(t, err)
	assert.Equal(t, json.Number("2"), got)
}

func TestDeleteRemovesRows(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)

	c := env.store.Stage(page)
	require.NoError(t, c.Set("a", "x"))
	require.NoError(t, c.Set("b", "y"))
	env.commit(t, c)

	c = env.store.Stage(page)
	c.Delete("a")
	c.Delete("missing")
	env.commit(t, c)

	keys, err := env.store.Keys(page)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
	assert.Equal(t, int64(1), env.count(t, &models.Attribute{}))
	assert.Equal(t, int64(1), env.count(t, &models.JSONValue{}))
}

func TestSetErrorsSurfaceImmediately(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)
	c := env.store.Stage(page)

	testCases := []struct {
		name          string
		key           string
		payload       any
		expectedError error
	}{
		{name: "empty key", key: "", payload: 1, expectedError: ErrKeyEmpty},
		{name: "not serializable", key: "fn", payload: func() {}, expectedError: value.ErrSerialization},
		{name: "unregistered type", key: "ct", payload: &unregistered{ID: 1}, expectedError: contenttype.ErrNotRegistered},
		{name: "mixed collection", key: "mix", payload: []any{page, "x"}, expectedError: value.ErrTypeMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Set(tc.key, tc.payload)
			require.ErrorIs(t, err, tc.expectedError)
		})
	}

	assert.True(t, c.Empty())
}

func TestKindSwitchThroughCommit(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)
	other := env.seedPage(t, "other", nil)

	c := env.store.Stage(page)
	require.NoError(t, c.Set("related", "not yet"))
	env.commit(t, c)
	require.Equal(t, int64(1), env.count(t, &models.JSONValue{}))

	c = env.store.Stage(page)
	require.NoError(t, c.Set("related", other))
	env.commit(t, c)

	assert.Equal(t, int64(0), env.count(t, &models.JSONValue{}))
	assert.Equal(t, int64(1), env.count(t, &models.ForeignKeyValue{}))

	got, err := env.store.Get(page, "related")
	require.NoError(t, err)
	require.IsType(t, &models.Page{}, got)
	assert.Equal(t, other.ID, got.(*models.Page).ID)
}

func TestMultiReferenceRoundTrip(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)

	tags := []*models.Tag{
		{Name: "Go", Slug: "go"},
		{Name: "CMS", Slug: "cms"},
	}
	require.NoError(t, env.db.Create(&tags).Error)

	c := env.store.Stage(page)
	require.NoError(t, c.Set("tags", tags))
	env.commit(t, c)

	got, err := env.store.Get(page, "tags")
	require.NoError(t, err)

	objs, ok := got.([]contenttype.Object)
	require.True(t, ok)

	ids := make([]uint, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.ObjectID())
	}

	assert.ElementsMatch(t, []uint{tags[0].ID, tags[1].ID}, ids)

	raw, err := env.store.Raw(page, "tags")
	require.NoError(t, err)
	assert.Equal(t, value.KindManyToMany, raw.Kind())
}

func TestReferenceByValue(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)

	tag := &models.Tag{Name: "Go", Slug: "go"}
	require.NoError(t, env.db.Create(tag).Error)

	c := env.store.Stage(page)
	require.NoError(t, c.Set("single", *tag))
	require.NoError(t, c.Set("slice", []models.Tag{*tag}))
	env.commit(t, c)

	raw, err := env.store.Raw(page, "single")
	require.NoError(t, err)
	assert.Equal(t, value.KindForeignKey, raw.Kind())

	raw, err = env.store.Raw(page, "slice")
	require.NoError(t, err)
	assert.Equal(t, value.KindManyToMany, raw.Kind())

	got, err := env.store.Get(page, "single")
	require.NoError(t, err)
	require.IsType(t, &models.Tag{}, got)
	assert.Equal(t, tag.ID, got.(*models.Tag).ID)
}

func TestPassthrough(t *testing.T) {
	env := setupEnv(t)
	parent := env.seedPage(t, "parent", nil)
	child := env.seedPage(t, "child", parent)
	grandchild := env.seedPage(t, "grandchild", child)

	c := env.store.Stage(parent)
	require.NoError(t, c.Set("k", "v"))
	require.NoError(t, c.Set("only-parent", 1))
	env.commit(t, c)

	attrs, err := ForNode(env.store, env.pages, grandchild)
	require.NoError(t, err)

	got, err := attrs.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	// the child overrides, the parent keeps its own value
	c = env.store.Stage(child)
	require.NoError(t, c.Set("k", "v2"))
	require.NoError(t, c.Set("only-child", 2))
	env.commit(t, c)

	got, err = attrs.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	got, err = env.store.Attributes(parent).Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	keys, err := attrs.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "only-child", "only-parent"}, keys)

	_, err = attrs.Get("nowhere")
	require.ErrorIs(t, err, ErrKeyNotFound)

	// the own view never falls through
	_, err = env.store.View(grandchild).Get("k")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestPartialCommit(t *testing.T) {
	env := setupEnv(t)
	page := env.seedPage(t, "home", nil)

	tag := &models.Tag{Name: "Go", Slug: "go"}
	require.NoError(t, env.db.Create(tag).Error)

	c := env.store.Stage(page)
	require.NoError(t, c.Set("plain", "ok"))
	require.NoError(t, c.Set("tags", []*models.Tag{tag}))

	// break the set table so only that key fails
	require.NoError(t, env.db.Migrator().DropTable(&models.ManyToManyValue{}))

	result := env.store.Commit(c)
	require.Error(t, result.Err())
	assert.False(t, result.OK())
	require.Len(t, result.Results, 2)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "tags", failed[0].Key)
	assert.Equal(t, OpSet, failed[0].Op)

	got, err := env.store.Get(page, "plain")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	_, err = env.store.Get(page, "tags")
	require.ErrorIs(t, err, ErrKeyNotFound)

	// the failed key stays staged for a retry
	assert.Equal(t, []string{"tags"}, c.Added())
}

func TestUnsavedOwner(t *testing.T) {
	env := setupEnv(t)
	page := &models.Page{Slug: "draft"}

	c := env.store.Stage(page)
	require.NoError(t, c.Set("a", 1))

	result := env.store.Commit(c)
	require.ErrorIs(t, result.Err(), ErrUnsavedOwner)

	_, err := env.store.Get(page, "a")
	require.ErrorIs(t, err, ErrUnsavedOwner)
}

type mapMapping map[string]any

func (m mapMapping) Get(key string) (any, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}

	return nil, ErrKeyNotFound
}

func (m mapMapping) Keys() ([]string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return keys, nil
}

func TestChain(t *testing.T) {
	chain := NewChain(
		mapMapping{"a": 1},
		mapMapping{"a": 2, "b": 2},
		mapMapping{"c": 3},
	)

	assert.Equal(t, 3, chain.Len())

	testCases := []struct {
		key      string
		expected any
	}{
		{key: "a", expected: 1},
		{key: "b", expected: 2},
		{key: "c", expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			got, err := chain.Get(tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	keys, err := chain.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	_, err = chain.Get("d")
	require.ErrorIs(t, err, ErrKeyNotFound)
}
