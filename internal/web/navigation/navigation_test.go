package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("First post", "blog", "first-post")

	assert.Equal(t, "First post", ctx.PageTitle)
	assert.Equal(t, "blog", ctx.ActiveSection)
	assert.Equal(t, "first-post", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
	assert.Zero(t, ctx.Depth())

	_, ok := ctx.Up()
	assert.False(t, ok)
}

func TestBreadcrumbs(t *testing.T) {
	ctx := NewContext("First post", "blog", "first-post").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Blog", "/blog", false).
		AddBreadcrumb("First post", "/blog/first-post", true)

	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, 2, ctx.Depth())
	assert.True(t, ctx.Breadcrumbs[2].Active)

	up, ok := ctx.Up()
	assert.True(t, ok)
	assert.Equal(t, BreadcrumbItem{Title: "Blog", URL: "/blog"}, up)
}

func TestIsActive(t *testing.T) {
	testCases := []struct {
		name           string
		section        string
		page           string
		expectedActive bool
		expectedInSect bool
	}{
		{name: "both match", section: "admin", page: "pages", expectedActive: true, expectedInSect: true},
		{name: "other page", section: "admin", page: "templates", expectedInSect: true},
		{name: "other section", section: "blog", page: "pages"},
	}

	ctx := NewContext("Pages", "admin", "pages")

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedActive, ctx.IsActive(tc.section, tc.page))
			assert.Equal(t, tc.expectedInSect, ctx.IsSectionActive(tc.section))
		})
	}
}
