package templating

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gophilo/gophilo/internal/attribute"
	"github.com/gophilo/gophilo/internal/db/models"
)

type mapMapping map[string]any

func (m mapMapping) Get(key string) (any, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}

	return nil, attribute.ErrKeyNotFound
}

func (m mapMapping) Keys() ([]string, error) {
	return nil, nil
}

func newTestContext() *Context {
	page := &models.Page{ID: 1, Slug: "home", Title: "Home"}

	return NewContext(page, []models.Contentlet{
		{Name: "body", Content: "<b>hi</b>"},
		{Name: "intro", Content: "# Welcome", Format: models.ContentletFormatMarkdown},
		{Name: "live", Content: `{{.Page.Title}}!`, Dynamic: true},
		{Name: "nested", Content: `[{{container "body"}}]`, Dynamic: true},
	}, mapMapping{"color": "blue"})
}

func TestRender(t *testing.T) {
	loader := MapLoader{
		"base":       `<h1>{{.Page.Title}}</h1>{{block "content" .}}default{{end}}`,
		"page":       `{{extends "base"}}{{define "content"}}<p>{{container "body"}}</p>{{end}}`,
		"grandchild": `{{extends "page"}}ignored body{{define "content"}}<i>{{container "live"}}</i>{{end}}`,
		"markdown":   `{{container "intro"}}`,
		"dynamic":    `{{container "nested"}}`,
		"missing":    `[{{container "nothing"}}]`,
		"include":    `A{{include "partial" .}}B`,
		"partial":    `({{.Page.Slug}})`,
		"attr":       `{{attr "color"}}/{{with attr "unknown"}}set{{else}}unset{{end}}`,
		"md-func":    `{{markdown "*x*"}}`,
		"escaping":   `{{.Data.raw}}`,
	}

	testCases := []struct {
		name     string
		template string
		expected string
	}{
		{name: "plain block default", template: "base", expected: "<h1>Home</h1>default"},
		{name: "extends overrides block", template: "page", expected: "<h1>Home</h1><p><b>hi</b></p>"},
		{name: "extends chain", template: "grandchild", expected: "<h1>Home</h1><i>Home!</i>"},
		{name: "markdown contentlet", template: "markdown", expected: "<h1>Welcome</h1>\n"},
		{name: "dynamic contentlet", template: "dynamic", expected: "[<b>hi</b>]"},
		{name: "missing container", template: "missing", expected: "[]"},
		{name: "include", template: "include", expected: "A(home)B"},
		{name: "attributes", template: "attr", expected: "blue/unset"},
		{name: "markdown function", template: "md-func", expected: "<p><em>x</em></p>\n"},
		{name: "data is escaped", template: "escaping", expected: "&lt;script&gt;"},
	}

	engine := NewEngine(loader)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newTestContext()
			ctx.Data["raw"] = "<script>"

			var buf bytes.Buffer
			require.NoError(t, engine.Render(&buf, tc.template, ctx))
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestRenderRepeatedlyFromCache(t *testing.T) {
	loader := MapLoader{
		"base": `[{{block "content" .}}{{end}}]`,
		"page": `{{extends "base"}}{{define "content"}}{{.Page.Title}}{{end}}`,
	}
	engine := NewEngine(loader, WithCache(true))

	for _, title := range []string{"One", "Two"} {
		ctx := newTestContext()
		ctx.Page.Title = title

		var buf bytes.Buffer
		require.NoError(t, engine.Render(&buf, "page", ctx))
		assert.Equal(t, "["+title+"]", buf.String())
	}

	// a changed parent invalidates the compiled child
	loader["base"] = `({{block "content" .}}{{end}})`

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "page", newTestContext()))
	assert.Equal(t, "(Home)", buf.String())
}

func TestRenderErrors(t *testing.T) {
	loader := MapLoader{
		"loop-a":    `{{extends "loop-b"}}`,
		"loop-b":    `{{extends "loop-a"}}`,
		"self-inc":  `x{{include "self-inc"}}`,
		"orphan":    `{{extends "nowhere"}}`,
		"bad-inner": `{{container "broken"}}`,
	}

	engine := NewEngine(loader, WithMaxDepth(3))

	testCases := []struct {
		name          string
		template      string
		expectedError error
	}{
		{name: "recursive extends", template: "loop-a", expectedError: ErrRecursiveExtends},
		{name: "recursive include", template: "self-inc", expectedError: ErrTooDeep},
		{name: "missing parent", template: "orphan", expectedError: ErrTemplateNotFound},
		{name: "missing template", template: "nowhere", expectedError: ErrTemplateNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := engine.Render(&buf, tc.template, newTestContext())
			require.ErrorIs(t, err, tc.expectedError)
		})
	}

	t.Run("broken dynamic contentlet", func(t *testing.T) {
		ctx := newTestContext()
		ctx.Contentlets["broken"] = &models.Contentlet{Name: "broken", Content: "{{", Dynamic: true}

		var buf bytes.Buffer
		require.Error(t, engine.Render(&buf, "bad-inner", ctx))
	})
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		code          string
		expectedError error
	}{
		{name: "plain", code: "<p>hi</p>"},
		{name: "cms functions", code: `{{extends "base"}}{{define "main"}}{{container "body"}}{{include "x" .}}{{attr "k"}}{{end}}`},
		{name: "unclosed action", code: "{{if .Page}}", expectedError: ErrSyntax},
		{name: "unknown function", code: `{{nope "x"}}`, expectedError: ErrSyntax},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.code)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
		})
	}
}
