package templating

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})

	return markdownInstance
}

// Markdown converts source to HTML. Raw HTML in source is omitted.
func Markdown(source string) (template.HTML, error) {
	var buf bytes.Buffer

	if err := getMarkdown().Convert([]byte(source), &buf); err != nil {
		return "", err //nolint:wrapcheck
	}

	return template.HTML(buf.String()), nil //nolint:gosec
}
