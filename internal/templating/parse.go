// Package templating loads, analyzes and renders stored Go templates.
//
// Templates call three functions besides the builtins:
//
//	{{container "name"}}     inserts the page contentlet called name
//	{{extends "path"}}       renders the template inside the one stored at path
//	{{include "path" .}}     inserts another stored template
//
// The Crawler lists the containers a template needs without rendering it.
// The Engine renders a template for a page.
package templating

import (
	"fmt"
	"text/template"
	"text/template/parse"
)

// Function names reserved by the CMS.
const (
	FuncContainer = "container"
	FuncExtends   = "extends"
	FuncInclude   = "include"
	FuncAttr      = "attr"
	FuncMarkdown  = "markdown"
)

// stubFuncs declares the CMS functions so templates parse before a render
// context exists. The stubs are replaced before execution.
func stubFuncs() template.FuncMap {
	return template.FuncMap{
		FuncContainer: func(string) string { return "" },
		FuncExtends:   func(string) string { return "" },
		FuncInclude:   func(string, ...any) string { return "" },
		FuncAttr:      func(string) any { return nil },
		FuncMarkdown:  func(string) string { return "" },
	}
}

// Validate parses code with the CMS functions declared.
func Validate(code string) error {
	if _, err := template.New("validate").Funcs(stubFuncs()).Parse(code); err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return nil
}

// parser compiles sources into parse trees, caching per version.
type parser struct {
	cache *cache[*template.Template]
}

func (p *parser) parse(src *Source) (*template.Template, error) {
	if t, ok := p.cache.get(src.Name, src.Version); ok {
		return t, nil
	}

	t, err := template.New(src.Name).Funcs(stubFuncs()).Parse(src.Code)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	p.cache.put(src.Name, src.Version, t)

	return t, nil
}

// call is a CMS function call with a constant first argument.
type call struct {
	fn  string
	arg string
}

// callOf returns the CMS call made by cmd. ok is false for other commands
// and for calls whose argument is not a string constant.
func callOf(cmd *parse.CommandNode) (c call, ok bool) {
	if len(cmd.Args) < 2 { //nolint:mnd
		return call{}, false
	}

	ident, isIdent := cmd.Args[0].(*parse.IdentifierNode)
	if !isIdent {
		return call{}, false
	}

	switch ident.Ident {
	case FuncContainer, FuncExtends, FuncInclude:
	default:
		return call{}, false
	}

	str, isString := cmd.Args[1].(*parse.StringNode)
	if !isString {
		return call{}, false
	}

	return call{fn: ident.Ident, arg: str.Text}, true
}

// children returns the pipelines held directly by node and its child lists.
func children(node parse.Node) (pipes []*parse.PipeNode, lists []*parse.ListNode) {
	switch n := node.(type) {
	case *parse.ListNode:
		return nil, []*parse.ListNode{n}
	case *parse.ActionNode:
		return []*parse.PipeNode{n.Pipe}, nil
	case *parse.IfNode:
		return []*parse.PipeNode{n.Pipe}, []*parse.ListNode{n.List, n.ElseList}
	case *parse.RangeNode:
		return []*parse.PipeNode{n.Pipe}, []*parse.ListNode{n.List, n.ElseList}
	case *parse.WithNode:
		return []*parse.PipeNode{n.Pipe}, []*parse.ListNode{n.List, n.ElseList}
	case *parse.TemplateNode:
		return []*parse.PipeNode{n.Pipe}, nil
	}

	return nil, nil
}

// commands returns the commands of pipe including those of nested pipelines.
func commands(pipe *parse.PipeNode) []*parse.CommandNode {
	if pipe == nil {
		return nil
	}

	var (
		out   []*parse.CommandNode
		stack = []*parse.PipeNode{pipe}
	)

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, cmd := range p.Cmds {
			out = append(out, cmd)

			for _, arg := range cmd.Args {
				if nested, ok := arg.(*parse.PipeNode); ok {
					stack = append(stack, nested)
				}
			}
		}
	}

	return out
}

// extendsOf returns the first constant extends target in the body of t,
// ignoring its define blocks.
func extendsOf(t *template.Template) (string, bool) {
	if t == nil || t.Tree == nil {
		return "", false
	}

	stack := []parse.Node{t.Tree.Root}

	for len(stack) > 0 {
		node := stack[0]
		stack = stack[1:]

		pipes, lists := children(node)

		for _, pipe := range pipes {
			for _, cmd := range commands(pipe) {
				if c, ok := callOf(cmd); ok && c.fn == FuncExtends {
					return c.arg, true
				}
			}
		}

		for _, list := range lists {
			if list == nil {
				continue
			}

			stack = append(stack, list.Nodes...)
		}
	}

	return "", false
}
