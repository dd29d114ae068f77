package templating

import "errors"

var (
	// ErrTemplateNotFound is returned when a loader has no template with the name.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrRecursiveExtends is returned when a template extends itself, directly or not.
	ErrRecursiveExtends = errors.New("recursive extends")
	// ErrTooDeep is returned when extends or include nesting exceeds the depth cap.
	ErrTooDeep = errors.New("template nesting too deep")
	// ErrSyntax is returned by Validate for code that does not parse.
	ErrSyntax = errors.New("template syntax error")
)
