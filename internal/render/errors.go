package render

import "fmt"

// TemplateVariableError reports a template referencing a context variable
// that was never contributed. Variable is the failing key segment when it
// can be recovered from the template engine, otherwise empty.
type TemplateVariableError struct {
	Template string // template name, e.g. "backend:fastapi/main.py.tmpl"
	Variable string
	Err      error
}

func (e *TemplateVariableError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("template %s references unresolved variable %q", e.Template, e.Variable)
	}
	return fmt.Sprintf("template %s failed to render: %v", e.Template, e.Err)
}

func (e *TemplateVariableError) Unwrap() error { return e.Err }

// PathCollisionError reports two output entries resolving to the same
// relative path. It is fatal before anything touches the disk.
type PathCollisionError struct {
	Path   string
	First  string // variant id of the first module emitting the path
	Second string // variant id of the second
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("output path %q emitted by both %s and %s", e.Path, e.First, e.Second)
}
