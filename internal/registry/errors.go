package registry

import "fmt"

// NotFoundError is returned by Lookup when no variant with the requested
// name is registered for a kind.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s variant named %q", e.Kind, e.Name)
}

// LoadError indicates the embedded template set is inconsistent: a manifest
// is malformed, references a missing asset, or a path template uses an
// undeclared variable. It always means a broken build, never bad user input.
type LoadError struct {
	Manifest string // manifest path inside the embedded filesystem
	Reason   string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading template registry: %s: %s: %v", e.Manifest, e.Reason, e.Err)
	}
	return fmt.Sprintf("loading template registry: %s: %s", e.Manifest, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }
