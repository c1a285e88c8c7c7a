package planner

import (
	"fmt"
	"strings"

	"github.com/Ryandj11/AutoStack/internal/registry"
)

// UnknownVariantError reports a requested variant name that is not
// registered for its kind.
type UnknownVariantError struct {
	Kind registry.Kind
	Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s variant %q", e.Kind, e.Name)
}

// IncompatibleModulesError reports two selected variants that declare they
// cannot be combined.
type IncompatibleModulesError struct {
	First  string // variant id, e.g. "testing:pytest"
	Second string // variant id it conflicts with
}

func (e *IncompatibleModulesError) Error() string {
	return fmt.Sprintf("incompatible modules: %s cannot be combined with %s", e.First, e.Second)
}

// CircularDependencyError reports a context-dependency cycle between the
// listed modules. Members are sorted for stable messages.
type CircularDependencyError struct {
	Members []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular context dependency between modules: %s", strings.Join(e.Members, ", "))
}

// UnsatisfiedDependencyError reports a context key a module needs that no
// selected module contributes.
type UnsatisfiedDependencyError struct {
	Key    string
	Module string // variant id of the requesting module
}

func (e *UnsatisfiedDependencyError) Error() string {
	return fmt.Sprintf("module %s depends on context key %q, which no selected module contributes", e.Module, e.Key)
}

// ContextConflictError reports a context key contributed by two different
// modules. Contributions are never silently overwritten.
type ContextConflictError struct {
	Key    string
	First  string // variant id of the earlier contributor
	Second string // variant id of the later contributor
}

func (e *ContextConflictError) Error() string {
	return fmt.Sprintf("context key %q contributed by both %s and %s", e.Key, e.First, e.Second)
}
