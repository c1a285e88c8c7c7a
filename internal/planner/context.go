package planner

import (
	"errors"
	"sort"
	"strings"
)

// Context is the shared variable space modules contribute to and render
// from. Keys are dotted, e.g. "backend.port". A key may be contributed once;
// a second contribution is a conflict, never an overwrite. After Freeze the
// context is read-only.
type Context struct {
	values       map[string]any
	contributors map[string]string // key → variant id that contributed it
	frozen       bool
}

// NewContext returns an empty, unfrozen context.
func NewContext() *Context {
	return &Context{
		values:       make(map[string]any),
		contributors: make(map[string]string),
	}
}

// Contribute records a key/value pair on behalf of a module. It fails with
// *ContextConflictError if the key was already contributed, and refuses any
// contribution after Freeze.
func (c *Context) Contribute(moduleID, key string, value any) error {
	if c.frozen {
		return errors.New("context is frozen")
	}
	if first, ok := c.contributors[key]; ok {
		return &ContextConflictError{Key: key, First: first, Second: moduleID}
	}
	c.values[key] = value
	c.contributors[key] = moduleID
	return nil
}

// Value returns the value for a key and whether it exists.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Bool returns the value for a key interpreted as a guard predicate:
// true only if the key exists and holds boolean true.
func (c *Context) Bool(key string) bool {
	v, ok := c.values[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Keys returns all contributed keys, sorted.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Freeze makes the context read-only. Resolution freezes the context before
// any rendering begins.
func (c *Context) Freeze() {
	c.frozen = true
}

// TemplateData expands the flat dotted keys into nested maps for template
// execution: "backend.port" becomes data["backend"]["port"].
func (c *Context) TemplateData() map[string]any {
	data := make(map[string]any)
	for key, value := range c.values {
		parts := strings.Split(key, ".")
		node := data
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return data
}
