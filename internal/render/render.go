// Package render expands module template assets into concrete files.
//
// Rendering is pure: a module's render reads only the frozen plan context,
// never another module's rendered output. That property is what lets the
// planner order modules by declared context contracts alone.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"text/template"
)

// Renderer parses and executes templates with caching. Missing context
// variables are errors, never empty substitutions.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the built-in helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Render executes a template from its source text. The name is used for
// caching and error reporting.
func (r *Renderer) Render(name, text string, data any) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()

	if !ok {
		var err error
		tmpl, err = template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.mu.Lock()
		r.cache[name] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, &TemplateVariableError{
			Template: name,
			Variable: missingKey(err),
			Err:      err,
		}
	}
	return buf.Bytes(), nil
}

var missingKeyRe = regexp.MustCompile(`map has no entry for key "([^"]+)"`)

// missingKey pulls the offending key out of a text/template execution
// error, when the error is a missing-map-key failure.
func missingKey(err error) string {
	m := missingKeyRe.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	return m[1]
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     title,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,
		"quote":     func(s string) string { return fmt.Sprintf("%q", s) },
	}
}

// title capitalizes the first letter of each word. Replaces the deprecated
// strings.Title.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
