package registry

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"
	"text/template/parse"
)

//go:embed all:templates
var templatesFS embed.FS

// Kind is a module category. Exactly one variant is selected per kind per
// run; every kind except core has a "none" variant.
type Kind string

const (
	KindCore      Kind = "core"
	KindBackend   Kind = "backend"
	KindFrontend  Kind = "frontend"
	KindTesting   Kind = "testing"
	KindContainer Kind = "containerization"
	KindCI        Kind = "ci"
)

// kindOrder is the fixed materialization priority. It breaks ties during
// dependency resolution so plans are deterministic.
var kindOrder = []Kind{KindCore, KindBackend, KindFrontend, KindTesting, KindContainer, KindCI}

// Priority returns the kind's position in the fixed ordering.
func (k Kind) Priority() int {
	for i, o := range kindOrder {
		if k == o {
			return i
		}
	}
	return len(kindOrder)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, o := range kindOrder {
		if k == o {
			return true
		}
	}
	return false
}

// Kinds returns all kinds in priority order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// Output is a single file a variant emits: a relative path template and the
// asset that produces its content. When names a boolean context key gating
// emission; an empty When emits unconditionally.
type Output struct {
	PathTemplate string
	Asset        string
	When         string
}

// Variant is one named implementation of a kind, e.g. backend "fastapi".
// Variants are immutable after Load.
type Variant struct {
	Kind      Kind
	Name      string
	Provides  map[string]any // context contributions, key → value
	Requires  []string       // context keys needed to render
	Optional  []string       // keys used only behind guards; order-only, never fatal
	Conflicts []string       // "kind:name" variant ids this cannot combine with
	Outputs   []Output

	dir string // variant directory inside the embedded filesystem
}

// ID returns the variant's unique "kind:name" identifier.
func (v *Variant) ID() string {
	return string(v.Kind) + ":" + v.Name
}

// Asset reads a template asset from the variant's directory.
func (v *Variant) Asset(name string) ([]byte, error) {
	return templatesFS.ReadFile(path.Join(v.dir, name))
}

// Registry holds every registered variant, indexed by kind and name.
type Registry struct {
	variants map[Kind]map[string]*Variant
}

// Load builds the registry from the embedded template tree. It walks
// templates/ for manifest.yml files, validates each variant (assets present,
// path templates well-formed and referencing only declared variables), and
// fails fast with *LoadError on any inconsistency.
func Load() (*Registry, error) {
	r := &Registry{variants: make(map[Kind]map[string]*Variant)}

	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "manifest.yml" {
			return nil
		}

		data, err := templatesFS.ReadFile(p)
		if err != nil {
			return &LoadError{Manifest: p, Reason: "unreadable manifest", Err: err}
		}

		m, err := parseManifest(p, data)
		if err != nil {
			return err
		}

		v := &Variant{
			Kind:      Kind(m.Kind),
			Name:      m.Name,
			Provides:  m.Provides,
			Requires:  m.Requires,
			Optional:  m.Optional,
			Conflicts: m.Conflicts,
			dir:       path.Dir(p),
		}
		for _, out := range m.Outputs {
			v.Outputs = append(v.Outputs, Output{PathTemplate: out.Path, Asset: out.Asset, When: out.When})
		}

		if err := validateVariant(p, v); err != nil {
			return err
		}

		byName := r.variants[v.Kind]
		if byName == nil {
			byName = make(map[string]*Variant)
			r.variants[v.Kind] = byName
		}
		if _, dup := byName[v.Name]; dup {
			return &LoadError{Manifest: p, Reason: fmt.Sprintf("duplicate variant %s", v.ID())}
		}
		byName[v.Name] = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, ok := r.variants[KindCore]["core"]; !ok {
		return nil, &LoadError{Manifest: "templates", Reason: "core variant missing"}
	}

	return r, nil
}

// Lookup returns the variant registered for kind under name, or
// *NotFoundError if nothing matches.
func (r *Registry) Lookup(kind Kind, name string) (*Variant, error) {
	v, ok := r.variants[kind][name]
	if !ok {
		return nil, &NotFoundError{Kind: kind, Name: name}
	}
	return v, nil
}

// Variants returns the variants registered for a kind, sorted by name.
func (r *Registry) Variants(kind Kind) []*Variant {
	out := make([]*Variant, 0, len(r.variants[kind]))
	for _, v := range r.variants[kind] {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// validateVariant checks that every declared asset exists and every path
// template parses and references only variables the variant declares
// (its own contributions plus its declared dependencies).
func validateVariant(manifestPath string, v *Variant) error {
	declared := make(map[string]bool, len(v.Provides)+len(v.Requires)+len(v.Optional))
	for key := range v.Provides {
		declared[key] = true
	}
	for _, key := range v.Requires {
		declared[key] = true
	}
	for _, key := range v.Optional {
		declared[key] = true
	}

	for _, out := range v.Outputs {
		if out.When != "" && !declared[out.When] {
			return &LoadError{
				Manifest: manifestPath,
				Reason:   fmt.Sprintf("output %q guarded by undeclared variable %q", out.PathTemplate, out.When),
			}
		}

		if _, err := templatesFS.ReadFile(path.Join(v.dir, out.Asset)); err != nil {
			return &LoadError{
				Manifest: manifestPath,
				Reason:   fmt.Sprintf("asset %q not found for output %q", out.Asset, out.PathTemplate),
				Err:      err,
			}
		}

		tmpl, err := template.New(out.PathTemplate).Parse(out.PathTemplate)
		if err != nil {
			return &LoadError{
				Manifest: manifestPath,
				Reason:   fmt.Sprintf("invalid path template %q", out.PathTemplate),
				Err:      err,
			}
		}
		for _, key := range templateFields(tmpl) {
			if !declared[key] {
				return &LoadError{
					Manifest: manifestPath,
					Reason:   fmt.Sprintf("path template %q references undeclared variable %q", out.PathTemplate, key),
				}
			}
		}
	}

	return nil
}

// templateFields returns the dotted context keys referenced by a parsed
// template, e.g. "frontend.dir" for {{ .frontend.dir }}.
func templateFields(tmpl *template.Template) []string {
	var keys []string
	if tmpl.Tree == nil || tmpl.Tree.Root == nil {
		return keys
	}
	collectFields(tmpl.Tree.Root, &keys)
	return keys
}

func collectFields(node parse.Node, keys *[]string) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			collectFields(child, keys)
		}
	case *parse.ActionNode:
		collectPipeFields(n.Pipe, keys)
	case *parse.IfNode:
		collectPipeFields(n.Pipe, keys)
		collectFields(n.List, keys)
		if n.ElseList != nil {
			collectFields(n.ElseList, keys)
		}
	case *parse.RangeNode:
		collectPipeFields(n.Pipe, keys)
		collectFields(n.List, keys)
		if n.ElseList != nil {
			collectFields(n.ElseList, keys)
		}
	case *parse.WithNode:
		collectPipeFields(n.Pipe, keys)
		collectFields(n.List, keys)
		if n.ElseList != nil {
			collectFields(n.ElseList, keys)
		}
	}
}

func collectPipeFields(pipe *parse.PipeNode, keys *[]string) {
	if pipe == nil {
		return
	}
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			if field, ok := arg.(*parse.FieldNode); ok {
				*keys = append(*keys, strings.Join(field.Ident, "."))
			}
		}
	}
}
