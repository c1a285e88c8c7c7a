package planner

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Ryandj11/AutoStack/internal/registry"
)

// Request is the structured generation request handed over by the CLI
// layer. Empty Backend/Frontend mean the "none" variant.
type Request struct {
	ProjectName string
	Backend     string
	Frontend    string
	WithDocker  bool
	WithTests   bool
	WithCI      bool
	Force       bool
}

// SelectedModule pairs a kind with the variant chosen for it.
type SelectedModule struct {
	Kind    registry.Kind
	Variant *registry.Variant
}

// Selection is the skeleton plan: the chosen variants in kind priority
// order, before dependency resolution, plus the request-derived context
// values seeded through the core module.
type Selection struct {
	Modules []SelectedModule
	Seed    map[string]any
}

// Select validates the requested combination against the registry and
// builds the skeleton selection. The core module is always included; the
// flag-driven kinds (docker, tests, ci) map to their canonical variants.
func Select(reg *registry.Registry, req Request) (*Selection, error) {
	if req.ProjectName == "" {
		return nil, fmt.Errorf("project name is required")
	}

	names := map[registry.Kind]string{
		registry.KindCore:      "core",
		registry.KindBackend:   normalize(req.Backend),
		registry.KindFrontend:  normalize(req.Frontend),
		registry.KindContainer: flagVariant(req.WithDocker, "compose"),
		registry.KindTesting:   flagVariant(req.WithTests, "pytest"),
		registry.KindCI:        flagVariant(req.WithCI, "github"),
	}

	// ProjectName may be a path; the name modules render is its last
	// element, so "work/myapp" and "myapp" produce the same project.
	sel := &Selection{
		Seed: map[string]any{"project.name": filepath.Base(req.ProjectName)},
	}
	for _, kind := range registry.Kinds() {
		v, err := reg.Lookup(kind, names[kind])
		if err != nil {
			var nf *registry.NotFoundError
			if errors.As(err, &nf) {
				return nil, &UnknownVariantError{Kind: nf.Kind, Name: nf.Name}
			}
			return nil, err
		}
		sel.Modules = append(sel.Modules, SelectedModule{Kind: kind, Variant: v})
	}

	if err := checkConflicts(sel); err != nil {
		return nil, err
	}

	return sel, nil
}

// checkConflicts rejects any selected variant that declares a conflict with
// another selected variant.
func checkConflicts(sel *Selection) error {
	selected := make(map[string]bool, len(sel.Modules))
	for _, m := range sel.Modules {
		selected[m.Variant.ID()] = true
	}

	for _, m := range sel.Modules {
		for _, conflict := range m.Variant.Conflicts {
			if selected[conflict] {
				return &IncompatibleModulesError{First: m.Variant.ID(), Second: conflict}
			}
		}
	}
	return nil
}

// normalize maps an absent user choice to the first-class "none" variant,
// so omitting --frontend and passing --frontend=none behave identically.
func normalize(name string) string {
	if name == "" {
		return "none"
	}
	return name
}

func flagVariant(enabled bool, name string) string {
	if enabled {
		return name
	}
	return "none"
}
