package planner

import (
	"sort"

	"github.com/Ryandj11/AutoStack/internal/registry"
)

// PlannedModule is one entry of the resolved plan.
type PlannedModule struct {
	Kind    registry.Kind
	Variant *registry.Variant
}

// Plan is the fully resolved module plan: modules in materialization order
// and the frozen context. Every key a module requires is contributed before
// that module's position in the order.
type Plan struct {
	Modules []PlannedModule
	Context *Context
}

// Resolve orders the selection topologically over its context contracts and
// populates the context. An edge runs from a module to the module that
// contributes a key it requires. Ties are broken by the fixed kind priority
// so identical selections always resolve to the identical plan. Optional
// dependencies order rendering when their provider is selected but are
// never an error when it is not.
//
// Seed values from the selection override the manifest placeholder of the
// matching contribution (the core module declares project.name with an
// empty placeholder; the real name comes from the request).
func Resolve(sel *Selection) (*Plan, error) {
	modules := sel.Modules

	// Index contributions. A key with two providers is a conflict no matter
	// how the modules would be ordered.
	providers := make(map[string]*registry.Variant)
	for _, m := range modules {
		for _, key := range sortedKeys(m.Variant.Provides) {
			if prev, ok := providers[key]; ok {
				return nil, &ContextConflictError{Key: key, First: prev.ID(), Second: m.Variant.ID()}
			}
			providers[key] = m.Variant
		}
	}

	// Build dependency edges: dependent → set of provider ids.
	deps := make(map[string]map[string]bool, len(modules))
	dependents := make(map[string][]string, len(modules))
	byID := make(map[string]SelectedModule, len(modules))
	for _, m := range modules {
		id := m.Variant.ID()
		byID[id] = m
		deps[id] = make(map[string]bool)

		for _, key := range m.Variant.Requires {
			p, ok := providers[key]
			if !ok {
				return nil, &UnsatisfiedDependencyError{Key: key, Module: id}
			}
			if p.ID() != id {
				deps[id][p.ID()] = true
			}
		}
		for _, key := range m.Variant.Optional {
			if p, ok := providers[key]; ok && p.ID() != id {
				deps[id][p.ID()] = true
			}
		}
	}
	for id, set := range deps {
		for provider := range set {
			dependents[provider] = append(dependents[provider], id)
		}
	}

	// Kahn's algorithm with a priority-ordered ready set.
	indegree := make(map[string]int, len(modules))
	var ready []string
	for id, set := range deps {
		indegree[id] = len(set)
		if len(set) == 0 {
			ready = append(ready, id)
		}
	}

	var order []PlannedModule
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			a, b := byID[ready[i]], byID[ready[j]]
			if a.Kind != b.Kind {
				return a.Kind.Priority() < b.Kind.Priority()
			}
			return a.Variant.Name < b.Variant.Name
		})

		id := ready[0]
		ready = ready[1:]
		m := byID[id]
		order = append(order, PlannedModule{Kind: m.Kind, Variant: m.Variant})

		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) < len(modules) {
		var members []string
		for id, n := range indegree {
			if n > 0 {
				members = append(members, id)
			}
		}
		sort.Strings(members)
		return nil, &CircularDependencyError{Members: members}
	}

	// Apply contributions in plan order, then freeze.
	ctx := NewContext()
	for _, m := range order {
		for _, key := range sortedKeys(m.Variant.Provides) {
			value := m.Variant.Provides[key]
			if seeded, ok := sel.Seed[key]; ok {
				value = seeded
			}
			if err := ctx.Contribute(m.Variant.ID(), key, value); err != nil {
				return nil, err
			}
		}
	}
	ctx.Freeze()

	return &Plan{Modules: order, Context: ctx}, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
