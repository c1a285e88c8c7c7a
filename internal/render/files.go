package render

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/Ryandj11/AutoStack/internal/planner"
	"github.com/Ryandj11/AutoStack/internal/registry"
)

// File is a fully rendered output file: resolved relative path and final
// content, staged in memory until the tree writer commits.
type File struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// RenderPlan materializes every output of every planned module, in plan
// order. Outputs guarded by a false (or absent) `when` predicate are
// skipped before path interpolation.
//
// Paths are resolved and checked for collisions across the whole plan
// before any content is rendered, so a duplicate output path fails even
// when one of the colliding entries could not have rendered.
func RenderPlan(r *Renderer, plan *planner.Plan) ([]File, error) {
	data := plan.Context.TemplateData()

	type pending struct {
		moduleID string
		relPath  string
		variant  *registry.Variant
		asset    string
	}

	var queue []pending
	emittedBy := make(map[string]string)

	for _, m := range plan.Modules {
		id := m.Variant.ID()
		for _, out := range m.Variant.Outputs {
			if out.When != "" && !plan.Context.Bool(out.When) {
				continue
			}

			rawPath, err := r.Render(id+":path:"+out.PathTemplate, out.PathTemplate, data)
			if err != nil {
				return nil, err
			}
			relPath := path.Clean(string(rawPath))
			if relPath == "." || path.IsAbs(relPath) || pathEscapes(relPath) {
				return nil, fmt.Errorf("module %s: output path %q escapes the project root", id, relPath)
			}

			if first, dup := emittedBy[relPath]; dup {
				return nil, &PathCollisionError{Path: relPath, First: first, Second: id}
			}
			emittedBy[relPath] = id

			queue = append(queue, pending{moduleID: id, relPath: relPath, variant: m.Variant, asset: out.Asset})
		}
	}

	files := make([]File, 0, len(queue))
	for _, p := range queue {
		asset, err := p.variant.Asset(p.asset)
		if err != nil {
			return nil, fmt.Errorf("module %s: reading asset %q: %w", p.moduleID, p.asset, err)
		}
		content, err := r.Render(p.moduleID+":"+p.asset, string(asset), data)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: p.relPath, Content: content, Mode: 0644})
	}

	return files, nil
}

func pathEscapes(relPath string) bool {
	return relPath == ".." || len(relPath) >= 3 && relPath[:3] == "../"
}
