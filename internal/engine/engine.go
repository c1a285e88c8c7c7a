// Package engine runs the composition pipeline: select modules, resolve
// their context dependencies, render every output file in memory, and
// commit the tree atomically. Each stage either succeeds completely or
// fails with a typed error from the stage's package; nothing touches the
// disk before the commit stage.
package engine

import (
	"context"
	"fmt"

	"github.com/Ryandj11/AutoStack/internal/output"
	"github.com/Ryandj11/AutoStack/internal/planner"
	"github.com/Ryandj11/AutoStack/internal/registry"
	"github.com/Ryandj11/AutoStack/internal/render"
	"github.com/Ryandj11/AutoStack/internal/writer"
)

// Engine generates project trees from a loaded template registry. The
// registry is immutable, so one engine can serve many requests.
type Engine struct {
	reg      *registry.Registry
	renderer *render.Renderer
}

// New creates an engine over a loaded registry.
func New(reg *registry.Registry) *Engine {
	return &Engine{
		reg:      reg,
		renderer: render.NewRenderer(),
	}
}

// Options configures a generation run.
type Options struct {
	// DryRun plans and renders everything but never touches the disk.
	DryRun bool

	// Inspect, when set, is called with the rendered file set after
	// rendering and before the commit. Returning an error aborts the run
	// with nothing written. The CLI uses this to show overwrite diffs and
	// ask for confirmation.
	Inspect func([]render.File) error
}

// Run is the outcome of a generation: the resolved plan, the rendered file
// set, and the commit result (nil on dry runs).
type Run struct {
	Plan   *planner.Plan
	Files  []render.File
	Result *writer.Result
}

// Plan selects and resolves the request without rendering anything.
func (e *Engine) Plan(req planner.Request) (*planner.Plan, error) {
	sel, err := planner.Select(e.reg, req)
	if err != nil {
		return nil, err
	}
	return planner.Resolve(sel)
}

// Generate runs the full pipeline for one request.
func (e *Engine) Generate(ctx context.Context, req planner.Request, opts Options) (*Run, error) {
	plan, err := e.Plan(req)
	if err != nil {
		return nil, err
	}
	output.Verbose(fmt.Sprintf("Resolved plan: %d modules, %d context keys",
		len(plan.Modules), len(plan.Context.Keys())))

	files, err := render.RenderPlan(e.renderer, plan)
	if err != nil {
		return nil, err
	}
	output.Verbose(fmt.Sprintf("Rendered %d files", len(files)))

	run := &Run{Plan: plan, Files: files}
	if opts.DryRun {
		return run, nil
	}

	if opts.Inspect != nil {
		if err := opts.Inspect(files); err != nil {
			return nil, err
		}
	}

	result, err := writer.Commit(ctx, req.ProjectName, files, writer.Options{Force: req.Force})
	if err != nil {
		return nil, err
	}
	output.Verbose(fmt.Sprintf("Committed %d files to %s", len(result.Written), result.Root))

	run.Result = result
	return run, nil
}
