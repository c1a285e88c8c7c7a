package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ryandj11/AutoStack/internal/planner"
	"github.com/Ryandj11/AutoStack/internal/registry"
	"github.com/Ryandj11/AutoStack/internal/render"
	"github.com/Ryandj11/AutoStack/internal/writer"
)

func resolvedPlan(t *testing.T, req planner.Request) *planner.Plan {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)
	sel, err := planner.Select(reg, req)
	require.NoError(t, err)
	plan, err := planner.Resolve(sel)
	require.NoError(t, err)
	return plan
}

func TestCommitReport(t *testing.T) {
	plan := resolvedPlan(t, planner.Request{
		ProjectName: "myapp",
		Backend:     "fastapi",
		WithTests:   true,
	})
	result := &writer.Result{
		Root:      "myapp",
		Written:   []string{"README.md", "backend/main.py"},
		Preserved: []string{"notes.txt"},
	}

	out := Commit(plan, result)
	assert.Contains(t, out, "Modules applied")
	assert.Contains(t, out, "backend: fastapi")
	assert.Contains(t, out, "testing: pytest")
	assert.Contains(t, out, "Files written (2)")
	assert.Contains(t, out, "backend/main.py")
	assert.Contains(t, out, "Pre-existing files preserved (1)")
	assert.Contains(t, out, "notes.txt")

	// Disabled kinds are not listed.
	assert.NotContains(t, out, "none")
	assert.NotContains(t, out, "ci:")
}

func TestCommitReportNoPreserved(t *testing.T) {
	plan := resolvedPlan(t, planner.Request{ProjectName: "app", Backend: "flask"})
	result := &writer.Result{Root: "app", Written: []string{"README.md"}}

	out := Commit(plan, result)
	assert.NotContains(t, out, "preserved")
}

func TestDryRunReport(t *testing.T) {
	plan := resolvedPlan(t, planner.Request{ProjectName: "app", Backend: "express"})
	files := []render.File{
		{Path: "README.md", Content: []byte("# app\n")},
		{Path: "backend/index.js", Content: []byte("const app = 1;\n")},
	}

	out := DryRun(plan, files)
	assert.Contains(t, out, "Would write (2)")
	assert.Contains(t, out, "README.md (6 bytes)")
	assert.Contains(t, out, "backend/index.js")
	assert.False(t, strings.Contains(out, "Files written"), "dry run must not claim a commit")
}
