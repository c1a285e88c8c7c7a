package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/Ryandj11/AutoStack/internal/planner"
	"github.com/Ryandj11/AutoStack/internal/registry"
)

func resolvePlan(t *testing.T, req planner.Request) *planner.Plan {
	t.Helper()
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load() error = %v", err)
	}
	sel, err := planner.Select(reg, req)
	if err != nil {
		t.Fatalf("planner.Select() error = %v", err)
	}
	plan, err := planner.Resolve(sel)
	if err != nil {
		t.Fatalf("planner.Resolve() error = %v", err)
	}
	return plan
}

func fileByPath(files []File, path string) *File {
	for i := range files {
		if files[i].Path == path {
			return &files[i]
		}
	}
	return nil
}

func TestRenderPlanFullStack(t *testing.T) {
	plan := resolvePlan(t, planner.Request{
		ProjectName: "myapp",
		Backend:     "fastapi",
		Frontend:    "react",
		WithDocker:  true,
		WithTests:   true,
		WithCI:      true,
	})

	files, err := RenderPlan(NewRenderer(), plan)
	if err != nil {
		t.Fatalf("RenderPlan() error = %v", err)
	}

	wantPaths := []string{
		".gitignore",
		"README.md",
		"backend/main.py",
		"backend/requirements.txt",
		"backend/tests/test_main.py",
		"client/package.json",
		"client/vite.config.js",
		"client/src/App.jsx",
		"Dockerfile",
		"docker-compose.yml",
		"client/Dockerfile.frontend",
		".github/workflows/ci.yml",
	}
	for _, p := range wantPaths {
		if fileByPath(files, p) == nil {
			t.Errorf("RenderPlan() missing file %q", p)
		}
	}

	readme := fileByPath(files, "README.md")
	if readme == nil || !strings.Contains(string(readme.Content), "# myapp") {
		t.Errorf("README.md missing project name, got %q", readme.Content)
	}

	vite := fileByPath(files, "client/vite.config.js")
	if vite == nil || !strings.Contains(string(vite.Content), "http://localhost:8000") {
		t.Errorf("vite.config.js missing backend proxy, got %q", vite.Content)
	}

	compose := fileByPath(files, "docker-compose.yml")
	if compose == nil || !strings.Contains(string(compose.Content), "myapp-frontend") {
		t.Errorf("docker-compose.yml missing frontend service, got %q", compose.Content)
	}

	for _, f := range files {
		if f.Mode != 0644 {
			t.Errorf("file %s mode = %o, want 0644", f.Path, f.Mode)
		}
	}
}

func TestRenderPlanGuardedOutputSkipped(t *testing.T) {
	plan := resolvePlan(t, planner.Request{
		ProjectName: "api-only",
		Backend:     "flask",
		WithDocker:  true,
	})

	files, err := RenderPlan(NewRenderer(), plan)
	if err != nil {
		t.Fatalf("RenderPlan() error = %v", err)
	}

	for _, f := range files {
		if strings.Contains(f.Path, "Dockerfile.frontend") {
			t.Errorf("guarded output %q emitted without a frontend", f.Path)
		}
	}

	compose := fileByPath(files, "docker-compose.yml")
	if compose == nil {
		t.Fatal("RenderPlan() missing docker-compose.yml")
	}
	if strings.Contains(string(compose.Content), "frontend:") {
		t.Errorf("docker-compose.yml includes a frontend service:\n%s", compose.Content)
	}
	if !strings.Contains(string(compose.Content), `"5000:5000"`) {
		t.Errorf("docker-compose.yml missing flask port mapping:\n%s", compose.Content)
	}
}

func TestRenderPlanNoneVariantsEmitNothing(t *testing.T) {
	plan := resolvePlan(t, planner.Request{ProjectName: "bare"})

	files, err := RenderPlan(NewRenderer(), plan)
	if err != nil {
		t.Fatalf("RenderPlan() error = %v", err)
	}

	// Only the core module emits files in an all-none selection.
	if len(files) != 2 {
		var paths []string
		for _, f := range files {
			paths = append(paths, f.Path)
		}
		t.Fatalf("RenderPlan() = %v, want only .gitignore and README.md", paths)
	}
}

func frozenContext(t *testing.T) *planner.Context {
	t.Helper()
	ctx := planner.NewContext()
	ctx.Freeze()
	return ctx
}

func TestRenderPlanPathCollision(t *testing.T) {
	plan := &planner.Plan{
		Modules: []planner.PlannedModule{
			{Kind: registry.KindBackend, Variant: &registry.Variant{
				Kind:    registry.KindBackend,
				Name:    "a",
				Outputs: []registry.Output{{PathTemplate: "config.yml", Asset: "a.tmpl"}},
			}},
			{Kind: registry.KindFrontend, Variant: &registry.Variant{
				Kind:    registry.KindFrontend,
				Name:    "b",
				Outputs: []registry.Output{{PathTemplate: "config.yml", Asset: "b.tmpl"}},
			}},
		},
		Context: frozenContext(t),
	}

	_, err := RenderPlan(NewRenderer(), plan)
	var collision *PathCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("RenderPlan() error = %v, want *PathCollisionError", err)
	}
	if collision.Path != "config.yml" {
		t.Errorf("Path = %q, want %q", collision.Path, "config.yml")
	}
	if collision.First != "backend:a" || collision.Second != "frontend:b" {
		t.Errorf("collision between %s and %s, want backend:a and frontend:b", collision.First, collision.Second)
	}
}

func TestRenderPlanRejectsEscapingPath(t *testing.T) {
	tests := []string{"../evil", "/etc/passwd", "nested/../../evil", "."}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			plan := &planner.Plan{
				Modules: []planner.PlannedModule{
					{Kind: registry.KindBackend, Variant: &registry.Variant{
						Kind:    registry.KindBackend,
						Name:    "a",
						Outputs: []registry.Output{{PathTemplate: path, Asset: "a.tmpl"}},
					}},
				},
				Context: frozenContext(t),
			}

			if _, err := RenderPlan(NewRenderer(), plan); err == nil {
				t.Errorf("RenderPlan() accepted path %q", path)
			}
		})
	}
}
