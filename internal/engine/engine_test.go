package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ryandj11/AutoStack/internal/planner"
	"github.com/Ryandj11/AutoStack/internal/registry"
	"github.com/Ryandj11/AutoStack/internal/render"
	"github.com/Ryandj11/AutoStack/internal/writer"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)
	return New(reg)
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func TestGenerateFullStack(t *testing.T) {
	root := filepath.Join(t.TempDir(), "myapp")
	e := newEngine(t)

	run, err := e.Generate(context.Background(), planner.Request{
		ProjectName: root,
		Backend:     "fastapi",
		Frontend:    "react",
		WithDocker:  true,
		WithTests:   true,
		WithCI:      true,
	}, Options{})
	require.NoError(t, err)
	require.NotNil(t, run.Result)

	tree := readTree(t, root)
	for _, p := range []string{
		".gitignore",
		"README.md",
		"backend/main.py",
		"backend/requirements.txt",
		"backend/tests/test_main.py",
		"backend/requirements-dev.txt",
		"client/package.json",
		"client/vite.config.js",
		"client/index.html",
		"client/src/main.jsx",
		"client/src/App.jsx",
		"client/Dockerfile.frontend",
		"Dockerfile",
		"docker-compose.yml",
		".github/workflows/ci.yml",
	} {
		assert.Contains(t, tree, p)
	}
	assert.Len(t, tree, 15)

	assert.Contains(t, tree["backend/main.py"], "FastAPI")
	assert.Contains(t, tree["client/vite.config.js"], "http://localhost:8000")
	assert.Contains(t, tree["docker-compose.yml"], "frontend:")
}

func TestGenerateBackendOnly(t *testing.T) {
	root := filepath.Join(t.TempDir(), "api")
	e := newEngine(t)

	run, err := e.Generate(context.Background(), planner.Request{
		ProjectName: root,
		Backend:     "express",
	}, Options{})
	require.NoError(t, err)
	require.NotNil(t, run.Result)

	tree := readTree(t, root)
	assert.Contains(t, tree, "backend/index.js")
	assert.Contains(t, tree, "backend/package.json")
	for p := range tree {
		assert.False(t, strings.HasPrefix(p, "client/"), "unexpected frontend file %q", p)
	}
	assert.NotContains(t, tree, "Dockerfile")
	assert.NotContains(t, tree, ".github/workflows/ci.yml")
}

func TestGenerateFrontendOnly(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	e := newEngine(t)

	_, err := e.Generate(context.Background(), planner.Request{
		ProjectName: root,
		Frontend:    "react",
	}, Options{})
	require.NoError(t, err)

	tree := readTree(t, root)
	assert.Contains(t, tree, "client/vite.config.js")
	for p := range tree {
		assert.False(t, strings.HasPrefix(p, "backend/"), "unexpected backend file %q", p)
	}

	// No backend means no dev server proxy.
	assert.NotContains(t, tree["client/vite.config.js"], "proxy")
}

func TestGenerateInvalidCombination(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name string
		req  planner.Request
		want any
	}{
		{
			name: "unknown backend",
			req:  planner.Request{Backend: "rails"},
			want: new(*planner.UnknownVariantError),
		},
		{
			name: "pytest with express",
			req:  planner.Request{Backend: "express", WithTests: true},
			want: new(*planner.IncompatibleModulesError),
		},
		{
			name: "docker without backend",
			req:  planner.Request{WithDocker: true},
			want: new(*planner.IncompatibleModulesError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "app")
			tt.req.ProjectName = root

			_, err := e.Generate(context.Background(), tt.req, Options{})
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.want), "error = %v", err)

			_, statErr := os.Stat(root)
			assert.True(t, os.IsNotExist(statErr), "failed run created %q", root)
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	e := newEngine(t)
	req := planner.Request{
		Backend:    "flask",
		Frontend:   "vue",
		WithDocker: true,
		WithCI:     true,
	}

	var trees []map[string]string
	for i := 0; i < 2; i++ {
		parent := t.TempDir()
		// Same final path element so rendered content embedding the
		// project name is comparable across runs.
		root := filepath.Join(parent, "myapp")
		r := req
		r.ProjectName = root
		_, err := e.Generate(context.Background(), r, Options{})
		require.NoError(t, err)
		trees = append(trees, readTree(t, root))
	}

	require.Equal(t, len(trees[0]), len(trees[1]))
	for p, content := range trees[0] {
		assert.Equal(t, content, trees[1][p], "file %s differs between runs", p)
	}
}

func TestGenerateDryRun(t *testing.T) {
	root := filepath.Join(t.TempDir(), "myapp")
	e := newEngine(t)

	run, err := e.Generate(context.Background(), planner.Request{
		ProjectName: root,
		Backend:     "fastapi",
	}, Options{DryRun: true})
	require.NoError(t, err)

	assert.Nil(t, run.Result)
	assert.NotEmpty(t, run.Files)
	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr), "dry run created %q", root)
}

func TestGenerateInspectAborts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "myapp")
	e := newEngine(t)

	inspected := 0
	_, err := e.Generate(context.Background(), planner.Request{
		ProjectName: root,
		Backend:     "fastapi",
	}, Options{
		Inspect: func(files []render.File) error {
			inspected = len(files)
			return fmt.Errorf("aborted")
		},
	})
	require.EqualError(t, err, "aborted")
	assert.Positive(t, inspected)

	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr), "aborted run created %q", root)
}

func TestGenerateTargetExists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "existing.txt"), []byte("x"), 0644))
	e := newEngine(t)

	_, err := e.Generate(context.Background(), planner.Request{
		ProjectName: root,
		Backend:     "fastapi",
	}, Options{})
	var exists *writer.TargetExistsError
	require.ErrorAs(t, err, &exists)
}
