// Package writer commits a rendered file set to disk atomically.
//
// Files are staged in a temporary directory next to the target, then moved
// into place one by one. Files being overwritten are parked in the staging
// area first. If any move fails, everything this run already published is
// removed and every overwritten file is restored, so the target ends up
// either fully populated or exactly as it was. The staging area is cleaned
// up on every exit path.
package writer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Ryandj11/AutoStack/internal/render"
)

// Options configures a commit.
type Options struct {
	// Force allows reusing a non-empty target directory. Only paths in the
	// new file set are overwritten; everything else is preserved.
	Force bool
}

// Result describes what a commit did.
type Result struct {
	Root      string
	Written   []string // relative paths written by this run
	Preserved []string // pre-existing relative paths left untouched (force)
}

// Commit writes the rendered file set under projectRoot. See the package
// comment for the atomicity contract.
func Commit(ctx context.Context, projectRoot string, files []render.File, opts Options) (*Result, error) {
	newSet := make(map[string]bool, len(files))
	for _, f := range files {
		if newSet[f.Path] {
			return nil, &WriteError{Path: f.Path, Err: fmt.Errorf("duplicate output path in file set")}
		}
		newSet[f.Path] = true
	}

	root := filepath.Clean(projectRoot)
	createdRoot := false
	var preserved []string

	info, err := os.Stat(root)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, &WriteError{Path: root, Err: fmt.Errorf("target exists and is not a directory")}
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, &WriteError{Path: root, Err: err}
		}
		if len(entries) > 0 {
			if !opts.Force {
				return nil, &TargetExistsError{Path: root}
			}
			preserved, err = listPreserved(root, newSet)
			if err != nil {
				return nil, &WriteError{Path: root, Err: err}
			}
		}
	case os.IsNotExist(err):
		createdRoot = true
	default:
		return nil, &WriteError{Path: root, Err: err}
	}

	// Stage everything before the first byte lands in the target. "new"
	// holds the rendered files, "old" parks files displaced by overwrites.
	staging, err := os.MkdirTemp(filepath.Dir(root), ".autostack-")
	if err != nil {
		return nil, &WriteError{Path: root, Err: err}
	}
	defer os.RemoveAll(staging)
	newDir := filepath.Join(staging, "new")
	oldDir := filepath.Join(staging, "old")

	for _, f := range files {
		staged := filepath.Join(newDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(staged), 0755); err != nil {
			return nil, &WriteError{Path: f.Path, Err: err}
		}
		if err := os.WriteFile(staged, f.Content, f.Mode); err != nil {
			return nil, &WriteError{Path: f.Path, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &WriteError{Path: root, Err: err}
	}

	// Publish: move staged files into the target, rolling back on failure.
	if createdRoot {
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, &WriteError{Path: root, Err: err}
		}
	}

	tx := &publish{root: root, oldDir: oldDir, createdRoot: createdRoot}
	for _, f := range files {
		final := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(final), 0755); err != nil {
			tx.rollback()
			return nil, &CommitError{Path: f.Path, Err: err}
		}
		if _, err := os.Lstat(final); err == nil {
			if err := tx.park(f.Path, final); err != nil {
				tx.rollback()
				return nil, &CommitError{Path: f.Path, Err: err}
			}
		}
		if err := os.Rename(filepath.Join(newDir, filepath.FromSlash(f.Path)), final); err != nil {
			tx.rollback()
			return nil, &CommitError{Path: f.Path, Err: err}
		}
		tx.moved = append(tx.moved, f.Path)
	}

	return &Result{Root: root, Written: tx.moved, Preserved: preserved}, nil
}

// publish tracks what a commit has already done to the target, so a failure
// partway can be undone.
type publish struct {
	root        string
	oldDir      string
	createdRoot bool
	moved       []string // relative paths published so far
	parked      []string // relative paths of displaced originals
}

// park moves an about-to-be-overwritten file into the staging area.
func (p *publish) park(rel, final string) error {
	backup := filepath.Join(p.oldDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(backup), 0755); err != nil {
		return err
	}
	if err := os.Rename(final, backup); err != nil {
		return err
	}
	p.parked = append(p.parked, rel)
	return nil
}

// rollback removes everything this run published and restores displaced
// originals. A root created by this run is removed entirely.
func (p *publish) rollback() {
	if p.createdRoot {
		os.RemoveAll(p.root)
		return
	}
	for _, rel := range p.moved {
		os.Remove(filepath.Join(p.root, filepath.FromSlash(rel)))
	}
	for _, rel := range p.parked {
		backup := filepath.Join(p.oldDir, filepath.FromSlash(rel))
		os.Rename(backup, filepath.Join(p.root, filepath.FromSlash(rel)))
	}
	// Prune directories the removals emptied, deepest first.
	for _, rel := range p.moved {
		dir := filepath.Dir(filepath.Join(p.root, filepath.FromSlash(rel)))
		for dir != p.root {
			if os.Remove(dir) != nil {
				break
			}
			dir = filepath.Dir(dir)
		}
	}
}

// listPreserved collects relative paths of existing files that are not part
// of the new file set.
func listPreserved(root string, newSet map[string]bool) ([]string, error) {
	var preserved []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !newSet[rel] {
			preserved = append(preserved, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(preserved)
	return preserved, nil
}
