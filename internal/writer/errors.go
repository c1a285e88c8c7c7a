package writer

import "fmt"

// TargetExistsError reports a non-empty target directory when overwrite was
// not requested. The target is left untouched.
type TargetExistsError struct {
	Path string
}

func (e *TargetExistsError) Error() string {
	return fmt.Sprintf("target directory %q already exists and is not empty (use force to overwrite)", e.Path)
}

// WriteError reports a failure while staging files, before anything was
// published to the target. The target is untouched.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("staging %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// CommitError reports a failure while publishing staged files into the
// target. Everything this run had already published was rolled back before
// the error surfaced.
type CommitError struct {
	Path string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("committing %q: %v (all files from this run were rolled back)", e.Path, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
