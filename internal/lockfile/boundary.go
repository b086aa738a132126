package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// ErrNestedLockfile is returned by CheckBoundary when dir already sits
// beneath a directory that owns a `.protolock` of its own: a project
// lockfile isn't allowed to nest inside another project's lockfile
// scope, since that would make two lockfiles claim the same installs.
type ErrNestedLockfile struct {
	Dir    string
	Parent string
}

func (e *ErrNestedLockfile) Error() string {
	return fmt.Sprintf("%s is nested under %s, which already has a %s", e.Dir, e.Parent, FileName)
}

// CheckBoundary walks from dir upward to root, and fails if any
// ancestor (excluding dir itself) already owns a `.protolock` file.
// Callers invoke this before creating a new lockfile at dir so that
// nested project lockfiles are rejected up front.
func CheckBoundary(dir string) error {
	current := filepath.Dir(dir)
	for {
		if _, err := os.Stat(filepath.Join(current, FileName)); err == nil {
			return &ErrNestedLockfile{Dir: dir, Parent: current}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil
		}
		current = parent
	}
}
