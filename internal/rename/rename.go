// Package rename implements substring-based batch renaming.
//
// Planning and execution are separate: Plan computes every rename
// without touching the filesystem, so preview (the default) and execute
// share one code path and the preview always matches what execution
// would do. Collisions are resolved at plan time - a change whose target
// already exists, or that another planned change also targets, is marked
// skipped with a reason instead of failing the batch.
package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"simpletools/internal/scanner"
)

// ErrNoPattern means the search pattern was empty.
var ErrNoPattern = errors.New("search pattern must not be empty")

// Options configures one batch rename.
type Options struct {
	Root      string // Directory to process
	Old       string // Substring to replace in file names
	New       string // Replacement (may be empty to delete the substring)
	Recursive bool
}

// Change is one planned rename. Skipped changes carry the reason and are
// never applied.
type Change struct {
	From    string
	To      string
	Skipped bool
	Reason  string
}

// Plan walks the root and computes renames for every file whose name
// contains the search pattern. The filesystem is not modified.
func Plan(opts Options) ([]Change, error) {
	if opts.Old == "" {
		return nil, ErrNoPattern
	}
	info, err := os.Stat(opts.Root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("directory not found: %s", opts.Root)
	case err != nil:
		return nil, err
	case !info.IsDir():
		return nil, fmt.Errorf("not a directory: %s", opts.Root)
	}

	var changes []Change
	claimed := make(map[string]bool) // Targets taken by earlier changes in this plan

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != opts.Root && (!opts.Recursive || scanner.Excluded(path)) {
				return fs.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.Contains(name, opts.Old) {
			return nil
		}

		newName := strings.ReplaceAll(name, opts.Old, opts.New)
		target := filepath.Join(filepath.Dir(path), newName)
		change := Change{From: path, To: target}

		switch {
		case newName == "" || newName == "." || newName == "..":
			change.Skipped = true
			change.Reason = "replacement produces an invalid name"
		case claimed[target]:
			change.Skipped = true
			change.Reason = "another file renames to the same target"
		case exists(target):
			change.Skipped = true
			change.Reason = "target already exists"
		default:
			claimed[target] = true
		}

		changes = append(changes, change)
		return nil
	}

	if err := filepath.WalkDir(opts.Root, walk); err != nil {
		return nil, fmt.Errorf("walk %s: %w", opts.Root, err)
	}
	return changes, nil
}

// Apply executes the non-skipped changes of a plan and returns how many
// renames succeeded. The first rename error aborts the batch; files
// already renamed stay renamed.
func Apply(changes []Change) (int, error) {
	renamed := 0
	for _, c := range changes {
		if c.Skipped {
			continue
		}
		if err := os.Rename(c.From, c.To); err != nil {
			return renamed, fmt.Errorf("rename %s: %w", c.From, err)
		}
		renamed++
	}
	return renamed, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
