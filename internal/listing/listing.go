// Package listing implements the directory listing tool.
package listing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNotFound means the requested directory does not exist.
	ErrNotFound = errors.New("directory not found")
	// ErrNotDirectory means the path exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// Options controls what List returns.
type Options struct {
	ShowHidden bool // Include dotfiles
	Details    bool // Populate Size and ModTime for files
}

// Item is one directory entry. Size and ModTime are populated only for
// files when Options.Details is set.
type Item struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// List returns the entries of dir, directories first, then files, each
// group in case-insensitive name order.
func List(dir string, opts Options) ([]Item, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if !opts.ShowHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		item := Item{
			Name:  entry.Name(),
			Path:  filepath.Join(dir, entry.Name()),
			IsDir: entry.IsDir(),
		}
		if opts.Details && !entry.IsDir() {
			if info, err := entry.Info(); err == nil {
				item.Size = info.Size()
				item.ModTime = info.ModTime()
			}
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDir != items[j].IsDir {
			return items[i].IsDir
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	return items, nil
}
