// Package organize moves files into category or date subdirectories.
//
// Three layouts are supported: by file type (Images/, Documents/, ...),
// by modification date (2024/07/), or both combined. Plan computes the
// moves without touching anything; Apply performs them, creating target
// directories as needed. A file whose target already exists is skipped,
// never overwritten.
package organize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"simpletools/internal/scanner"
)

// Mode selects the directory layout.
type Mode string

const (
	ByType Mode = "type"
	ByDate Mode = "date"
	Mixed  Mode = "mixed"
)

// ErrUnknownMode is returned for modes other than type, date or mixed.
var ErrUnknownMode = errors.New("unknown organize mode")

// Status of a planned move.
type Status string

const (
	StatusPending Status = "pending"
	StatusMoved   Status = "moved"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// category maps a display name to the extensions it claims.
type category struct {
	name       string
	extensions []string
}

// categories are checked in order; the catch-all comes last.
var categories = []category{
	{"Images", []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp"}},
	{"Documents", []string{".doc", ".docx", ".pdf", ".txt", ".odt", ".xls", ".xlsx", ".ppt", ".pptx"}},
	{"Videos", []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"}},
	{"Audio", []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma"}},
	{"Archives", []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
	{"Code", []string{".py", ".js", ".html", ".css", ".java", ".cpp", ".c", ".go"}},
	{"Other", nil},
}

// categoryNames is used to recognize directories we created ourselves.
var categoryNames = func() map[string]struct{} {
	m := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		m[c.name] = struct{}{}
	}
	return m
}()

// Options configures an organize batch.
type Options struct {
	Root      string
	Mode      Mode
	Recursive bool
}

// Item is one planned file move.
type Item struct {
	Source   string
	Target   string
	Category string
	Status   Status
	Err      error
}

// Summary counts the outcome of Apply.
type Summary struct {
	Total   int
	Moved   int
	Skipped int
	Failed  int
}

// Organizer runs one organize batch. Single use.
type Organizer struct {
	opts Options
	log  *logrus.Entry
}

func New(opts Options, log *logrus.Entry) *Organizer {
	if opts.Mode == "" {
		opts.Mode = ByType
	}
	return &Organizer{opts: opts, log: log}
}

// Plan scans the root and returns the planned moves. Files whose target
// already exists are marked skipped. The filesystem is not modified.
func (o *Organizer) Plan() ([]Item, error) {
	switch o.opts.Mode {
	case ByType, ByDate, Mixed:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, o.opts.Mode)
	}

	root := o.opts.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	files, err := o.collect(root)
	if err != nil {
		return nil, err
	}
	o.log.WithField("files", len(files)).Debug("scanned organize candidates")

	var items []Item
	for _, path := range files {
		cat := classify(path)
		target, err := o.target(root, path, cat)
		if err != nil {
			items = append(items, Item{Source: path, Category: cat, Status: StatusFailed, Err: err})
			continue
		}
		if target == path {
			continue
		}

		item := Item{Source: path, Target: target, Category: cat, Status: StatusPending}
		if _, err := os.Lstat(target); err == nil {
			item.Status = StatusSkipped
			item.Err = errors.New("target already exists")
		}
		items = append(items, item)
	}
	return items, nil
}

// Apply moves every pending item, creating target directories first.
// Individual failures are recorded on the item and never abort the
// batch.
func (o *Organizer) Apply(items []Item) Summary {
	sum := Summary{Total: len(items)}
	for i := range items {
		item := &items[i]
		switch item.Status {
		case StatusSkipped:
			sum.Skipped++
			continue
		case StatusFailed:
			sum.Failed++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(item.Target), 0o755); err != nil {
			item.Status, item.Err = StatusFailed, err
			sum.Failed++
			continue
		}
		if err := os.Rename(item.Source, item.Target); err != nil {
			item.Status, item.Err = StatusFailed, err
			sum.Failed++
			continue
		}
		item.Status = StatusMoved
		sum.Moved++
	}
	return sum
}

// collect lists candidate files, skipping hidden names, tool
// directories and category directories produced by earlier runs.
func (o *Organizer) collect(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, ok := categoryNames[name]; ok && filepath.Dir(path) == root {
				return fs.SkipDir
			}
			if strings.HasPrefix(name, ".") || scanner.Excluded(path) {
				return fs.SkipDir
			}
			if !o.opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// target computes the destination path for a file under the chosen
// layout.
func (o *Organizer) target(root, path, cat string) (string, error) {
	name := filepath.Base(path)
	switch o.opts.Mode {
	case ByType:
		return filepath.Join(root, cat, name), nil
	case ByDate:
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		mtime := info.ModTime()
		return filepath.Join(root, fmt.Sprintf("%d", mtime.Year()), fmt.Sprintf("%02d", mtime.Month()), name), nil
	default: // Mixed
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		mtime := info.ModTime()
		return filepath.Join(root, cat, fmt.Sprintf("%d", mtime.Year()), fmt.Sprintf("%02d", mtime.Month()), name), nil
	}
}

// classify assigns a file to a category by extension, falling back to
// the catch-all.
func classify(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, cat := range categories[:len(categories)-1] {
		for _, e := range cat.extensions {
			if ext == e {
				return cat.name
			}
		}
	}
	return categories[len(categories)-1].name
}
