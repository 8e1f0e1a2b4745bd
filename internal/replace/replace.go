// Package replace performs literal text substitution across files.
//
// Like rename, the work is split into a pure planning phase and an
// explicit apply phase. Plan reads every candidate file, counts
// occurrences of the search text and collects preview lines without
// writing anything. Apply rewrites only the files Plan matched.
// Unreadable or non-text files are recorded per result and never
// abort the batch.
package replace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"simpletools/internal/scanner"
)

// ErrNoPattern is returned when the search text is empty.
var ErrNoPattern = errors.New("search text must not be empty")

// previewPairs caps how many before/after line pairs Plan keeps per file.
const previewPairs = 5

// Options configures a replacement batch. When File is set only that
// file is processed; otherwise Root is walked recursively.
type Options struct {
	Root       string
	File       string
	Old        string
	New        string
	Extensions []string
}

// Line is one previewed change within a file.
type Line struct {
	Number int
	Before string
	After  string
}

// Result describes the matches found in a single file.
type Result struct {
	Path     string
	Matches  int
	Preview  []Line
	Replaced bool
	Err      error
}

// Replacer runs one replacement batch. Single use.
type Replacer struct {
	opts       Options
	extensions map[string]struct{}
	log        *logrus.Entry
}

func New(opts Options, log *logrus.Entry) *Replacer {
	extensions := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	return &Replacer{opts: opts, extensions: extensions, log: log}
}

// Plan scans the target files and returns a result for every file that
// contains the search text or failed to be read. The filesystem is not
// modified.
func (r *Replacer) Plan() ([]Result, error) {
	if r.opts.Old == "" {
		return nil, ErrNoPattern
	}

	files, err := r.collect()
	if err != nil {
		return nil, err
	}
	r.log.WithField("files", len(files)).Debug("scanned replacement candidates")

	var results []Result
	for _, path := range files {
		res := r.inspect(path)
		if res.Matches > 0 || res.Err != nil {
			results = append(results, res)
		}
	}
	return results, nil
}

// Apply rewrites every matched file in the plan. Files whose inspection
// already failed are skipped. Returns the updated results plus success
// and failure counts.
func (r *Replacer) Apply(results []Result) ([]Result, int, int) {
	var replaced, failed int
	for i := range results {
		res := &results[i]
		if res.Err != nil || res.Matches == 0 {
			failed++
			continue
		}
		if err := r.rewrite(res.Path); err != nil {
			res.Err = err
			failed++
			continue
		}
		res.Replaced = true
		replaced++
	}
	return results, replaced, failed
}

// collect resolves the candidate file list, honoring single-file mode.
func (r *Replacer) collect() ([]string, error) {
	if r.opts.File != "" {
		info, err := os.Stat(r.opts.File)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", r.opts.File, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, expected a file", r.opts.File)
		}
		return []string{r.opts.File}, nil
	}

	root := r.opts.Root
	if root == "" {
		root = "."
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || scanner.Excluded(path)) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if len(r.extensions) > 0 {
			if _, ok := r.extensions[strings.ToLower(filepath.Ext(name))]; !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// inspect counts matches in one file and builds its preview.
func (r *Replacer) inspect(path string) Result {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	if !utf8.Valid(data) {
		res.Err = fmt.Errorf("%s: not a UTF-8 text file", path)
		return res
	}

	content := string(data)
	res.Matches = strings.Count(content, r.opts.Old)
	if res.Matches == 0 {
		return res
	}

	for i, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, r.opts.Old) {
			continue
		}
		res.Preview = append(res.Preview, Line{
			Number: i + 1,
			Before: strings.TrimSpace(line),
			After:  strings.TrimSpace(strings.ReplaceAll(line, r.opts.Old, r.opts.New)),
		})
		if len(res.Preview) >= previewPairs {
			break
		}
	}
	return res
}

// rewrite replaces all occurrences in the file, preserving its mode.
func (r *Replacer) rewrite(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	updated := strings.ReplaceAll(string(data), r.opts.Old, r.opts.New)
	return os.WriteFile(path, []byte(updated), info.Mode().Perm())
}
