// Package scanner discovers candidate files for duplicate detection.
//
// # Overview
//
// The scanner is the first stage in the detection pipeline. It walks the
// scan root (recursively by default), applies the exclusion and filter
// rules, and yields a FileDescriptor per regular file. No hashing happens
// here - the scanner only stats files.
//
// # Failure Policy
//
// The scanner is fail-fast: an error listing any directory aborts the
// whole scan. This is deliberately asymmetric with the hasher, which
// skips individual unreadable files. An unreadable subtree means the
// result would silently miss duplicates, so the run stops instead.
//
// # Ordering
//
// Files are yielded in filesystem enumeration order (sorted per directory
// by os.ReadDir). The order is stable for one filesystem within one run,
// which is what downstream member ordering relies on.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"simpletools/internal/types"
)

// Root validation errors, checked before any directory is read.
var (
	// ErrRootNotFound means the scan root does not exist.
	ErrRootNotFound = errors.New("scan root not found")
	// ErrNotDirectory means the scan root exists but is not a directory.
	ErrNotDirectory = errors.New("scan root is not a directory")
)

// excludedDirs are directory names that are never descended into, at any
// depth: version-control metadata, dependency caches, build output, IDE
// config and virtual environments.
var excludedDirs = map[string]struct{}{
	".venv":         {},
	"venv":          {},
	"env":           {},
	".git":          {},
	".svn":          {},
	".hg":           {},
	"__pycache__":   {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"node_modules":  {},
	"dist":          {},
	"build":         {},
	".idea":         {},
	".vscode":       {},
	"site-packages": {},
}

// Scanner discovers files matching the scan configuration.
//
// The scanner is designed for single-use: create with New(), call Run() once.
type Scanner struct {
	cfg types.ScanConfig
	log *logrus.Entry

	// Runtime (populated during Run)
	extensions map[string]struct{} // Lower-cased allow-list, nil when unfiltered
	files      []types.FileDescriptor
	stats      stats
}

// New creates a Scanner for the given configuration.
func New(cfg types.ScanConfig, log *logrus.Entry) *Scanner {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scanner{cfg: cfg, log: log}
}

// stats tracks scan progress for logging.
type stats struct {
	seenFiles    int
	matchedFiles int
	matchedBytes int64
	startTime    time.Time
}

func (s *stats) String() string {
	return fmt.Sprintf("scanned %d files, matched %d (%s) in %.1fs",
		s.seenFiles, s.matchedFiles,
		humanize.IBytes(uint64(s.matchedBytes)),
		time.Since(s.startTime).Seconds())
}

// Run walks the scan root and returns matching file descriptors.
//
// Validation failures on the root itself return ErrRootNotFound or
// ErrNotDirectory before any scanning begins. Any error listing a
// directory mid-walk aborts the scan and is returned wrapped.
func (s *Scanner) Run() ([]types.FileDescriptor, error) {
	info, err := os.Stat(s.cfg.Root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, s.cfg.Root)
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", s.cfg.Root, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, s.cfg.Root)
	}

	root, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.cfg.Root, err)
	}

	if len(s.cfg.Extensions) > 0 {
		s.extensions = make(map[string]struct{}, len(s.cfg.Extensions))
		for _, ext := range s.cfg.Extensions {
			s.extensions[strings.ToLower(ext)] = struct{}{}
		}
	}

	s.stats = stats{startTime: time.Now()}
	if err := s.walk(root, s.cfg.Recursive); err != nil {
		return nil, err
	}

	s.log.Debug(s.stats.String())
	return s.files, nil
}

// walk lists one directory, collects matching files and recurses into
// subdirectories when requested. Returns the first listing error.
func (s *Scanner) walk(dir string, recurse bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if !recurse {
				continue
			}
			if _, excluded := excludedDirs[entry.Name()]; excluded {
				continue
			}
			if err := s.walk(fullPath, recurse); err != nil {
				return err
			}
			continue
		}

		// Skip non-regular files (symlinks, devices, sockets, etc.)
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and stat; nothing to hash.
			s.log.WithField("path", fullPath).WithError(err).Debug("skipping unstattable entry")
			continue
		}

		s.stats.seenFiles++
		if !s.matches(entry.Name(), info.Size()) {
			continue
		}

		s.files = append(s.files, types.FileDescriptor{
			Path:    fullPath,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		s.stats.matchedFiles++
		s.stats.matchedBytes += info.Size()
	}

	return nil
}

// matches applies the size and extension filters to a single file.
func (s *Scanner) matches(name string, size int64) bool {
	if size < s.cfg.MinSize {
		return false
	}
	if s.extensions == nil {
		return true
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Excluded reports whether any segment of path matches an excluded
// directory name. Exported for reuse by other tools operating on trees.
func Excluded(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if _, ok := excludedDirs[segment]; ok {
			return true
		}
	}
	return false
}
