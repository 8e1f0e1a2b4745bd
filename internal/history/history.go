// Package history records a per-run summary of tool invocations.
//
// Recording is an explicit post-run hook owned by the CLI layer: the
// detection pipeline and the other tool cores never write history
// themselves. A failed write is reported to the caller but is never a
// reason to fail the operation it describes.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultFileName is the history file created in the user's home directory.
const DefaultFileName = ".simpletools_history.json"

// maxEntries bounds the history file; the oldest entries are dropped.
const maxEntries = 500

// Entry is one recorded invocation.
type Entry struct {
	Time    time.Time `json:"time"`
	Tool    string    `json:"tool"`
	Args    string    `json:"args"`
	Summary string    `json:"summary"`
}

// Log appends entries to a JSON history file.
type Log struct {
	path string
}

// New creates a history log at path. An empty path resolves to
// DefaultFileName in the home directory.
func New(path string) (*Log, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, DefaultFileName)
	}
	return &Log{path: path}, nil
}

// Record appends one entry, trimming the file to maxEntries.
func (l *Log) Record(entry Entry) error {
	entries, err := l.Entries()
	if err != nil {
		// Corrupt or unreadable history starts over rather than blocking
		// every future run.
		entries = nil
	}

	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Entries reads the recorded history, oldest first. A missing file is an
// empty history, not an error.
func (l *Log) Entries() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return entries, nil
}
