// Package types provides shared types used across the simpletools codebase.
package types

import (
	"cmp"
	"slices"
	"time"
)

// FileDescriptor holds metadata for one file considered for duplicate
// detection. Size is read once at scan time and not re-validated later;
// a file mutated between scan and hash is an accepted race, not an error.
type FileDescriptor struct {
	Path    string    // Absolute path
	Size    int64     // Size in bytes at scan time
	ModTime time.Time // Modification time at scan time
	Digest  string    // Hex SHA-256, empty until hashed
}

// ScanConfig is the fully-resolved input contract for a detection run.
// All defaulting (flag > config file > default) happens before the core
// ever sees this struct.
type ScanConfig struct {
	Root       string   // Directory to scan
	Recursive  bool     // Descend into subdirectories
	MinSize    int64    // Files below this size are never considered
	Extensions []string // Allow-list incl. leading dot, case-insensitive; empty = no filter
}

// DuplicateSet is the unit of detection output: two or more files sharing
// both size and content digest. Immutable after construction.
type DuplicateSet struct {
	Digest           string          // Shared content digest
	Size             int64           // Shared file size
	Files            []string        // Member paths in scan discovery order
	PotentialSavings int64           // Size * (len(Files) - 1)
	Recommendation   *Recommendation // Optional AI keep-advice, nil when unavailable
}

// NewDuplicateSet builds a DuplicateSet from its members, deriving the
// potential savings. Callers must pass 2+ files.
func NewDuplicateSet(digest string, size int64, files []string) DuplicateSet {
	return DuplicateSet{
		Digest:           digest,
		Size:             size,
		Files:            files,
		PotentialSavings: size * int64(len(files)-1),
	}
}

// Recommendation is advisory metadata about which member of a duplicate
// set to keep. It never affects grouping or ranking.
type Recommendation struct {
	Path       string  // Recommended file to retain
	Confidence float64 // 0..1
	Reason     string  // Human-readable justification
}

// SkipRecord describes a single file excluded during hashing.
type SkipRecord struct {
	Path string
	Err  error
}

// Report is the result of one detection run. Sets are ordered by
// PotentialSavings descending; Skipped lists files that could not be
// hashed (non-fatal, see hasher error policy).
type Report struct {
	Sets         []DuplicateSet
	TotalScanned int          // Files that passed scan filters
	Skipped      []SkipRecord // Unhashable files excluded from Sets
}

// TotalSavings sums the potential savings across all duplicate sets.
func (r Report) TotalSavings() int64 {
	var total int64
	for _, s := range r.Sets {
		total += s.PotentialSavings
	}
	return total
}

// TotalDuplicates counts member files across all duplicate sets.
func (r Report) TotalDuplicates() int {
	n := 0
	for _, s := range r.Sets {
		n += len(s.Files)
	}
	return n
}

// Ranked is an ordered collection sorted descending by a numeric key.
// The sort is stable: elements with equal keys keep their insertion order,
// which is the documented tie-break for result ranking.
type Ranked[T any, K cmp.Ordered] struct {
	items   []T
	keyFunc func(T) K
}

// NewRanked creates a ranked collection from items using keyFunc for
// ordering. Items are copied and sorted at construction time.
func NewRanked[T any, K cmp.Ordered](items []T, keyFunc func(T) K) Ranked[T, K] {
	sorted := make([]T, len(items))
	copy(sorted, items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(keyFunc(b), keyFunc(a))
	})
	return Ranked[T, K]{items: sorted, keyFunc: keyFunc}
}

// Items returns the sorted items.
func (r Ranked[T, K]) Items() []T { return r.items }

// Len returns the number of items.
func (r Ranked[T, K]) Len() int { return len(r.items) }

// Semaphore implements a counting semaphore using a buffered channel.
// It limits concurrent access to a resource by blocking when the limit is reached.
type Semaphore chan struct{}

// NewSemaphore creates a semaphore that allows up to n concurrent acquisitions.
func NewSemaphore(n int) Semaphore { return make(chan struct{}, n) }

// Acquire blocks until a slot is available, then claims it.
func (s Semaphore) Acquire() { s <- struct{}{} }

// Release frees a slot, unblocking one waiting Acquire call.
func (s Semaphore) Release() { <-s }
