// Package screener screens scanned files to find duplicate candidates.
//
// # Overview
//
// The screener is the cheap filtering stage between scanning and hashing.
// It partitions files by exact byte size and discards every size bucket
// with a single member: a file whose size is unique cannot have a
// duplicate, and hashing it would be wasted I/O.
//
// # Ordering
//
// Buckets are emitted in order of first appearance of their size during
// the scan, and files within a bucket keep scan discovery order. Both
// matter: downstream grouping and ranking derive their documented
// tie-break (insertion order) from this.
//
// No I/O happens here - the screener only works on scan metadata.
package screener

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"simpletools/internal/types"
)

// Bucket is a group of files sharing one exact size. Every bucket holds
// at least two members.
type Bucket struct {
	Size  int64
	Files []types.FileDescriptor
}

// Run partitions files into size buckets and drops singletons.
func Run(files []types.FileDescriptor, log *logrus.Entry) []Bucket {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	start := time.Now()

	bySize := make(map[int64][]types.FileDescriptor)
	var sizeOrder []int64 // First-seen order keeps output deterministic
	for _, f := range files {
		if _, seen := bySize[f.Size]; !seen {
			sizeOrder = append(sizeOrder, f.Size)
		}
		bySize[f.Size] = append(bySize[f.Size], f)
	}

	var buckets []Bucket
	var candidateFiles int
	var candidateBytes int64
	for _, size := range sizeOrder {
		group := bySize[size]
		if len(group) < 2 {
			continue
		}
		buckets = append(buckets, Bucket{Size: size, Files: group})
		candidateFiles += len(group)
		candidateBytes += size * int64(len(group))
	}

	log.Debug(fmt.Sprintf("selected %d candidates (%s) in %d buckets in %.1fs",
		candidateFiles, humanize.IBytes(uint64(candidateBytes)),
		len(buckets), time.Since(start).Seconds()))

	return buckets
}

// CandidateCount returns the total number of files across buckets.
func CandidateCount(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Files)
	}
	return n
}
