// Package hasher computes content digests for duplicate candidates.
//
// # Overview
//
// The hasher is the only expensive stage in the detection pipeline. Each
// candidate file is read in fixed-size chunks and fed into an incremental
// SHA-256 accumulator, so memory stays bounded regardless of file size.
// Digest equality is treated as content equality downstream; there is no
// byte-for-byte verification pass.
//
// # Error Policy
//
// Per-file failures are non-fatal. A file that vanished since the scan,
// lost read permission or hits any other I/O error is recorded as a skip
// and the rest of the batch proceeds. This is the resilience contract:
// one locked file must never abort the whole run. Contrast with the
// scanner, which is fail-fast.
//
// # Concurrency Model
//
// Workers are spawned per file, limited by a counting semaphore. Each
// worker owns its file exclusively and writes its outcome to a dedicated
// slot in a pre-sized results slice, so no locks are needed and input
// order is preserved for the collector.
//
// # Progress
//
// When the batch crosses progressThreshold files, the hasher invokes the
// injected ProgressFunc with (completed, total) after each file. Smaller
// batches run without progress overhead. The callback must be safe for
// concurrent use; a nil callback disables reporting.
package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"simpletools/internal/types"
)

const (
	// chunkSize is the read buffer size for incremental hashing.
	chunkSize = 64 * 1024
	// progressThreshold is the batch size above which progress is reported.
	progressThreshold = 100
)

// ProgressFunc receives completion counts during hashing of large batches.
type ProgressFunc func(completed, total int)

// outcome is the result of one per-file hash attempt: either a digest or
// a skip reason, never both.
type outcome struct {
	digest string
	err    error
}

// Hasher hashes a batch of candidate files.
//
// The hasher is designed for single-use: create with New(), call Run() once.
type Hasher struct {
	files    []types.FileDescriptor
	workers  int
	progress ProgressFunc
	log      *logrus.Entry

	completed atomic.Int64
	stats     stats
}

// New creates a Hasher for the given candidates. workers must be >= 1.
// progress may be nil.
func New(files []types.FileDescriptor, workers int, progress ProgressFunc, log *logrus.Entry) *Hasher {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Hasher{files: files, workers: workers, progress: progress, log: log}
}

// stats tracks hashing throughput for logging.
type stats struct {
	hashedBytes atomic.Int64
	startTime   time.Time
}

func (s *stats) String() string {
	return fmt.Sprintf("hashed %s in %.1fs",
		humanize.IBytes(uint64(s.hashedBytes.Load())),
		time.Since(s.startTime).Seconds())
}

// Run hashes every file and partitions the batch into digest-populated
// descriptors (input order preserved) and skip records.
//
// Cancellation is cooperative: ctx is checked before each file is
// started, never mid-read.
func (h *Hasher) Run(ctx context.Context) ([]types.FileDescriptor, []types.SkipRecord) {
	h.stats.startTime = time.Now()
	total := len(h.files)
	report := h.progress != nil && total > progressThreshold

	outcomes := make([]outcome, total)
	sem := types.NewSemaphore(h.workers)
	var wg sync.WaitGroup

	for i := range h.files {
		if ctx.Err() != nil {
			outcomes[i] = outcome{err: ctx.Err()}
			continue
		}
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			sem.Acquire()
			defer sem.Release()

			digest, n, err := hashFile(h.files[slot].Path)
			outcomes[slot] = outcome{digest: digest, err: err}
			h.stats.hashedBytes.Add(n)

			if report {
				h.progress(int(h.completed.Add(1)), total)
			}
		}(i)
	}
	wg.Wait()

	var hashed []types.FileDescriptor
	var skipped []types.SkipRecord
	for i, out := range outcomes {
		if out.err != nil {
			h.log.WithField("path", h.files[i].Path).WithError(out.err).Warn("skipping unreadable file")
			skipped = append(skipped, types.SkipRecord{Path: h.files[i].Path, Err: out.err})
			continue
		}
		f := h.files[i]
		f.Digest = out.digest
		hashed = append(hashed, f)
	}

	h.log.Debug(h.stats.String())
	return hashed, skipped
}

// hashFile computes the hex SHA-256 digest of one file using chunked
// reads. Returns the digest, bytes read and any error.
func hashFile(path string) (digest string, bytesRead int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()

	hash := sha256.New()
	buf := make([]byte, chunkSize)
	n, err := io.CopyBuffer(hash, f, buf)
	if err != nil {
		return "", n, err
	}

	return hex.EncodeToString(hash.Sum(nil)), n, nil
}
