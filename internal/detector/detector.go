// Package detector orchestrates the duplicate detection pipeline.
//
// # Pipeline
//
//	scanner → screener → hasher → grouper
//
// Control flow is a strict one-way pipeline; there are no feedback loops
// and no state survives the run. A detection run is a pure function of
// (filesystem snapshot, ScanConfig) → ranked duplicate sets.
//
// # Error Policy
//
// Scan-level failures (root missing, root not a directory, unreadable
// subtree mid-walk) are fatal: they propagate before any output is
// produced. Per-file hash failures never propagate past the hasher; they
// surface as skip records on the report. An empty result is a valid
// report, not an error.
package detector

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"

	"simpletools/internal/grouper"
	"simpletools/internal/hasher"
	"simpletools/internal/scanner"
	"simpletools/internal/screener"
	"simpletools/internal/types"
)

// Analyzer recommends which member of a duplicate set to keep. It is
// purely advisory: implementations must never mutate files, and any
// failure degrades to "no recommendation".
type Analyzer interface {
	Recommend(ctx context.Context, files []string) (*types.Recommendation, error)
}

// Options carries the injectable collaborators for one detection run.
// The zero value is valid: sequential-ish defaults, no progress, no AI.
type Options struct {
	Workers  int                 // Max concurrent hash reads; defaults to NumCPU
	Progress hasher.ProgressFunc // Optional progress callback, nil = silent
	Analyzer Analyzer            // Optional keep-recommendation source, nil = disabled
	Log      *logrus.Entry       // Optional logger, nil = standard logger
}

// Detect runs the full pipeline and returns ranked duplicate sets.
//
// The context is checked between pipeline phases and between files inside
// the hasher; a run is otherwise not cancellable mid-read.
func Detect(ctx context.Context, cfg types.ScanConfig, opts Options) (types.Report, error) {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	// Phase 1: scan (fail-fast)
	files, err := scanner.New(cfg, log).Run()
	if err != nil {
		return types.Report{}, fmt.Errorf("scan: %w", err)
	}
	report := types.Report{TotalScanned: len(files)}
	if len(files) == 0 {
		return report, nil
	}
	if err := ctx.Err(); err != nil {
		return types.Report{}, err
	}

	// Phase 2: size bucketing (no I/O)
	buckets := screener.Run(files, log)
	if len(buckets) == 0 {
		return report, nil
	}

	// Phase 3: hash candidates (per-file skips, never fatal)
	candidates := make([]types.FileDescriptor, 0, screener.CandidateCount(buckets))
	for _, b := range buckets {
		candidates = append(candidates, b.Files...)
	}
	hashed, skipped := hasher.New(candidates, workers, opts.Progress, log).Run(ctx)
	report.Skipped = skipped

	// Phase 4: group and rank
	report.Sets = grouper.Run(hashed)

	// Advisory pass: attach keep-recommendations to finished sets.
	// Failures are logged and leave the set untouched.
	if opts.Analyzer != nil {
		annotate(ctx, opts.Analyzer, report.Sets, log)
	}

	return report, nil
}

// annotate asks the analyzer for a keep-recommendation per set. The set
// list itself is never reordered or filtered here.
func annotate(ctx context.Context, analyzer Analyzer, sets []types.DuplicateSet, log *logrus.Entry) {
	for i := range sets {
		if ctx.Err() != nil {
			return
		}
		rec, err := analyzer.Recommend(ctx, sets[i].Files)
		if err != nil {
			log.WithError(err).Debug("keep-recommendation unavailable")
			continue
		}
		sets[i].Recommendation = rec
	}
}
