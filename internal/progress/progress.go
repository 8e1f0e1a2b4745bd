// Package progress renders pipeline progress on stderr.
//
// The core pipeline only knows about a plain (completed, total) callback;
// this package owns the actual progress bar and adapts between the two.
// A disabled bar turns every method into a no-op, so callers never branch
// on whether progress display is active.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

const updateInterval = 50 * time.Millisecond

// Bar wraps progressbar with enabled/disabled handling.
// All methods are no-ops when disabled.
type Bar struct {
	bar *progressbar.ProgressBar
}

// New creates a progress bar with the given description.
// If enabled=false, returns a Bar where all methods are no-ops.
// Use total=-1 for spinner mode, or total>0 for determinate progress.
func New(enabled bool, total int64, description string) *Bar {
	if !enabled {
		return &Bar{}
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(updateInterval),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(description),
	}

	if total < 0 {
		// Spinner mode
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetElapsedTime(false),
		)
		return &Bar{bar: progressbar.NewOptions(-1, opts...)}
	}

	// Progress bar mode
	opts = append(opts, progressbar.OptionSetWidth(40))
	return &Bar{bar: progressbar.NewOptions64(total, opts...)}
}

// Callback returns a (completed, total) function suitable for injection
// into the hashing stage. Safe for concurrent use; progressbar
// serializes its own state updates.
func (b *Bar) Callback() func(completed, total int) {
	return func(completed, total int) {
		if b.bar == nil {
			return
		}
		if b.bar.GetMax() != total {
			b.bar.ChangeMax(total)
		}
		_ = b.bar.Set(completed)
	}
}

// Describe updates the progress bar description.
func (b *Bar) Describe(s string) {
	if b.bar != nil {
		b.bar.Describe(s)
	}
}

// Finish completes the bar and prints a final summary line.
func (b *Bar) Finish(summary string) {
	if b.bar != nil {
		_ = b.bar.Finish()
	}
	if summary != "" {
		fmt.Fprintln(os.Stderr, summary)
	}
}
