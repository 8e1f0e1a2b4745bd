// Package format renders detection reports as plain text, JSON or CSV.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"simpletools/internal/types"
)

// Options controls report rendering.
type Options struct {
	Format       string // plain, json or csv
	Root         string // Scan root, echoed in the header
	Recursive    bool
	ShowCommands bool // Print suggested rm commands (plain only)
	NoColor      bool
}

// Render writes the report to w in the requested format.
func Render(w io.Writer, report types.Report, opts Options) error {
	switch opts.Format {
	case "", "plain":
		return renderPlain(w, report, opts)
	case "json":
		return renderJSON(w, report)
	case "csv":
		return renderCSV(w, report)
	default:
		return fmt.Errorf("unknown format %q (want plain, json or csv)", opts.Format)
	}
}

func renderPlain(w io.Writer, report types.Report, opts Options) error {
	header := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	accent := color.New(color.FgCyan)
	if opts.NoColor {
		color.NoColor = true
	}

	mode := "top level only"
	if opts.Recursive {
		mode = "recursive"
	}
	fmt.Fprintf(w, "Scanned %s (%s): %d files\n", opts.Root, mode, report.TotalScanned)

	if len(report.Skipped) > 0 {
		warn.Fprintf(w, "Skipped %d unreadable file(s):\n", len(report.Skipped))
		for _, s := range report.Skipped {
			warn.Fprintf(w, "  ! %s: %v\n", s.Path, s.Err)
		}
	}

	if len(report.Sets) == 0 {
		fmt.Fprintln(w, "No duplicate files found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d duplicate set(s):\n\n", len(report.Sets))

	for i, set := range report.Sets {
		header.Fprintf(w, "[%d] %d files x %s, reclaimable %s\n",
			i+1, len(set.Files),
			humanize.IBytes(uint64(set.Size)),
			humanize.IBytes(uint64(set.PotentialSavings)))
		for _, path := range set.Files {
			fmt.Fprintf(w, "  - %s\n", path)
		}
		if rec := set.Recommendation; rec != nil {
			accent.Fprintf(w, "  keep: %s (confidence %.0f%%, %s)\n", rec.Path, rec.Confidence*100, rec.Reason)
		}
		if opts.ShowCommands {
			keep := set.Files[0]
			if set.Recommendation != nil {
				keep = set.Recommendation.Path
			}
			fmt.Fprintf(w, "  suggested (keeps %s):\n", keep)
			for _, path := range set.Files {
				if path != keep {
					fmt.Fprintf(w, "    rm '%s'\n", path)
				}
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %d duplicate files, %s reclaimable\n",
		report.TotalDuplicates(), humanize.IBytes(uint64(report.TotalSavings())))
	if opts.ShowCommands {
		warn.Fprintln(w, "Review before deleting; consider a backup first.")
	}
	return nil
}

// jsonReport is the stable JSON output shape.
type jsonReport struct {
	TotalScanned    int        `json:"total_scanned"`
	SkippedFiles    []jsonSkip `json:"skipped_files,omitempty"`
	DuplicateSets   []jsonSet  `json:"duplicate_sets"`
	TotalDuplicates int        `json:"total_duplicates"`
	TotalSavings    int64      `json:"total_savings"`
}

type jsonSkip struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type jsonSet struct {
	Digest           string              `json:"digest"`
	Size             int64               `json:"size"`
	Files            []string            `json:"files"`
	PotentialSavings int64               `json:"potential_savings"`
	Recommendation   *jsonRecommendation `json:"recommendation,omitempty"`
}

type jsonRecommendation struct {
	Path       string  `json:"path"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func renderJSON(w io.Writer, report types.Report) error {
	out := jsonReport{
		TotalScanned:    report.TotalScanned,
		DuplicateSets:   make([]jsonSet, 0, len(report.Sets)),
		TotalDuplicates: report.TotalDuplicates(),
		TotalSavings:    report.TotalSavings(),
	}
	for _, s := range report.Skipped {
		out.SkippedFiles = append(out.SkippedFiles, jsonSkip{Path: s.Path, Error: s.Err.Error()})
	}
	for _, set := range report.Sets {
		js := jsonSet{
			Digest:           set.Digest,
			Size:             set.Size,
			Files:            set.Files,
			PotentialSavings: set.PotentialSavings,
		}
		if rec := set.Recommendation; rec != nil {
			js.Recommendation = &jsonRecommendation{Path: rec.Path, Confidence: rec.Confidence, Reason: rec.Reason}
		}
		out.DuplicateSets = append(out.DuplicateSets, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, report types.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"set", "digest", "size", "potential_savings", "path"}); err != nil {
		return err
	}
	for i, set := range report.Sets {
		for _, path := range set.Files {
			record := []string{
				strconv.Itoa(i + 1),
				set.Digest,
				strconv.FormatInt(set.Size, 10),
				strconv.FormatInt(set.PotentialSavings, 10),
				path,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
