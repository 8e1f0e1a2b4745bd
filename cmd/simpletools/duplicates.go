package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"simpletools/internal/ai"
	"simpletools/internal/config"
	"simpletools/internal/detector"
	"simpletools/internal/format"
	"simpletools/internal/progress"
	"simpletools/internal/scanner"
	"simpletools/internal/types"
)

// duplicatesOptions holds CLI flags for the duplicates command.
type duplicatesOptions struct {
	recursive    bool
	minSizeStr   string
	extensions   []string
	workers      int
	noProgress   bool
	showCommands bool
	useAI        bool
	model        string
	outFormat    string
	noColor      bool
}

// newDuplicatesCmd creates the duplicates subcommand.
func newDuplicatesCmd(cfg *config.File, log *logrus.Entry) *cobra.Command {
	opts := &duplicatesOptions{
		recursive:  true,
		minSizeStr: "1",
		workers:    runtime.NumCPU(),
		model:      ai.DefaultModel,
	}

	cmd := &cobra.Command{
		Use:   "duplicates [path]",
		Short: "Find files with identical content",
		Long: `Scans a directory tree and groups files whose content is byte-identical,
ranked by the disk space reclaimable from each group.

Nothing is deleted. With --show-commands the report includes suggested rm
commands that keep one member of each group; with --ai each group gets a
keep-recommendation based on filename version markers and modification
times, refined by a model call when ANTHROPIC_API_KEY is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			applyDuplicatesConfig(cmd, opts, cfg)
			return runDuplicates(root, opts, log)
		},
	}

	// Bind flags to options
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", opts.recursive, "Descend into subdirectories")
	cmd.Flags().StringVarP(&opts.minSizeStr, "min-size", "s", opts.minSizeStr, "Minimum file size (e.g., 100, 1K, 10M)")
	cmd.Flags().StringSliceVarP(&opts.extensions, "extension", "e", nil, "Only consider these extensions (repeatable)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of parallel hash workers")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().BoolVar(&opts.showCommands, "show-commands", false, "Print suggested rm commands")
	cmd.Flags().BoolVar(&opts.useAI, "ai", false, "Recommend which file to keep in each group")
	cmd.Flags().StringVar(&opts.model, "model", opts.model, "Model used for --ai recommendations")
	cmd.Flags().StringVarP(&opts.outFormat, "format", "f", "plain", "Output format: plain, json or csv")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

// applyDuplicatesConfig fills in options the user left at their default
// from the config file.
func applyDuplicatesConfig(cmd *cobra.Command, opts *duplicatesOptions, cfg *config.File) {
	flags := cmd.Flags()
	opts.recursive = resolveBool(flags.Changed("recursive"), opts.recursive, cfg.Duplicates.Recursive)
	opts.useAI = resolveBool(flags.Changed("ai"), opts.useAI, cfg.Duplicates.AI)
	opts.minSizeStr = resolveString(flags.Changed("min-size"), opts.minSizeStr, cfg.Duplicates.MinSize)
	opts.outFormat = resolveString(flags.Changed("format"), opts.outFormat, cfg.Format)
	if !flags.Changed("extension") && len(cfg.Duplicates.Extensions) > 0 {
		opts.extensions = cfg.Duplicates.Extensions
	}
}

// runDuplicates executes the detection pipeline and renders the report.
func runDuplicates(root string, opts *duplicatesOptions, log *logrus.Entry) error {
	minSize, err := parseSize(opts.minSizeStr)
	if err != nil {
		return fmt.Errorf("invalid --min-size: %w", err)
	}

	var analyzer detector.Analyzer
	if opts.useAI {
		client, err := ai.NewClient(ai.ClientConfig{Model: opts.model})
		if err != nil {
			// No API key still gets the filename/mtime heuristic.
			log.WithError(err).Warn("model refinement unavailable, using heuristic recommendations")
			client = nil
		}
		analyzer = ai.NewVersionAnalyzer(client, log)
	}

	showProgress := !opts.noProgress && opts.outFormat == "plain"
	bar := progress.New(showProgress, -1, "Hashing files")

	ctx, stop := signalContext()
	defer stop()

	report, err := detector.Detect(ctx, types.ScanConfig{
		Root:       root,
		Recursive:  opts.recursive,
		MinSize:    minSize,
		Extensions: opts.extensions,
	}, detector.Options{
		Workers:  opts.workers,
		Progress: bar.Callback(),
		Analyzer: analyzer,
		Log:      log,
	})
	bar.Finish("")
	if err != nil {
		switch {
		case errors.Is(err, scanner.ErrRootNotFound):
			return fmt.Errorf("directory not found: %s", root)
		case errors.Is(err, scanner.ErrNotDirectory):
			return fmt.Errorf("not a directory: %s", root)
		}
		return err
	}

	if err := format.Render(os.Stdout, report, format.Options{
		Format:       opts.outFormat,
		Root:         root,
		Recursive:    opts.recursive,
		ShowCommands: opts.showCommands,
		NoColor:      opts.noColor,
	}); err != nil {
		return err
	}

	recordHistory(log, "duplicates", []string{root}, fmt.Sprintf(
		"%d groups, %s reclaimable, %d files scanned",
		len(report.Sets), humanize.IBytes(uint64(report.TotalSavings())), report.TotalScanned))
	return nil
}
