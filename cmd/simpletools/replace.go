package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"simpletools/internal/config"
	"simpletools/internal/replace"
)

// replaceOptions holds CLI flags for the replace command.
type replaceOptions struct {
	extensions []string
	execute    bool
	noColor    bool
}

func newReplaceCmd(cfg *config.File, log *logrus.Entry) *cobra.Command {
	opts := &replaceOptions{}

	cmd := &cobra.Command{
		Use:   "replace <path> <old> <new>",
		Short: "Replace text across files",
		Long: `Replaces every occurrence of <old> with <new> in the files under
<path>, or in a single file when <path> names one. By default the
matches are only previewed; pass --execute to rewrite the files.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts.execute = resolveBool(flags.Changed("execute"), opts.execute, cfg.Replace.Execute)
			if !flags.Changed("extension") && len(cfg.Replace.Extensions) > 0 {
				opts.extensions = cfg.Replace.Extensions
			}
			return runReplace(args[0], args[1], args[2], opts, log)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.extensions, "extension", "e", nil, "Only touch these extensions (repeatable)")
	cmd.Flags().BoolVar(&opts.execute, "execute", false, "Perform the replacement (default is preview)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runReplace(path, oldText, newText string, opts *replaceOptions, log *logrus.Entry) error {
	ropts := replace.Options{Old: oldText, New: newText, Extensions: opts.extensions}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		ropts.File = path
	} else {
		ropts.Root = path
	}

	r := replace.New(ropts, log)
	results, err := r.Plan()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No files contain the search text.")
		return nil
	}

	warn := color.New(color.FgYellow)
	if opts.noColor {
		warn.DisableColor()
	}

	var totalMatches, matchedFiles int
	for _, res := range results {
		if res.Err != nil {
			warn.Printf("skip  %s (%v)\n", filepath.Base(res.Path), res.Err)
			continue
		}
		matchedFiles++
		totalMatches += res.Matches
		fmt.Printf("%s (%d match(es))\n", res.Path, res.Matches)
		for _, line := range res.Preview {
			fmt.Printf("  %4d: %s\n", line.Number, line.Before)
			fmt.Printf("     -> %s\n", line.After)
		}
	}
	fmt.Printf("\n%d file(s), %d replacement(s)\n", matchedFiles, totalMatches)

	if !opts.execute {
		fmt.Println("Preview only. Re-run with --execute to apply.")
		return nil
	}

	_, replaced, failed := r.Apply(results)
	fmt.Printf("Rewrote %d file(s)", replaced)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println(".")

	recordHistory(log, "replace", []string{path, oldText, newText},
		fmt.Sprintf("%d files rewritten, %d replacements", replaced, totalMatches))
	return nil
}
