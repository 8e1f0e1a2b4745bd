package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"simpletools/internal/config"
	"simpletools/internal/organize"
)

// organizeOptions holds CLI flags for the organize command.
type organizeOptions struct {
	mode      string
	recursive bool
	execute   bool
	noColor   bool
}

func newOrganizeCmd(cfg *config.File, log *logrus.Entry) *cobra.Command {
	opts := &organizeOptions{mode: string(organize.ByType)}

	cmd := &cobra.Command{
		Use:   "organize [path]",
		Short: "Move files into category or date subdirectories",
		Long: `Sorts the files under a directory into subdirectories by file type
(Images/, Documents/, ...), by modification date (2024/07/), or both
(--mode mixed). By default the planned moves are only printed; pass
--execute to perform them. Files whose target already exists are
skipped, never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			flags := cmd.Flags()
			opts.mode = resolveString(flags.Changed("mode"), opts.mode, cfg.Organize.Mode)
			opts.recursive = resolveBool(flags.Changed("recursive"), opts.recursive, cfg.Organize.Recursive)
			opts.execute = resolveBool(flags.Changed("execute"), opts.execute, cfg.Organize.Execute)
			return runOrganize(root, opts, log)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "Layout: type, date or mixed")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&opts.execute, "execute", false, "Perform the moves (default is preview)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runOrganize(root string, opts *organizeOptions, log *logrus.Entry) error {
	o := organize.New(organize.Options{
		Root:      root,
		Mode:      organize.Mode(opts.mode),
		Recursive: opts.recursive,
	}, log)

	items, err := o.Plan()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Nothing to organize.")
		return nil
	}

	warn := color.New(color.FgYellow)
	if opts.noColor {
		warn.DisableColor()
	}

	// Group the preview by category for readability.
	byCategory := map[string][]organize.Item{}
	var order []string
	for _, item := range items {
		if _, seen := byCategory[item.Category]; !seen {
			order = append(order, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var pending, skipped int
	for _, cat := range order {
		group := byCategory[cat]
		fmt.Printf("%s (%d file(s)):\n", cat, len(group))
		for _, item := range group {
			if item.Status == organize.StatusSkipped {
				skipped++
				warn.Printf("  skip  %s (%v)\n", filepath.Base(item.Source), item.Err)
				continue
			}
			pending++
			rel, err := filepath.Rel(filepath.Dir(item.Source), item.Target)
			if err != nil {
				rel = item.Target
			}
			fmt.Printf("        %s -> %s\n", filepath.Base(item.Source), rel)
		}
	}

	if !opts.execute {
		fmt.Printf("\nPreview only: %d move(s) planned, %d skipped. Re-run with --execute to apply.\n", pending, skipped)
		return nil
	}

	sum := o.Apply(items)
	fmt.Printf("\nMoved %d file(s)", sum.Moved)
	if sum.Skipped > 0 {
		fmt.Printf(", skipped %d", sum.Skipped)
	}
	if sum.Failed > 0 {
		fmt.Printf(", %d failed", sum.Failed)
	}
	fmt.Println(".")

	recordHistory(log, "organize", []string{root, opts.mode},
		fmt.Sprintf("%d moved, %d skipped, %d failed", sum.Moved, sum.Skipped, sum.Failed))
	return nil
}
