package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"simpletools/internal/config"
	"simpletools/internal/rename"
)

// renameOptions holds CLI flags for the rename command.
type renameOptions struct {
	recursive bool
	execute   bool
	noColor   bool
}

func newRenameCmd(cfg *config.File, log *logrus.Entry) *cobra.Command {
	opts := &renameOptions{}

	cmd := &cobra.Command{
		Use:   "rename <path> <old> <new>",
		Short: "Rename files by replacing a substring in their names",
		Long: `Replaces every occurrence of <old> with <new> in the names of files
under <path>. By default the planned renames are only printed; pass
--execute to perform them. Renames that would collide with an existing
file are skipped.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.execute = resolveBool(cmd.Flags().Changed("execute"), opts.execute, cfg.Rename.Execute)
			return runRename(args[0], args[1], args[2], opts, log)
		},
	}

	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&opts.execute, "execute", false, "Perform the renames (default is preview)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runRename(root, oldText, newText string, opts *renameOptions, log *logrus.Entry) error {
	changes, err := rename.Plan(rename.Options{
		Root:      root,
		Old:       oldText,
		New:       newText,
		Recursive: opts.recursive,
	})
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println("No matching files.")
		return nil
	}

	warn := color.New(color.FgYellow)
	if opts.noColor {
		warn.DisableColor()
	}

	var pending int
	for _, c := range changes {
		if c.Skipped {
			warn.Printf("skip  %s (%s)\n", filepath.Base(c.From), c.Reason)
			continue
		}
		pending++
		fmt.Printf("      %s -> %s\n", filepath.Base(c.From), filepath.Base(c.To))
	}

	if !opts.execute {
		fmt.Printf("\nPreview only: %d rename(s) planned. Re-run with --execute to apply.\n", pending)
		return nil
	}

	renamed, err := rename.Apply(changes)
	if err != nil {
		return fmt.Errorf("rename aborted after %d file(s): %w", renamed, err)
	}
	fmt.Printf("\nRenamed %d file(s).\n", renamed)

	recordHistory(log, "rename", []string{root, oldText, newText},
		fmt.Sprintf("%d renamed, %d skipped", renamed, len(changes)-pending))
	return nil
}
