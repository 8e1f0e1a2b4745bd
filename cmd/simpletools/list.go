package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"simpletools/internal/config"
	"simpletools/internal/listing"
)

// listOptions holds CLI flags for the list command.
type listOptions struct {
	showAll   bool
	long      bool
	outFormat string
	noColor   bool
}

func newListCmd(cfg *config.File, log *logrus.Entry) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List directory contents, directories first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			flags := cmd.Flags()
			if !flags.Changed("all") && cfg.List.ShowAll {
				opts.showAll = true
			}
			if !flags.Changed("long") && cfg.List.Long {
				opts.long = true
			}
			opts.outFormat = resolveString(flags.Changed("format"), opts.outFormat, cfg.Format)
			return runList(dir, opts, log)
		},
	}

	cmd.Flags().BoolVarP(&opts.showAll, "all", "a", false, "Include hidden entries")
	cmd.Flags().BoolVarP(&opts.long, "long", "l", false, "Show sizes and modification times")
	cmd.Flags().StringVarP(&opts.outFormat, "format", "f", "plain", "Output format: plain, json or csv")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runList(dir string, opts *listOptions, log *logrus.Entry) error {
	items, err := listing.List(dir, listing.Options{
		ShowHidden: opts.showAll,
		Details:    opts.long,
	})
	if err != nil {
		return err
	}

	switch opts.outFormat {
	case "", "plain":
		renderListPlain(items, opts)
	case "json":
		if err := renderListJSON(items); err != nil {
			return err
		}
	case "csv":
		if err := renderListCSV(items); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", opts.outFormat)
	}

	recordHistory(log, "list", []string{dir}, fmt.Sprintf("%d entries", len(items)))
	return nil
}

func renderListPlain(items []listing.Item, opts *listOptions) {
	dirColor := color.New(color.FgBlue, color.Bold)
	if opts.noColor {
		dirColor.DisableColor()
	}

	for _, item := range items {
		name := item.Name
		if item.IsDir {
			name = dirColor.Sprint(name + "/")
		}
		if !opts.long {
			fmt.Println(name)
			continue
		}
		if item.IsDir {
			fmt.Printf("%10s  %s\n", "-", name)
			continue
		}
		fmt.Printf("%10s  %s  %s\n",
			humanize.IBytes(uint64(item.Size)),
			item.ModTime.Format("2006-01-02 15:04"),
			name)
	}
}

func renderListJSON(items []listing.Item) error {
	type jsonItem struct {
		Name    string     `json:"name"`
		Dir     bool       `json:"dir"`
		Size    int64      `json:"size,omitempty"`
		ModTime *time.Time `json:"mod_time,omitempty"`
	}

	out := make([]jsonItem, 0, len(items))
	for _, item := range items {
		ji := jsonItem{Name: item.Name, Dir: item.IsDir, Size: item.Size}
		if !item.ModTime.IsZero() {
			t := item.ModTime
			ji.ModTime = &t
		}
		out = append(out, ji)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderListCSV(items []listing.Item) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"name", "type", "size", "mod_time"}); err != nil {
		return err
	}
	for _, item := range items {
		kind := "file"
		if item.IsDir {
			kind = "dir"
		}
		var mtime string
		if !item.ModTime.IsZero() {
			mtime = item.ModTime.Format(time.RFC3339)
		}
		if err := w.Write([]string{item.Name, kind, strconv.FormatInt(item.Size, 10), mtime}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
