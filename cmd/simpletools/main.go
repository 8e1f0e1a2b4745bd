package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"simpletools/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	entry := logrus.NewEntry(log)

	cfg, err := config.LoadDefault(".")
	if err != nil {
		entry.WithError(err).Warn("ignoring config file")
		cfg = &config.File{}
	}

	var verbose bool
	root := &cobra.Command{
		Use:     "simpletools",
		Short:   "Small file utilities: duplicates, list, rename, replace, organize",
		Version: version + " (" + commit + ")",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose || cfg.Verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newDuplicatesCmd(cfg, entry),
		newListCmd(cfg, entry),
		newRenameCmd(cfg, entry),
		newReplaceCmd(cfg, entry),
		newOrganizeCmd(cfg, entry),
	)

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
