package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"simpletools/internal/history"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// parseSize parses a human-readable size string into bytes.
// Supports formats: "100", "1K", "1MB", "1GiB", etc.
func parseSize(s string) (int64, error) {
	bytes, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(bytes), nil
}

// recordHistory appends one entry to the user's history log. History is
// best-effort; failures are logged and never fail the command.
func recordHistory(log *logrus.Entry, tool string, args []string, summary string) {
	hist, err := history.New("")
	if err != nil {
		log.WithError(err).Debug("history disabled")
		return
	}
	if err := hist.Record(history.Entry{
		Time:    time.Now(),
		Tool:    tool,
		Args:    strings.Join(args, " "),
		Summary: summary,
	}); err != nil {
		log.WithError(err).Debug("history write failed")
	}
}

// resolveBool applies flag > config > default resolution for a boolean
// option: the config value only wins when the flag was not set.
func resolveBool(changed bool, flag bool, file *bool) bool {
	if changed || file == nil {
		return flag
	}
	return *file
}

// resolveString is resolveBool for strings; an empty config value counts
// as absent.
func resolveString(changed bool, flag, file string) string {
	if changed || file == "" {
		return flag
	}
	return file
}
