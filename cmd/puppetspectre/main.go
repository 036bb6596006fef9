package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/puppetspectre/internal/analyzer"
	"github.com/ppiankov/puppetspectre/internal/collector"
	"github.com/ppiankov/puppetspectre/internal/logging"
	"github.com/ppiankov/puppetspectre/pkg/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"
	verbose bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitLoad       = 1
	ExitInvalidArg = 2
)

func main() {
	logging.Init(false)

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(classifyError(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "puppetspectre",
		Short: "Puppet run report analyzer",
		Long: `puppetspectre reads Puppet agent run reports and summarizes them:
run metadata, metrics, the slowest resources, resource counts per type,
the largest managed files and log lines.

Point it at a directory or glob of reports to rank the slowest resources
across a whole fleet.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewAnalyzeCmd())
	root.AddCommand(NewHistoryCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *config.ValidationError
	if errors.As(err, &validationErr) {
		return ExitInvalidArg
	}

	var loadErr *collector.LoadError
	if errors.As(err, &loadErr) ||
		errors.Is(err, collector.ErrNoReports) ||
		errors.Is(err, analyzer.ErrNoUsableReports) {
		return ExitLoad
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "unknown flag") ||
		strings.Contains(msg, "unknown command") ||
		strings.Contains(msg, "unknown shorthand flag") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "accepts at most") ||
		strings.Contains(msg, "must be") {
		return ExitInvalidArg
	}

	return ExitLoad
}
