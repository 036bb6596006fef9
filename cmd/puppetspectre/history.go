package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ppiankov/puppetspectre/internal/analyzer"
	"github.com/ppiankov/puppetspectre/internal/collector"
	"github.com/ppiankov/puppetspectre/internal/reporter"
	"github.com/ppiankov/puppetspectre/pkg/config"
	"github.com/spf13/cobra"
)

// defaultHistoryPattern matches every report of every node in the report directory.
const defaultHistoryPattern = "RDIR/*/*"

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	cfg.ReportPath = defaultHistoryPattern

	var configPath string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "history [PATH]",
		Short: "Group Puppet runs by configuration version",
		Long: `Load many reports and group the runs by configuration version, with
start time, total run time and result. Failed runs list the messages of
their failed resources.

Versions passed with --expect are listed first and reported when missing or
applied more than once. Runs without a configuration version are flagged.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigFile(cmd, cfg, configPath); err != nil {
				return err
			}
			// The config file report key names a single report; history scans a pattern.
			if !cmd.Flags().Changed("report") {
				cfg.ReportPath = defaultHistoryPattern
			}
			if len(args) == 1 {
				cfg.ReportPath = args[0]
			}
			if noColor {
				cfg.Color = false
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .puppetspectre.yaml in cwd or home)")
	cmd.Flags().StringVar(&cfg.ReportPath, "report", defaultHistoryPattern, "Report directory or glob (RDIR/ prefix resolves against --report-dir)")
	cmd.Flags().StringVar(&cfg.ReportDir, "report-dir", config.DefaultReportDir, "Puppet report directory used for RDIR/ paths")
	cmd.Flags().StringSliceVar(&cfg.ExpectedRuns, "expect", nil, "Configuration versions expected to run exactly once, CSV")
	cmd.Flags().StringVar(&cfg.Format, "format", config.FormatText, "Output format (text|json)")
	cmd.Flags().BoolVar(&cfg.Color, "color", reporter.IsTerminal(os.Stdout), "Colorize the output")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")

	return cmd
}

func runHistory(cfg *config.Config, out io.Writer) error {
	col := collector.New(cfg)
	paths, err := col.Discover(cfg.ReportPath)
	if err != nil {
		return err
	}

	history, err := analyzer.New(cfg, col).History(paths)
	if errors.Is(err, analyzer.ErrNoUsableReports) {
		return err
	}
	if err != nil {
		slog.Warn("some reports could not be loaded", slog.Int("skipped", len(history.LoadFailures)))
	}

	if err := reporter.New(cfg, out).GenerateHistory(history); err != nil {
		return fmt.Errorf("failed to generate history: %w", err)
	}
	return nil
}
