package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ppiankov/puppetspectre/internal/analyzer"
	"github.com/ppiankov/puppetspectre/internal/collector"
	"github.com/ppiankov/puppetspectre/internal/logging"
	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/internal/reporter"
	"github.com/ppiankov/puppetspectre/pkg/config"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	return newAnalyzeCmd(config.DefaultConfig())
}

// newAnalyzeCmd binds the analyze flags to cfg.
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	var configPath string
	var slowFilter string
	var filterMode string
	var noColor bool

	cmd := &cobra.Command{
		Use:     "analyze",
		Aliases: []string{"report"},
		Short:   "Summarize a Puppet run report or rank slow resources across many",
		Long: `Summarize a Puppet agent run report: run metadata, metrics, resource
counts per type and the slowest resources.

With --report-type combi, or when --report names a directory, every report
found is scanned and the slowest resources across all of them are ranked.
A report path starting with RDIR/ is resolved against --report-dir.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.SlowFilter = config.ParseTypeFilter(slowFilter, config.FilterMode(filterMode))

			if err := applyConfigFile(cmd, cfg, configPath); err != nil {
				return err
			}
			if noColor {
				cfg.Color = false
			}
			if cfg.Debug {
				logging.Init(true)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Mode == config.ModeSingle && collector.New(cfg).IsDirectory(cfg.ReportPath) {
				slog.Debug("report path is a directory, switching to combi mode", slog.String("path", cfg.ReportPath))
				cfg.Mode = config.ModeCombi
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cfg, cmd.OutOrStdout())
		},
	}

	// Input flags
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .puppetspectre.yaml in cwd or home)")
	cmd.Flags().StringVar(&cfg.ReportPath, "report", config.DefaultReportPath, "Report file, directory or glob (RDIR/ prefix resolves against --report-dir)")
	cmd.Flags().StringVar(&cfg.ReportDir, "report-dir", config.DefaultReportDir, "Puppet report directory used for RDIR/ paths")
	cmd.Flags().StringVar(&cfg.Mode, "report-type", config.ModeSingle, "Type of report (single|combi)")

	// Ranking flags
	cmd.Flags().IntVar(&cfg.Count, "count", 20, "Number of resources to show evaluation times for")
	cmd.Flags().StringVar(&slowFilter, "slow-filter", "Package", "Resource types kept in the combi slow report, CSV")
	cmd.Flags().StringVar(&filterMode, "filter-mode", string(config.FilterSubstring), "How --slow-filter matches (substring|exact|glob)")
	cmd.Flags().BoolVar(&cfg.Unique, "unique", false, "Keep only the slowest entry per resource in combi mode")

	// Metric gate flags
	cmd.Flags().StringVar(&cfg.MetricLabel, "metric-label", "Time", "Metric group label to check")
	cmd.Flags().StringVar(&cfg.MetricSublabel, "metric-sublabel", "Total", "Metric row label to check")
	cmd.Flags().Float64Var(&cfg.MetricValue, "metric-value", 20, "Show slow resources only when the metric exceeds this value")

	// Section flags
	cmd.Flags().BoolVar(&cfg.ShowLogs, "logs", false, "Show log lines")
	cmd.Flags().BoolVar(&cfg.PrintFiles, "print-files", false, "Show the largest managed files")
	cmd.Flags().BoolVar(&cfg.FilePrintSummary, "file-print-summary", false, "Show the report summary of each file in combi mode")

	// Output flags
	cmd.Flags().BoolVar(&cfg.Color, "color", reporter.IsTerminal(os.Stdout), "Colorize the report")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")
	cmd.Flags().StringVar(&cfg.Format, "format", config.FormatText, "Output format (text|json)")
	cmd.Flags().StringVar(&cfg.Textfile, "textfile", "", "Also write Prometheus metrics to this textfile")

	// Operational flags
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Log each report as it is processed")

	return cmd
}

// applyConfigFile loads the --config file, or the first default config file
// found, and copies its values onto cfg. Flags set on the command line win.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config, configPath string) error {
	var fileCfg *config.FileConfig
	var loadedFrom string
	var err error

	if configPath != "" {
		fileCfg, err = config.LoadFile(configPath)
		loadedFrom = configPath
	} else {
		fileCfg, loadedFrom, err = config.AutoLoadFile()
	}
	if err != nil {
		return &config.ValidationError{Field: "--config", Value: configPath, Hint: err.Error()}
	}
	if fileCfg == nil {
		return nil
	}

	slog.Debug("config file loaded", slog.String("path", loadedFrom))
	fileCfg.Apply(cfg, cmd.Flags().Changed)
	return nil
}

// runAnalyze executes the analysis workflow
func runAnalyze(cfg *config.Config, out io.Writer) error {
	col := collector.New(cfg)
	an := analyzer.New(cfg, col)

	var analysis *models.Analysis
	if cfg.Mode == config.ModeCombi {
		paths, err := col.Discover(cfg.ReportPath)
		if err != nil {
			return err
		}
		slog.Debug("reports discovered", slog.Int("count", len(paths)))

		analysis, err = an.AnalyzeBatch(paths)
		if errors.Is(err, analyzer.ErrNoUsableReports) {
			return err
		}
		if err != nil {
			slog.Warn("some reports could not be loaded", slog.Int("skipped", len(analysis.LoadFailures)))
		}
	} else {
		var err error
		analysis, err = an.AnalyzeSingle(col.ResolvePath(cfg.ReportPath))
		if err != nil {
			return err
		}
	}
	analysis.Version = version

	if err := reporter.New(cfg, out).Generate(analysis); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return nil
}
