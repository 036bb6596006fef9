package analyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/pkg/config"
)

// ToolName identifies the analysis documents this package produces.
const ToolName = "puppetspectre"

// ReportLoader defines the methods needed from the report source
type ReportLoader interface {
	Load(path string) (*models.Report, error)
}

// Analyzer turns loaded reports into analysis documents
type Analyzer struct {
	config *config.Config
	loader ReportLoader
}

// New creates a new analyzer instance
func New(cfg *config.Config, loader ReportLoader) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Analyzer{
		config: cfg,
		loader: loader,
	}
}

// AnalyzeSingle analyzes one report. A report that cannot be loaded is
// returned as an error.
func (a *Analyzer) AnalyzeSingle(path string) (*models.Analysis, error) {
	report, err := a.loader.Load(path)
	if err != nil {
		return nil, err
	}

	analysis := a.newAnalysis(config.ModeSingle)
	section, parseErrs := a.analyzeReport(report, path, true)
	analysis.Reports = append(analysis.Reports, section)
	analysis.Slowest = section.Slowest
	analysis.ParseErrors = recordParseErrors(parseErrs)
	return analysis, nil
}

func (a *Analyzer) newAnalysis(mode string) *models.Analysis {
	return &models.Analysis{
		Tool:        ToolName,
		Mode:        mode,
		GeneratedAt: time.Now().UTC(),
		Count:       a.config.Count,
		Unique:      a.config.Unique,
		Reports:     make([]models.ReportAnalysis, 0),
	}
}

// analyzeReport builds the per-report section. In single mode the type
// counts and slowest resources are only filled in when the metric gate
// opens; in batch mode the ranking is done by the caller.
func (a *Analyzer) analyzeReport(report *models.Report, path string, single bool) (models.ReportAnalysis, []error) {
	section := models.ReportAnalysis{
		Summary: summarize(report, path),
		Metrics: MetricTable(report),
	}
	section.ThresholdExceeded = MetricThresholdExceeded(
		section.Metrics,
		a.config.MetricLabel,
		a.config.MetricSublabel,
		a.config.MetricValue,
	)

	errs := metricErrors(report, path)
	errs = append(errs, timingErrors(report, path)...)

	if single && section.ThresholdExceeded {
		counts, typeErrs := SummaryByType(report)
		section.TypeCounts = counts
		for _, err := range typeErrs {
			errs = append(errs, withSource(err, path))
		}

		slowest, err := SlowResources(report, a.config.Count, path, config.TypeFilter{})
		if err != nil {
			section.SlowestUnavailable = err.Error()
		} else {
			section.Slowest = slowest
		}
	}

	if a.config.PrintFiles {
		section.Files = FilesSummary(report, a.config.Count)
	}
	if a.config.ShowLogs {
		section.Logs = make([]string, 0, len(report.Logs))
		for _, entry := range report.Logs {
			section.Logs = append(section.Logs, entry.String())
		}
	}
	return section, errs
}

func summarize(report *models.Report, path string) models.ReportSummary {
	return models.ReportSummary{
		File:                 path,
		Host:                 report.Host,
		Environment:          report.Environment,
		Time:                 report.Time,
		Kind:                 report.Kind,
		PuppetVersion:        report.PuppetVersion,
		ReportFormat:         report.ReportFormat,
		ConfigurationVersion: report.ConfigurationVersion,
		TransactionUUID:      report.TransactionUUID,
		Status:               report.Status,
		LogLines:             len(report.Logs),
	}
}

func withSource(err error, source string) error {
	var parseErr *models.ParseError
	if errors.As(err, &parseErr) && parseErr.Source == "" {
		copied := *parseErr
		copied.Source = source
		return &copied
	}
	return err
}

// recordParseErrors logs parse errors and returns their messages.
func recordParseErrors(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		slog.Warn("skipping unparseable report item", slog.String("error", err.Error()))
		messages = append(messages, err.Error())
	}
	return messages
}

// ErrNoUsableReports is returned when every report of a batch failed to load.
var ErrNoUsableReports = errors.New("none of the reports could be loaded")

func noUsableReports(err error) error {
	return fmt.Errorf("%w: %w", ErrNoUsableReports, err)
}
