package analyzer

import (
	"errors"
	"log/slog"

	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/pkg/config"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// AnalyzeBatch analyzes reports one after another and ranks the slowest
// resources across all of them. Reports that fail to load are recorded and
// skipped; their errors come back as an aggregate next to the analysis.
// When no report could be loaded at all the error wraps ErrNoUsableReports.
func (a *Analyzer) AnalyzeBatch(paths []string) (*models.Analysis, error) {
	analysis := a.newAnalysis(config.ModeCombi)

	var loadErrs, parseErrs []error
	lists := make([][]models.RankedEntry, 0, len(paths))

	for _, path := range paths {
		slog.Debug("processing report", slog.String("path", path))

		report, err := a.loader.Load(path)
		if err != nil {
			slog.Warn("skipping report", slog.String("path", path), slog.String("error", err.Error()))
			analysis.LoadFailures = append(analysis.LoadFailures, models.LoadFailure{Path: path, Error: err.Error()})
			loadErrs = append(loadErrs, err)
			continue
		}

		section, errs := a.analyzeReport(report, path, false)
		parseErrs = append(parseErrs, errs...)

		entries, err := SlowResources(report, a.config.Count, path, a.config.SlowFilter)
		var formatErr *FormatError
		switch {
		case errors.As(err, &formatErr):
			section.SlowestUnavailable = err.Error()
		case err != nil:
			parseErrs = append(parseErrs, err)
		default:
			lists = append(lists, entries)
		}

		analysis.Reports = append(analysis.Reports, section)
	}

	analysis.Slowest = MergeAndTruncate(lists, a.config.Count, a.config.Unique)
	analysis.ParseErrors = recordParseErrors(parseErrs)

	slog.Debug("batch complete",
		slog.Int("reports", len(analysis.Reports)),
		slog.Int("failed", len(analysis.LoadFailures)),
		slog.Int("ranked", len(analysis.Slowest)),
	)

	agg := utilerrors.NewAggregate(loadErrs)
	if agg != nil && len(analysis.Reports) == 0 {
		return analysis, noUsableReports(agg)
	}
	return analysis, agg
}

// History loads reports and groups their runs by configuration version.
// Reports that fail to load are recorded and skipped.
func (a *Analyzer) History(paths []string) (*models.History, error) {
	history := &models.History{}
	records := make([]models.RunRecord, 0, len(paths))
	var loadErrs []error

	for _, path := range paths {
		report, err := a.loader.Load(path)
		if err != nil {
			slog.Warn("skipping report", slog.String("path", path), slog.String("error", err.Error()))
			history.LoadFailures = append(history.LoadFailures, models.LoadFailure{Path: path, Error: err.Error()})
			loadErrs = append(loadErrs, err)
			continue
		}
		records = append(records, SummarizeRun(report, path))
	}

	history.Groups = OrganizeRuns(records, a.config.ExpectedRuns)

	agg := utilerrors.NewAggregate(loadErrs)
	if agg != nil && len(records) == 0 {
		return history, noUsableReports(agg)
	}
	return history, agg
}
