package reporter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/pkg/config"
)

type textStyles struct {
	bold      lipgloss.Style
	underline lipgloss.Style
	red       lipgloss.Style
}

func newTextStyles(useColor bool) textStyles {
	renderer := lipgloss.NewRenderer(io.Discard)
	if useColor {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return textStyles{
		bold:      renderer.NewStyle().Bold(true),
		underline: renderer.NewStyle().Bold(true).Underline(true),
		red:       renderer.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func writeText(analysis *models.Analysis, cfg *config.Config, out io.Writer) error {
	if analysis == nil {
		return fmt.Errorf("analysis is nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if out == nil {
		return fmt.Errorf("writer is nil")
	}

	rendered := renderTextAnalysis(analysis, cfg, newTextStyles(cfg.Color))
	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("failed to write text report to output: %w", err)
	}
	return nil
}

func renderTextAnalysis(analysis *models.Analysis, cfg *config.Config, styles textStyles) string {
	var b strings.Builder

	if analysis.Mode == config.ModeCombi {
		for _, section := range analysis.Reports {
			if cfg.FilePrintSummary {
				writeReportSummary(&b, section.Summary, cfg.ShowLogs, styles)
			}
			if section.SlowestUnavailable != "" {
				writeTooOld(&b, section.Summary.ReportFormat, styles)
			}
			writeMetrics(&b, section.Metrics, section.Summary.File, styles)
			writeFiles(&b, section.Files, styles)
			writeLogs(&b, section.Logs, cfg.ShowLogs, styles)
		}

		b.WriteString(styles.bold.Render(fmt.Sprintf("Slowest %d resources by evaluation time:", len(analysis.Slowest))))
		b.WriteString("\n\n")
		for _, entry := range analysis.Slowest {
			fmt.Fprintf(&b, "   %7.3f %s %s\n", entry.EvaluationTime, entry.Resource, entry.Source)
		}
		writeLoadFailures(&b, analysis.LoadFailures, styles)
		return b.String()
	}

	for _, section := range analysis.Reports {
		writeReportSummary(&b, section.Summary, cfg.ShowLogs, styles)
		writeMetrics(&b, section.Metrics, "", styles)
		if section.ThresholdExceeded {
			writeTypeCounts(&b, section.TypeCounts, styles)
			if section.SlowestUnavailable != "" {
				writeTooOld(&b, section.Summary.ReportFormat, styles)
			} else {
				writeSlowest(&b, section.Slowest, styles)
			}
		}
		writeFiles(&b, section.Files, styles)
		writeLogs(&b, section.Logs, cfg.ShowLogs, styles)
	}
	return b.String()
}

func writeReportSummary(b *strings.Builder, summary models.ReportSummary, showLogs bool, styles textStyles) {
	b.WriteString(styles.bold.Render("Report for "))
	b.WriteString(styles.underline.Render(summary.Host))
	b.WriteString(styles.bold.Render(" in environment "))
	b.WriteString(styles.underline.Render(summary.Environment))
	b.WriteString(styles.bold.Render(" at "))
	b.WriteString(styles.underline.Render(summary.Time))
	b.WriteString("\n\n")

	logHint := "(show with --logs)"
	if showLogs {
		logHint = ""
	}

	fmt.Fprintf(b, "             Report File: %s\n", summary.File)
	fmt.Fprintf(b, "             Report Kind: %s\n", summary.Kind)
	fmt.Fprintf(b, "          Puppet Version: %s\n", summary.PuppetVersion)
	fmt.Fprintf(b, "           Report Format: %d\n", summary.ReportFormat)
	fmt.Fprintf(b, "   Configuration Version: %s\n", summary.ConfigurationVersion)
	if summary.TransactionUUID != "" {
		fmt.Fprintf(b, "                    UUID: %s\n", summary.TransactionUUID)
	}
	fmt.Fprintf(b, "               Log Lines: %d %s\n", summary.LogLines, logHint)
	b.WriteString("\n")
}

func writeMetrics(b *strings.Builder, table models.MetricTable, file string, styles textStyles) {
	writeTextSectionHeader(b, "Report Metrics:", styles)
	fmt.Fprintf(b, "%s\n", file)

	for _, group := range table.Groups {
		fmt.Fprintf(b, "   %s:\n", group.Label)
		for _, row := range group.Rows {
			fmt.Fprintf(b, "%*s: %s\n", table.Padding, row.Label, formatMetricValue(row.Value))
		}
		b.WriteString("\n")
	}
}

func writeTypeCounts(b *strings.Builder, counts []models.TypeCount, styles textStyles) {
	writeTextSectionHeader(b, "Resources by resource type:", styles)
	b.WriteString("\n")
	for _, count := range counts {
		fmt.Fprintf(b, "   %4d %s\n", count.Count, count.Type)
	}
	b.WriteString("\n")
}

func writeSlowest(b *strings.Builder, entries []models.RankedEntry, styles textStyles) {
	writeTextSectionHeader(b, fmt.Sprintf("Slowest %d resources by evaluation time:", len(entries)), styles)
	b.WriteString("\n")
	for _, entry := range entries {
		fmt.Fprintf(b, "   %7.2f %s\n", entry.EvaluationTime, entry.Resource)
	}
	b.WriteString("\n")
}

func writeTooOld(b *strings.Builder, format int, styles textStyles) {
	b.WriteString(styles.red.Render(fmt.Sprintf("   Cannot print slow resources for report versions %d", format)))
	b.WriteString("\n\n")
}

func writeFiles(b *strings.Builder, files []models.ManagedFile, styles textStyles) {
	if files == nil {
		return
	}
	b.WriteString(styles.bold.Render(fmt.Sprintf("%d largest managed files", len(files))))
	b.WriteString(" (only those with full path as resource name that are readable)\n\n")
	for _, file := range files {
		fmt.Fprintf(b, "   %9s %s\n", file.HumanSize, file.Path)
	}
	b.WriteString("\n")
}

func writeLogs(b *strings.Builder, logs []string, show bool, styles textStyles) {
	if !show {
		return
	}
	writeTextSectionHeader(b, fmt.Sprintf("%d Log lines:", len(logs)), styles)
	b.WriteString("\n")
	for _, line := range logs {
		fmt.Fprintf(b, "   %s\n", line)
	}
	b.WriteString("\n")
}

func writeLoadFailures(b *strings.Builder, failures []models.LoadFailure, styles textStyles) {
	if len(failures) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(styles.red.Render(fmt.Sprintf("Skipped %d report(s) that could not be loaded:", len(failures))))
	b.WriteString("\n")
	for _, failure := range failures {
		fmt.Fprintf(b, "   %s: %s\n", failure.Path, failure.Error)
	}
}

// writeHistoryText writes run history grouped by configuration version.
func writeHistoryText(history *models.History, cfg *config.Config, out io.Writer) error {
	if history == nil {
		return fmt.Errorf("history is nil")
	}
	if out == nil {
		return fmt.Errorf("writer is nil")
	}
	styles := newTextStyles(cfg != nil && cfg.Color)

	var b strings.Builder
	for _, group := range history.Groups {
		switch {
		case group.Expected:
			writeTextSectionHeader(&b, "For run type: "+group.Version, styles)
			if group.Missing {
				fmt.Fprintf(&b, "  Did not find expected report: %s\n", group.Version)
				continue
			}
			if len(group.Runs) != 1 {
				b.WriteString(styles.red.Render(fmt.Sprintf("Expected 1 run, found %d", len(group.Runs))))
				b.WriteString("\n")
			}
		case group.Unexpected:
			b.WriteString(styles.red.Render("Unexpected run type: " + group.Version))
			b.WriteString("\n")
		default:
			writeTextSectionHeader(&b, fmt.Sprintf("Found %d report(s) for version %s", len(group.Runs), group.Version), styles)
		}
		writeRuns(&b, group.Runs)
	}
	writeLoadFailures(&b, history.LoadFailures, styles)

	if _, err := io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("failed to write history to output: %w", err)
	}
	return nil
}

func writeRuns(b *strings.Builder, runs []models.RunRecord) {
	for _, run := range runs {
		took := "unknown"
		if run.TotalTime != nil {
			took = formatMetricValue(*run.TotalTime)
		}
		fmt.Fprintf(b, "  Started at %s, took %s, result %s\n", run.StartTime, took, run.Status)
		for _, failed := range run.Failed {
			fmt.Fprintf(b, "    %s: %s\n", failed.Resource, strings.Join(failed.Messages, "; "))
		}
	}
}

func formatMetricValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func writeTextSectionHeader(b *strings.Builder, title string, styles textStyles) {
	fmt.Fprintf(b, "%s\n", styles.bold.Render(title))
}

// IsTerminal reports whether out is a character device, i.e. colour can be used.
func IsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
