package analyzer

import (
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/ppiankov/puppetspectre/internal/models"
)

// metricPadding is added to the longest metric label when aligning rows.
const metricPadding = 6

// SummaryByType counts resources per type, most common first. Identifiers
// that are not of the form Type[title] are returned as parse errors and
// left out of the counts.
func SummaryByType(report *models.Report) ([]models.TypeCount, []error) {
	counts := make(map[string]int)
	var errs []error

	for _, named := range Resources(report) {
		resourceType, err := models.ResourceType(named.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		counts[resourceType]++
	}

	summary := make([]models.TypeCount, 0, len(counts))
	for resourceType, count := range counts {
		summary = append(summary, models.TypeCount{Type: resourceType, Count: count})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].Type < summary[j].Type
	})
	return summary, errs
}

// MetricTable lays out the metric groups of a report for display. Groups are
// ordered by label and rows by value, largest first.
func MetricTable(report *models.Report) models.MetricTable {
	table := models.MetricTable{Padding: metricPadding}
	if report == nil {
		return table
	}

	keys := make([]string, 0, len(report.Metrics))
	for key := range report.Metrics {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := report.Metrics[keys[i]].Label, report.Metrics[keys[j]].Label
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})

	longest := 0
	for _, key := range keys {
		metric := report.Metrics[key]
		group := models.MetricGroup{
			Name:  key,
			Label: metric.Label,
			Rows:  make([]models.MetricRow, 0, len(metric.Values)),
		}
		for _, value := range metric.Values {
			group.Rows = append(group.Rows, models.MetricRow{
				Category: value.Category,
				Label:    value.Label,
				Value:    value.Value,
			})
			if len(value.Label) > longest {
				longest = len(value.Label)
			}
		}
		sort.SliceStable(group.Rows, func(i, j int) bool {
			return group.Rows[i].Value > group.Rows[j].Value
		})
		table.Groups = append(table.Groups, group)
	}

	table.Padding = longest + metricPadding
	return table
}

// MetricThresholdExceeded reports whether the group labelled label has a row
// labelled sublabel whose whole-number part is above threshold.
func MetricThresholdExceeded(table models.MetricTable, label, sublabel string, threshold float64) bool {
	for _, group := range table.Groups {
		if group.Label != label {
			continue
		}
		for _, row := range group.Rows {
			if row.Label == sublabel && math.Trunc(row.Value) > threshold {
				return true
			}
		}
	}
	return false
}

// metricErrors lists metric values that were not [category, label, number].
func metricErrors(report *models.Report, source string) []error {
	if report == nil {
		return nil
	}
	keys := make([]string, 0, len(report.Metrics))
	for key := range report.Metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		for _, reason := range report.Metrics[key].Malformed {
			errs = append(errs, &models.ParseError{Source: source, Item: "metric " + key, Reason: reason})
		}
	}
	return errs
}

// FilesSummary returns up to n of the largest files managed as File
// resources that exist on this machine. Only resources titled with an
// absolute path to a readable regular file count; symlinks are skipped.
// Results are ordered by size, largest first, then by path.
func FilesSummary(report *models.Report, n int) []models.ManagedFile {
	seen := make(map[string]bool)
	files := make([]models.ManagedFile, 0)

	for _, named := range ResourcesOfType(report, "File") {
		resourceType, path, err := models.ParseResourceID(named.ID)
		if err != nil || resourceType != "File" || seen[path] {
			continue
		}
		seen[path] = true

		size, ok := localFileSize(path)
		if !ok {
			continue
		}
		files = append(files, models.ManagedFile{
			Path:      path,
			Size:      size,
			HumanSize: BytesToHuman(float64(size)),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}
		return files[i].Path < files[j].Path
	})
	if n >= 0 && len(files) > n {
		files = files[:n]
	}
	return files
}

func localFileSize(path string) (int64, bool) {
	if !filepath.IsAbs(path) {
		return 0, false
	}
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	_ = f.Close()
	return info.Size(), true
}
