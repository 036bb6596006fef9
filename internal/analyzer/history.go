package analyzer

import (
	"sort"
	"time"

	"github.com/ppiankov/puppetspectre/internal/models"
)

// NoVersion is the group for runs that did not record a configuration version.
const NoVersion = "None"

// Layouts Puppet has used for the report time field.
var reportTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -07:00",
	"2006-01-02 15:04:05.999999999 -0700",
}

func parseReportTime(value string) (time.Time, bool) {
	for _, layout := range reportTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// startedBefore orders runs by start time. Times that do not parse are
// compared as text.
func startedBefore(a, b models.RunRecord) bool {
	at, aok := parseReportTime(a.StartTime)
	bt, bok := parseReportTime(b.StartTime)
	if aok && bok {
		return at.Before(bt)
	}
	return a.StartTime < b.StartTime
}

// SummarizeRun condenses a report into the fields the history view shows.
func SummarizeRun(report *models.Report, source string) models.RunRecord {
	record := models.RunRecord{Source: source}
	if report == nil {
		return record
	}

	record.StartTime = report.Time
	record.Status = report.Status
	record.ConfigurationVersion = report.ConfigurationVersion

	if timeMetric, ok := report.Metrics["time"]; ok {
		for _, value := range timeMetric.Values {
			if value.Category == "total" {
				total := value.Value
				record.TotalTime = &total
			}
		}
	}

	if report.Status != "failed" {
		return record
	}
	for _, named := range report.ResourceStatuses {
		if !named.Status.Failed || len(named.Status.Events) == 0 {
			continue
		}
		failed := models.FailedResource{Resource: named.ID}
		for _, event := range named.Status.Events {
			failed.Messages = append(failed.Messages, event.Message)
		}
		record.Failed = append(record.Failed, failed)
	}
	return record
}

// OrganizeRuns groups runs by configuration version, each group ordered by
// start time. Expected versions come first and are present even when no run
// applied them. A group of runs without a version follows, flagged as
// unexpected. The remaining versions come last in sorted order.
func OrganizeRuns(records []models.RunRecord, expected []string) []models.RunGroup {
	byVersion := make(map[string][]models.RunRecord)
	for _, record := range records {
		version := record.ConfigurationVersion
		if version == "" {
			version = NoVersion
		}
		byVersion[version] = append(byVersion[version], record)
	}
	for _, runs := range byVersion {
		sort.SliceStable(runs, func(i, j int) bool {
			return startedBefore(runs[i], runs[j])
		})
	}

	groups := make([]models.RunGroup, 0, len(byVersion)+len(expected))
	placed := make(map[string]bool)

	for _, version := range expected {
		if placed[version] {
			continue
		}
		placed[version] = true
		runs := byVersion[version]
		groups = append(groups, models.RunGroup{
			Version:  version,
			Runs:     runs,
			Expected: true,
			Missing:  len(runs) == 0,
		})
	}

	if runs, ok := byVersion[NoVersion]; ok && !placed[NoVersion] {
		placed[NoVersion] = true
		groups = append(groups, models.RunGroup{Version: NoVersion, Runs: runs, Unexpected: true})
	}

	rest := make([]string, 0, len(byVersion))
	for version := range byVersion {
		if !placed[version] {
			rest = append(rest, version)
		}
	}
	sort.Strings(rest)
	for _, version := range rest {
		groups = append(groups, models.RunGroup{Version: version, Runs: byVersion[version]})
	}
	return groups
}
