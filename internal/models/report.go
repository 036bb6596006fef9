package models

import "time"

// RankedEntry is one resource in a slowest-resources ranking.
type RankedEntry struct {
	EvaluationTime float64 `json:"evaluation_time"`
	Resource       string  `json:"resource"`
	Source         string  `json:"source,omitempty"`
}

// TypeCount is the number of resources of one type in a report.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// MetricRow is one value of a metric group, ready for display.
type MetricRow struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
}

// MetricGroup is a metric group with its rows sorted by value, largest first.
type MetricGroup struct {
	Name  string      `json:"name"`
	Label string      `json:"label"`
	Rows  []MetricRow `json:"rows"`
}

// MetricTable is the metrics section of a report.
type MetricTable struct {
	Groups  []MetricGroup `json:"groups"`
	Padding int           `json:"-"`
}

// ManagedFile is a File resource found on the local filesystem.
type ManagedFile struct {
	Path      string `json:"path"`
	Size      int64  `json:"size_bytes"`
	HumanSize string `json:"size"`
}

// ReportSummary is the run metadata block of a report.
type ReportSummary struct {
	File                 string `json:"file"`
	Host                 string `json:"host"`
	Environment          string `json:"environment"`
	Time                 string `json:"time"`
	Kind                 string `json:"kind,omitempty"`
	PuppetVersion        string `json:"puppet_version,omitempty"`
	ReportFormat         int    `json:"report_format"`
	ConfigurationVersion string `json:"configuration_version"`
	TransactionUUID      string `json:"transaction_uuid,omitempty"`
	Status               string `json:"status"`
	LogLines             int    `json:"log_lines"`
}

// ReportAnalysis holds everything derived from a single report file.
type ReportAnalysis struct {
	Summary           ReportSummary `json:"summary"`
	Metrics           MetricTable   `json:"metrics"`
	ThresholdExceeded bool          `json:"threshold_exceeded"`
	TypeCounts        []TypeCount   `json:"resources_by_type,omitempty"`
	Slowest           []RankedEntry `json:"slowest,omitempty"`
	// SlowestUnavailable explains why no ranking could be produced.
	SlowestUnavailable string        `json:"slowest_unavailable,omitempty"`
	Files              []ManagedFile `json:"files,omitempty"`
	Logs               []string      `json:"logs,omitempty"`
}

// LoadFailure is a report file that could not be loaded during a batch.
type LoadFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Analysis is the complete output of one invocation.
type Analysis struct {
	Tool         string           `json:"tool"`
	Version      string           `json:"version"`
	Mode         string           `json:"mode"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Count        int              `json:"count"`
	Unique       bool             `json:"unique"`
	Reports      []ReportAnalysis `json:"reports"`
	Slowest      []RankedEntry    `json:"slowest,omitempty"`
	LoadFailures []LoadFailure    `json:"load_failures,omitempty"`
	ParseErrors  []string         `json:"parse_errors,omitempty"`
}
