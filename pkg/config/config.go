package config

import (
	"fmt"
	"strings"
)

// Report modes.
const (
	ModeSingle = "single"
	ModeCombi  = "combi"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	// DefaultReportPath is where the Puppet agent writes its last run report.
	DefaultReportPath = "/opt/puppetlabs/puppet/cache/state/last_run_report.yaml"
	// DefaultReportDir is the Puppet reportdir used to resolve RDIR/ paths.
	DefaultReportDir = "/opt/puppetlabs/puppet/cache/reports"
)

// Config holds all runtime configuration. It is built once from defaults,
// the config file and flags, validated, and then only read.
type Config struct {
	// Input
	ReportPath string
	ReportDir  string
	Mode       string

	// Ranking
	Count      int
	SlowFilter TypeFilter
	Unique     bool

	// Metric gate
	MetricLabel    string
	MetricSublabel string
	MetricValue    float64

	// Sections
	ShowLogs         bool
	PrintFiles       bool
	FilePrintSummary bool

	// Output
	Color    bool
	Format   string
	Textfile string

	// History
	ExpectedRuns []string

	// Operational flags
	Debug bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ReportPath: DefaultReportPath,
		ReportDir:  DefaultReportDir,
		Mode:       ModeSingle,
		Count:      20,
		SlowFilter: TypeFilter{
			Patterns: []string{"Package"},
			Mode:     FilterSubstring,
		},
		Unique:         false,
		MetricLabel:    "Time",
		MetricSublabel: "Total",
		MetricValue:    20,
		Color:          false,
		Format:         FormatText,
		ExpectedRuns:   []string{},
		Debug:          false,
	}
}

// ValidationError is a configuration value that cannot be used.
type ValidationError struct {
	Field string
	Value string
	Hint  string
}

func (e *ValidationError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s value %q: %s", e.Field, e.Value, e.Hint)
}

// Validate normalizes list values and checks that the configuration is usable.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.ReportPath = strings.TrimSpace(c.ReportPath)
	c.SlowFilter.Normalize()
	c.ExpectedRuns = normalizeList(c.ExpectedRuns)

	switch c.Mode {
	case ModeSingle, ModeCombi:
	default:
		return &ValidationError{Field: "--report-type", Value: c.Mode, Hint: "must be single or combi"}
	}

	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return &ValidationError{Field: "--format", Value: c.Format, Hint: "must be text or json"}
	}

	if c.Count <= 0 {
		return &ValidationError{Field: "--count", Value: fmt.Sprint(c.Count), Hint: "must be greater than zero"}
	}

	if !c.SlowFilter.Mode.Valid() {
		return &ValidationError{Field: "--filter-mode", Value: string(c.SlowFilter.Mode), Hint: "must be substring, exact or glob"}
	}

	if c.ReportPath == "" {
		return &ValidationError{Field: "--report", Value: "", Hint: "a report path is required"}
	}

	return nil
}
