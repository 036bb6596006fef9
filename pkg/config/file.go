package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileYAML is the canonical config filename.
	DefaultConfigFileYAML = ".puppetspectre.yaml"
	// DefaultConfigFileYML is a compatible alternate config filename.
	DefaultConfigFileYML = ".puppetspectre.yml"
)

// FileConfig represents values loaded from a .puppetspectre.yaml file.
// Pointer fields distinguish "not set" from a zero value.
type FileConfig struct {
	Report         string   `yaml:"report"`
	ReportDir      string   `yaml:"report_dir"`
	ReportType     string   `yaml:"report_type"`
	Count          *int     `yaml:"count"`
	SlowFilter     []string `yaml:"slow_filter"`
	FilterMode     string   `yaml:"filter_mode"`
	Unique         *bool    `yaml:"unique"`
	MetricLabel    string   `yaml:"metric_label"`
	MetricSublabel string   `yaml:"metric_sublabel"`
	MetricValue    *float64 `yaml:"metric_value"`
	Color          *bool    `yaml:"color"`
	Format         string   `yaml:"format"`
	Textfile       string   `yaml:"textfile"`
	ExpectedRuns   []string `yaml:"expected_runs"`
}

// Normalize trims and removes empty items from list fields.
func (fc *FileConfig) Normalize() {
	if fc == nil {
		return
	}
	fc.SlowFilter = normalizeList(fc.SlowFilter)
	fc.ExpectedRuns = normalizeList(fc.ExpectedRuns)
	fc.Report = strings.TrimSpace(fc.Report)
	fc.ReportDir = strings.TrimSpace(fc.ReportDir)
	fc.ReportType = strings.TrimSpace(fc.ReportType)
	fc.FilterMode = strings.TrimSpace(fc.FilterMode)
	fc.MetricLabel = strings.TrimSpace(fc.MetricLabel)
	fc.MetricSublabel = strings.TrimSpace(fc.MetricSublabel)
	fc.Format = strings.TrimSpace(fc.Format)
	fc.Textfile = strings.TrimSpace(fc.Textfile)
}

// AutoLoadFile discovers and loads the first available config file.
func AutoLoadFile() (*FileConfig, string, error) {
	candidates := []string{
		DefaultConfigFileYAML,
		DefaultConfigFileYML,
	}

	if homeDir, err := os.UserHomeDir(); err == nil && strings.TrimSpace(homeDir) != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, DefaultConfigFileYAML),
			filepath.Join(homeDir, DefaultConfigFileYML),
		)
	}

	return LoadFirstExistingFile(candidates)
}

// LoadFirstExistingFile loads the first config file that exists in paths.
func LoadFirstExistingFile(paths []string) (*FileConfig, string, error) {
	for _, path := range paths {
		candidate := strings.TrimSpace(path)
		if candidate == "" {
			continue
		}

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to access config file %q: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("config path %q is a directory, expected a file", candidate)
		}

		cfg, err := LoadFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	return nil, "", nil
}

// LoadFile loads config values from a specific YAML file path.
func LoadFile(path string) (*FileConfig, error) {
	filename := strings.TrimSpace(path)
	if filename == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	cfg := &FileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Apply copies the values set in the file onto cfg. Fields named in skip
// (flag names set explicitly on the command line) are left alone.
func (fc *FileConfig) Apply(cfg *Config, skip func(flag string) bool) {
	if fc == nil || cfg == nil {
		return
	}
	if skip == nil {
		skip = func(string) bool { return false }
	}

	if fc.Report != "" && !skip("report") {
		cfg.ReportPath = fc.Report
	}
	if fc.ReportDir != "" && !skip("report-dir") {
		cfg.ReportDir = fc.ReportDir
	}
	if fc.ReportType != "" && !skip("report-type") {
		cfg.Mode = fc.ReportType
	}
	if fc.Count != nil && !skip("count") {
		cfg.Count = *fc.Count
	}
	if len(fc.SlowFilter) > 0 && !skip("slow-filter") {
		cfg.SlowFilter.Patterns = append([]string(nil), fc.SlowFilter...)
	}
	if fc.FilterMode != "" && !skip("filter-mode") {
		cfg.SlowFilter.Mode = FilterMode(fc.FilterMode)
	}
	if fc.Unique != nil && !skip("unique") {
		cfg.Unique = *fc.Unique
	}
	if fc.MetricLabel != "" && !skip("metric-label") {
		cfg.MetricLabel = fc.MetricLabel
	}
	if fc.MetricSublabel != "" && !skip("metric-sublabel") {
		cfg.MetricSublabel = fc.MetricSublabel
	}
	if fc.MetricValue != nil && !skip("metric-value") {
		cfg.MetricValue = *fc.MetricValue
	}
	if fc.Color != nil && !skip("color") && !skip("no-color") {
		cfg.Color = *fc.Color
	}
	if fc.Format != "" && !skip("format") {
		cfg.Format = fc.Format
	}
	if fc.Textfile != "" && !skip("textfile") {
		cfg.Textfile = fc.Textfile
	}
	if len(fc.ExpectedRuns) > 0 && !skip("expect") {
		cfg.ExpectedRuns = append([]string(nil), fc.ExpectedRuns...)
	}
}

func normalizeList(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
