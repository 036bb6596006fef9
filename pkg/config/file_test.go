package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileYAML)
	content := `
report: RDIR/web01/*.yaml
report_dir: /srv/puppet/reports
report_type: combi
count: 7
slow_filter:
  - Package
  - " "
  - Service
filter_mode: exact
unique: true
metric_label: Time
metric_sublabel: Total
metric_value: 12.5
color: false
format: json
textfile: /var/lib/node_exporter/puppet.prom
expected_runs:
  - settings
  - bootstrap
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Report != "RDIR/web01/*.yaml" {
		t.Fatalf("unexpected report %q", cfg.Report)
	}
	if cfg.Count == nil || *cfg.Count != 7 {
		t.Fatalf("expected count=7, got %v", cfg.Count)
	}
	if len(cfg.SlowFilter) != 2 || cfg.SlowFilter[1] != "Service" {
		t.Fatalf("unexpected slow_filter: %v", cfg.SlowFilter)
	}
	if cfg.Unique == nil || !*cfg.Unique {
		t.Fatalf("expected unique=true, got %v", cfg.Unique)
	}
	if cfg.MetricValue == nil || *cfg.MetricValue != 12.5 {
		t.Fatalf("expected metric_value=12.5, got %v", cfg.MetricValue)
	}
	if cfg.Color == nil || *cfg.Color {
		t.Fatalf("expected color=false, got %v", cfg.Color)
	}
	if len(cfg.ExpectedRuns) != 2 {
		t.Fatalf("unexpected expected_runs: %v", cfg.ExpectedRuns)
	}
}

func TestFileConfigApplyRespectsExplicitFlags(t *testing.T) {
	count := 5
	unique := true
	fc := &FileConfig{
		Report:     "/tmp/report.yaml",
		ReportType: "combi",
		Count:      &count,
		SlowFilter: []string{"Service"},
		FilterMode: "glob",
		Unique:     &unique,
		Format:     "json",
	}

	cfg := DefaultConfig()
	fc.Apply(cfg, func(flag string) bool { return flag == "count" || flag == "format" })

	if cfg.ReportPath != "/tmp/report.yaml" {
		t.Fatalf("expected report path from file, got %q", cfg.ReportPath)
	}
	if cfg.Mode != "combi" {
		t.Fatalf("expected mode from file, got %q", cfg.Mode)
	}
	if cfg.Count != 20 {
		t.Fatalf("expected explicit --count to win, got %d", cfg.Count)
	}
	if cfg.Format != FormatText {
		t.Fatalf("expected explicit --format to win, got %q", cfg.Format)
	}
	if len(cfg.SlowFilter.Patterns) != 1 || cfg.SlowFilter.Patterns[0] != "Service" {
		t.Fatalf("unexpected slow filter %v", cfg.SlowFilter.Patterns)
	}
	if cfg.SlowFilter.Mode != FilterGlob {
		t.Fatalf("expected glob mode, got %q", cfg.SlowFilter.Mode)
	}
	if !cfg.Unique {
		t.Fatal("expected unique from file")
	}
}

func TestFileConfigApplyNilSafe(t *testing.T) {
	var fc *FileConfig
	cfg := DefaultConfig()
	fc.Apply(cfg, nil)
	if cfg.Count != 20 {
		t.Fatalf("expected defaults untouched, got %d", cfg.Count)
	}
}

func TestAutoLoadFilePrefersCWD(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	cwdFile := filepath.Join(cwd, DefaultConfigFileYAML)
	homeFile := filepath.Join(home, DefaultConfigFileYAML)

	if err := os.WriteFile(cwdFile, []byte("report: /cwd/report.yaml\n"), 0o644); err != nil {
		t.Fatalf("failed to write cwd config file: %v", err)
	}
	if err := os.WriteFile(homeFile, []byte("report: /home/report.yaml\n"), 0o644); err != nil {
		t.Fatalf("failed to write home config file: %v", err)
	}

	t.Setenv("HOME", home)
	chdirForTest(t, cwd)

	cfg, path, err := AutoLoadFile()
	if err != nil {
		t.Fatalf("AutoLoadFile failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config file to be loaded")
	}
	if cfg.Report != "/cwd/report.yaml" {
		t.Fatalf("expected cwd config to win, got %q", cfg.Report)
	}
	if path != DefaultConfigFileYAML {
		t.Fatalf("expected returned path to be %q, got %q", DefaultConfigFileYAML, path)
	}
}

func TestLoadFirstExistingFileNoMatch(t *testing.T) {
	cfg, path, err := LoadFirstExistingFile([]string{
		filepath.Join(t.TempDir(), "missing-1.yaml"),
		filepath.Join(t.TempDir(), "missing-2.yaml"),
	})
	if err != nil {
		t.Fatalf("expected no error when no files found, got %v", err)
	}
	if cfg != nil || path != "" {
		t.Fatalf("expected nil config and empty path, got cfg=%v path=%q", cfg, path)
	}
}

func TestLoadFirstExistingFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := LoadFirstExistingFile([]string{dir}); err == nil {
		t.Fatal("expected error for directory config path")
	}
}

func TestLoadFileRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("count: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %q: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}
