package reporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/pkg/config"
)

func TestWriteTextfile(t *testing.T) {
	analysis := singleAnalysis()
	analysis.Reports[0].Summary.File = "r.yaml"
	analysis.Slowest = []models.RankedEntry{
		{EvaluationTime: 12.5, Resource: "Package[nginx]", Source: "r.yaml"},
		{EvaluationTime: 1, Resource: "broken", Source: "r.yaml"},
	}
	analysis.LoadFailures = []models.LoadFailure{{Path: "bad.yaml", Error: "boom"}}

	path := filepath.Join(t.TempDir(), "puppet.prom")
	if err := WriteTextfile(analysis, path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	text := string(data)

	expectedParts := []string{
		"# TYPE puppetspectre_resource_evaluation_seconds gauge",
		`puppetspectre_resource_evaluation_seconds{resource="Package[nginx]",source="r.yaml",type="Package"} 12.5`,
		`puppetspectre_resource_evaluation_seconds{resource="broken",source="r.yaml",type=""} 1`,
		`puppetspectre_resources{type="Package"} 2`,
		`puppetspectre_report_metric{category="total",group="time",host="web01.example.com",source="r.yaml"} 21.73`,
		"puppetspectre_reports_analyzed 1",
		"puppetspectre_report_load_failures 1",
	}
	for _, part := range expectedParts {
		if !strings.Contains(text, part) {
			t.Fatalf("expected textfile to contain %q, got:\n%s", part, text)
		}
	}
}

func TestWriteTextfileNilAnalysis(t *testing.T) {
	if err := WriteTextfile(nil, filepath.Join(t.TempDir(), "x.prom")); err == nil {
		t.Fatal("expected error for nil analysis")
	}
}

func TestReporterWritesTextfileAfterOutput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Textfile = filepath.Join(t.TempDir(), "puppet.prom")

	var out bytes.Buffer
	if err := New(cfg, &out).Generate(singleAnalysis()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := os.Stat(cfg.Textfile); err != nil {
		t.Fatalf("expected textfile to be written: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected text output as well")
	}
}
