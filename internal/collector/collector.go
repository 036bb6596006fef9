package collector

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/pkg/config"
)

// ErrNoReports is returned when a path or pattern matches no report files.
var ErrNoReports = errors.New("no report files found")

// LoadError is a report file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load report %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Collector loads Puppet run reports from the local filesystem.
type Collector struct {
	reportDir string
}

// New creates a collector resolving RDIR/ paths against cfg.ReportDir.
func New(cfg *config.Config) *Collector {
	reportDir := config.DefaultReportDir
	if cfg != nil && cfg.ReportDir != "" {
		reportDir = cfg.ReportDir
	}
	return &Collector{reportDir: reportDir}
}

// Load reads and decodes a single report file.
func (c *Collector) Load(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	report, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	slog.Debug("report loaded",
		slog.String("path", path),
		slog.String("host", report.Host),
		slog.Int("resources", len(report.ResourceStatuses)),
	)
	return report, nil
}
