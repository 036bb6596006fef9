package reporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/pkg/config"
)

// Reporter interface for generating reports
type Reporter interface {
	Generate(analysis *models.Analysis) error
	GenerateHistory(history *models.History) error
}

// reporter implements the Reporter interface
type reporter struct {
	config *config.Config
	out    io.Writer
}

// New creates a new reporter instance writing to out
func New(cfg *config.Config, out io.Writer) Reporter {
	return &reporter{
		config: cfg,
		out:    out,
	}
}

// Generate renders the analysis in the configured format and writes the
// Prometheus textfile when one is configured.
func (r *reporter) Generate(analysis *models.Analysis) error {
	switch r.config.Format {
	case config.FormatJSON:
		if err := writeJSON(analysis, r.out); err != nil {
			return err
		}
	case config.FormatText, "":
		if err := writeText(analysis, r.config, r.out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q", r.config.Format)
	}

	if r.config.Textfile == "" {
		return nil
	}
	if err := WriteTextfile(analysis, r.config.Textfile); err != nil {
		return err
	}
	slog.Debug("textfile written", slog.String("path", r.config.Textfile))
	return nil
}

// GenerateHistory renders run history in the configured format.
func (r *reporter) GenerateHistory(history *models.History) error {
	if r.config.Format == config.FormatJSON {
		return writeJSON(history, r.out)
	}
	return writeHistoryText(history, r.config, r.out)
}
