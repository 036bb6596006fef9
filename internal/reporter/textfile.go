package reporter

import (
	"fmt"

	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamespace = "puppetspectre"

// WriteTextfile writes the analysis as Prometheus gauges in the text
// exposition format, for the node_exporter textfile collector.
func WriteTextfile(analysis *models.Analysis, path string) error {
	if analysis == nil {
		return fmt.Errorf("analysis is nil")
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	evaluationSeconds := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "resource_evaluation_seconds",
		Help:      "Evaluation time of the slowest resources.",
	}, []string{"resource", "type", "source"})

	resources := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "resources",
		Help:      "Number of resources per type in the analyzed report.",
	}, []string{"type"})

	reportMetric := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "report_metric",
		Help:      "Metric values recorded in each report.",
	}, []string{"host", "source", "group", "category"})

	reportsAnalyzed := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "reports_analyzed",
		Help:      "Number of reports that were loaded and analyzed.",
	})

	loadFailures := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "report_load_failures",
		Help:      "Number of report files that could not be loaded.",
	})

	for _, entry := range analysis.Slowest {
		resourceType, err := models.ResourceType(entry.Resource)
		if err != nil {
			resourceType = ""
		}
		evaluationSeconds.WithLabelValues(entry.Resource, resourceType, entry.Source).Set(entry.EvaluationTime)
	}

	for _, section := range analysis.Reports {
		for _, count := range section.TypeCounts {
			resources.WithLabelValues(count.Type).Set(float64(count.Count))
		}
		for _, group := range section.Metrics.Groups {
			for _, row := range group.Rows {
				reportMetric.WithLabelValues(section.Summary.Host, section.Summary.File, group.Name, row.Category).Set(row.Value)
			}
		}
	}

	reportsAnalyzed.Set(float64(len(analysis.Reports)))
	loadFailures.Set(float64(len(analysis.LoadFailures)))

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write textfile %s: %w", path, err)
	}
	return nil
}
