package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteMetricsFile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector. The file is
// replaced atomically.
func WriteMetricsFile(path string) error {
	return writeMetricsFile(path, prometheus.DefaultGatherer)
}

func writeMetricsFile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
