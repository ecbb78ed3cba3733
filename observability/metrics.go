package observability

import (
	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation results recorded by ProjectMutationsTotal.
const (
	MutationChanged   = "changed"
	MutationUnchanged = "unchanged"
	MutationFailed    = "failed"
)

var (
	// ToolchainInvocationsTotal counts toolchain processes by subcommand and result
	ToolchainInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dotnetopr_toolchain_invocations_total",
			Help: "Total number of toolchain invocations by command and result",
		},
		[]string{"command", "result"}, // result: success, failure, launch_failed
	)

	// ToolchainDuration tracks wall time of toolchain processes in seconds
	ToolchainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dotnetopr_toolchain_duration_seconds",
			Help:    "Toolchain process duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		},
		[]string{"command"},
	)

	// ProjectMutationsTotal counts descriptor mutations by operation and outcome
	ProjectMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dotnetopr_project_mutations_total",
			Help: "Total number of project file mutations by operation and result",
		},
		[]string{"operation", "result"},
	)
)

// RecordMutation increments ProjectMutationsTotal for one operation.
func RecordMutation(operation, result string) {
	ProjectMutationsTotal.WithLabelValues(operation, result).Inc()
}

// WriteMetricsFile dumps the default registry in text exposition format, for
// pickup by a node-exporter textfile collector.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
