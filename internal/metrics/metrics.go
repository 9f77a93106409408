// Package metrics exposes Prometheus counters for test runs and artifact
// downloads. Each Recorder owns its registry so tests and multiple servers
// never collide on the default one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrz1836/karate-runner/internal/domain"
)

// Namespace prefixes every metric name.
const Namespace = "karate_runner"

// Download result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder records run and download metrics.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	runsInProgress prometheus.Gauge
	downloadsTotal *prometheus.CounterVec
	rejectedTotal  prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry. Go runtime and
// process collectors are registered alongside the run metrics.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Count of finished test runs by status",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of finished test runs",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		runsInProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "runs_in_progress",
			Help:      "Number of test runs currently executing",
		}),
		downloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "artifact_downloads_total",
			Help:      "Count of engine artifact downloads by result",
		}, []string{"result"}),
		rejectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rejected_runs_total",
			Help:      "Count of run requests rejected because a run was in progress",
		}),
	}
}

// RunStarted marks a run as in progress.
func (r *Recorder) RunStarted() {
	r.runsInProgress.Inc()
}

// RunFinished records the outcome of a run started with RunStarted.
func (r *Recorder) RunFinished(status domain.RunStatus, elapsed time.Duration) {
	r.runsInProgress.Dec()
	r.runsTotal.WithLabelValues(status.String()).Inc()
	r.runDuration.Observe(elapsed.Seconds())
}

// RunRejected counts a run refused by the single-run guard.
func (r *Recorder) RunRejected() {
	r.rejectedTotal.Inc()
}

// RecordDownload counts an artifact download attempt.
func (r *Recorder) RecordDownload(success bool) {
	result := ResultFailure
	if success {
		result = ResultSuccess
	}
	r.downloadsTotal.WithLabelValues(result).Inc()
}

// Registry returns the registry backing r.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
