// Package metrics exposes service-level Prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"textapi/internal/model"
	"textapi/internal/service"
)

const namespace = "textapi"

// Recorder implements service.Recorder on top of Prometheus collectors.
type Recorder struct {
	analyses         *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	uploads          *prometheus.CounterVec
	uploadBytes      prometheus.Counter
}

var _ service.Recorder = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of analysis requests by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		analysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Time spent serving an analysis request, including storage reads and persistence.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Total number of file uploads by outcome.",
			},
			[]string{"status"},
		),
		uploadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upload_bytes_total",
				Help:      "Total bytes of successfully uploaded files.",
			},
		),
	}

	for _, c := range []prometheus.Collector{r.analyses, r.analysisDuration, r.uploads, r.uploadBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveAnalysis counts one analysis call and records its latency.
// Unknown operation names collapse into a single label value.
func (r *Recorder) ObserveAnalysis(operation string, err error, elapsed time.Duration) {
	op := operationLabel(operation)
	r.analyses.WithLabelValues(op, statusLabel(err)).Inc()
	r.analysisDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveUpload counts one upload attempt.
func (r *Recorder) ObserveUpload(size int64, err error) {
	r.uploads.WithLabelValues(statusLabel(err)).Inc()
	if err == nil && size > 0 {
		r.uploadBytes.Add(float64(size))
	}
}

func operationLabel(op string) string {
	if model.Operation(op).Valid() {
		return op
	}
	return "unknown"
}

func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	return service.Kind(err)
}
