// Package metrics holds the Prometheus collectors of the transcription pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "suara"

// Outcome labels for transcription requests
const (
	OutcomeSuccess        = "success"
	OutcomeRejected       = "rejected"
	OutcomeConversion     = "conversion_error"
	OutcomeUnintelligible = "unintelligible"
	OutcomeService        = "service_error"
	OutcomeFailed         = "failed"
)

// Metrics groups the collectors registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	transcriptions *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	conversions    prometheus.Counter
	uploadBytes    prometheus.Histogram
}

// New creates the collectors and registers them, plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Transcription requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Time spent in the transcription pipeline.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
		conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_conversions_total",
			Help:      "Uploads that had to be converted to WAV.",
		}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_size_bytes",
			Help:      "Size of accepted audio uploads.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6),
		}),
	}

	m.registry.MustRegister(
		m.transcriptions,
		m.duration,
		m.conversions,
		m.uploadBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveTranscription records one finished pipeline run. Safe on a nil receiver.
func (m *Metrics) ObserveTranscription(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transcriptions.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// IncConversions counts an upload converted to WAV. Safe on a nil receiver.
func (m *Metrics) IncConversions() {
	if m == nil {
		return
	}
	m.conversions.Inc()
}

// ObserveUploadSize records the stored size of an upload. Safe on a nil receiver.
func (m *Metrics) ObserveUploadSize(n int64) {
	if m == nil {
		return
	}
	m.uploadBytes.Observe(float64(n))
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
