package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront_importer"

// Metrics holds Prometheus collectors of import pipeline.
type Metrics struct {
	jobs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	images        *prometheus.CounterVec
	reservations  *prometheus.CounterVec
}

// New returns new Metrics registered in reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Number of finished import jobs by terminal status.",
		}, []string{"status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of import pipeline stages.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Number of processed product images by result.",
		}, []string{"result"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_total",
			Help:      "Number of import quota reservations by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.jobs, m.stageDuration, m.images, m.reservations)

	return m
}

// JobFinished counts job which reached terminal status.
func (m *Metrics) JobFinished(status string) {
	m.jobs.WithLabelValues(status).Inc()
}

// ObserveStage records duration of pipeline stage started at start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ImagesProcessed counts uploaded and failed images.
func (m *Metrics) ImagesProcessed(uploaded, failed int) {
	m.images.WithLabelValues("uploaded").Add(float64(uploaded))
	m.images.WithLabelValues("failed").Add(float64(failed))
}

// Reserved counts quota reservation with result, e.g. "reserved" or "exceeded".
func (m *Metrics) Reserved(result string) {
	m.reservations.WithLabelValues(result).Inc()
}
