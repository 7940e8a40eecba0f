package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	Requests       *prometheus.CounterVec
	JobRuns        *prometheus.CounterVec
	JobRecords     *prometheus.CounterVec
	JobDuration    *prometheus.HistogramVec
	Mints          *prometheus.CounterVec
	QueuePublishes *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_jobs_runs_total",
			Help: "Reconciliation runs by job and outcome",
		}, []string{"job", "outcome"}),
		JobRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_jobs_records_total",
			Help: "Records handled by reconciliation jobs by result",
		}, []string{"job", "result"}),
		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visa_job_duration_seconds",
			Help:    "Wall time of a reconciliation run",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"job"}),
		Mints: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_mints_total",
			Help: "Visa mint attempts by result",
		}, []string{"result"}),
		QueuePublishes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_queue_publish_total",
			Help: "Queue publishes by topic and result",
		}, []string{"topic", "result"}),
	}
}

func (m *Metrics) ObserveRequest(route, status string) {
	m.Requests.WithLabelValues(route, status).Inc()
}

// ObserveRun records one finished reconciliation run.
func (m *Metrics) ObserveRun(job, outcome string, took time.Duration, updated, failed int) {
	m.JobRuns.WithLabelValues(job, outcome).Inc()
	m.JobDuration.WithLabelValues(job).Observe(took.Seconds())
	m.JobRecords.WithLabelValues(job, "updated").Add(float64(updated))
	m.JobRecords.WithLabelValues(job, "failed").Add(float64(failed))
}

func (m *Metrics) ObserveMint(result string) {
	m.Mints.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePublish(topic, result string) {
	m.QueuePublishes.WithLabelValues(topic, result).Inc()
}
