package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the agent's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Submissions        *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram
	OfficeDistance     prometheus.Gauge
	ControlEnabled     *prometheus.GaugeVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	submissions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_submissions_total",
		Help: "Attendance submissions, labeled by type and result.",
	}, []string{"type", "result"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "absensi_submission_duration_seconds",
		Help:    "Time spent delivering a submission to the sink.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}))
	if err != nil {
		return nil, err
	}
	distance, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "absensi_office_distance_meters",
		Help: "Distance between the observed location and the office.",
	}))
	if err != nil {
		return nil, err
	}
	enabled, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "absensi_control_enabled",
		Help: "1 when the attendance control of the given type is enabled.",
	}, []string{"type"}))
	if err != nil {
		return nil, err
	}

	c := &Collector{
		gatherer:           gatherer,
		Submissions:        submissions,
		SubmissionDuration: duration,
		OfficeDistance:     distance,
		ControlEnabled:     enabled,
	}
	return c, nil
}

// register adds col to reg, reusing an identical collector that is already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return col, nil
}

// ObserveSubmission records one submission outcome. Safe on a nil Collector.
func (c *Collector) ObserveSubmission(kind, result string, took time.Duration) {
	if c == nil {
		return
	}
	c.Submissions.WithLabelValues(kind, result).Inc()
	c.SubmissionDuration.Observe(took.Seconds())
}

// SetDistance records the latest observed office distance.
func (c *Collector) SetDistance(meters float64) {
	if c == nil {
		return
	}
	c.OfficeDistance.Set(meters)
}

// SetControlEnabled records whether the control for kind is enabled.
func (c *Collector) SetControlEnabled(kind string, enabled bool) {
	if c == nil {
		return
	}
	v := 0.0
	if enabled {
		v = 1
	}
	c.ControlEnabled.WithLabelValues(kind).Set(v)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
