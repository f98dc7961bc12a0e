package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"perfsvc/internal/domain/performance"
)

// Collector owns a private registry so that several collectors (one per
// test, say) never collide on metric names.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	transitions     *prometheus.CounterVec
	volumeWarnings  *prometheus.CounterVec
	volumeRejected  *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perfsvc_http_requests_total",
			Help: "HTTP requests by status code",
		}, []string{"code"}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "perfsvc_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perfsvc_status_transitions_total",
			Help: "Accepted status transitions by entity",
		}, []string{"entity", "from", "to"}),
		volumeWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perfsvc_volume_warnings_total",
			Help: "Creations that crossed the warning threshold",
		}, []string{"entity"}),
		volumeRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perfsvc_volume_rejections_total",
			Help: "Creations refused by the per-employee volume limit",
		}, []string{"entity"}),
	}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

func (c *Collector) Transition(entity, from, to string) {
	c.transitions.WithLabelValues(entity, from, to).Inc()
}

func (c *Collector) VolumeWarning(entity performance.EntityKind) {
	c.volumeWarnings.WithLabelValues(string(entity)).Inc()
}

func (c *Collector) VolumeRejected(entity performance.EntityKind) {
	c.volumeRejected.WithLabelValues(string(entity)).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var _ performance.MetricsRecorder = (*Collector)(nil)
