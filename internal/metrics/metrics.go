package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	pageRenders     *prometheus.CounterVec
	pageDuration    *prometheus.HistogramVec
	backendDuration *prometheus.HistogramVec
	alerts          *prometheus.CounterVec
	wsClients       prometheus.Gauge
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		pageRenders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uep_page_navigations_total",
			Help: "Page navigations by requested page and router outcome",
		}, []string{"page", "outcome"}),
		pageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uep_page_render_duration_seconds",
			Help:    "Time to gate, fetch and render a page",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"page"}),
		backendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uep_backend_request_duration_seconds",
			Help:    "Outbound API request duration by operation and result",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"op", "result"}),
		alerts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uep_alerts_total",
			Help: "Notifications queued by kind",
		}, []string{"kind"}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "uep_ws_clients",
			Help: "Connected websocket clients",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ObserveNavigation(page, outcome string) {
	if r == nil {
		return
	}
	r.pageRenders.WithLabelValues(page, outcome).Inc()
}

func (r *Recorder) ObserveRender(page string, d time.Duration) {
	if r == nil {
		return
	}
	r.pageDuration.WithLabelValues(page).Observe(d.Seconds())
}

func (r *Recorder) ObserveBackend(op, result string, d time.Duration) {
	if r == nil {
		return
	}
	r.backendDuration.WithLabelValues(op, result).Observe(d.Seconds())
}

func (r *Recorder) CountAlert(kind string) {
	if r == nil {
		return
	}
	r.alerts.WithLabelValues(kind).Inc()
}

func (r *Recorder) WSConnected(delta int) {
	if r == nil {
		return
	}
	r.wsClients.Add(float64(delta))
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
