package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ramya_admin"

// ClientMetrics instruments outgoing backend calls, labelled by port.
type ClientMetrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// NewClientMetrics registers the client collectors with reg.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	f := promauto.With(reg)
	return &ClientMetrics{
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "requests_total",
				Help:      "Total number of backend requests",
			},
			[]string{"port", "code", "method"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "request_duration_seconds",
				Help:      "Backend request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"port", "method"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "requests_in_flight",
				Help:      "Number of backend requests currently in flight",
			},
		),
	}
}

// RoundTripper wraps next with the collectors, curried to port.
func (m *ClientMetrics) RoundTripper(port string, next http.RoundTripper) http.RoundTripper {
	labels := prometheus.Labels{"port": port}
	return promhttp.InstrumentRoundTripperInFlight(m.RequestsInFlight,
		promhttp.InstrumentRoundTripperCounter(m.RequestCounter.MustCurryWith(labels),
			promhttp.InstrumentRoundTripperDuration(m.RequestDuration.MustCurryWith(labels), next),
		),
	)
}

// ServerMetrics instruments the sandbox HTTP handlers.
type ServerMetrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
}

// NewServerMetrics registers the server collectors with reg.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	f := promauto.With(reg)
	return &ServerMetrics{
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sandbox",
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"port", "code", "method"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sandbox",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"port", "method"},
		),
		RequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "sandbox",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
			[]string{"port"},
		),
	}
}

// Middleware instruments one port's router.
func (m *ServerMetrics) Middleware(port string) func(http.Handler) http.Handler {
	labels := prometheus.Labels{"port": port}
	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerInFlight(m.RequestsInFlight.With(labels),
			promhttp.InstrumentHandlerCounter(m.RequestCounter.MustCurryWith(labels),
				promhttp.InstrumentHandlerDuration(m.RequestDuration.MustCurryWith(labels), next),
			),
		)
	}
}

// Handler exposes the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
