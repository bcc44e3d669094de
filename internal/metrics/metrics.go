// Package metrics exposes prometheus counters for the packet lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wasmicq"

// Metrics holds the collectors of one contract instance. A nil *Metrics
// records nothing, so callers never have to check.
type Metrics struct {
	registry *prometheus.Registry

	packetsSent     *prometheus.CounterVec
	acks            *prometheus.CounterVec
	timeouts        prometheus.Counter
	channelEvents   *prometheus.CounterVec
	handshakeErrors prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		packetsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "packets",
				Name:      "sent_total",
				Help:      "Query packets sent, by query path.",
			},
			[]string{"path"},
		),
		acks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "packets",
				Name:      "acknowledged_total",
				Help:      "Acknowledgements processed, by outcome.",
			},
			[]string{"outcome"},
		),
		timeouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "packets",
				Name:      "timed_out_total",
				Help:      "Query packets that timed out.",
			},
		),
		channelEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channels",
				Name:      "events_total",
				Help:      "Channel handshake and close events.",
			},
			[]string{"event"},
		),
		handshakeErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channels",
				Name:      "handshake_rejected_total",
				Help:      "Handshake steps rejected by order or version validation.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
	m.registry.MustRegister(
		m.packetsSent, m.acks, m.timeouts, m.channelEvents,
		m.handshakeErrors, m.httpRequests, m.httpDuration,
	)
	return m
}

func (m *Metrics) PacketSent(path string) {
	if m == nil {
		return
	}
	m.packetsSent.WithLabelValues(path).Inc()
}

// AckProcessed counts one acknowledgement by its outcome attribute.
func (m *Metrics) AckProcessed(outcome string) {
	if m == nil {
		return
	}
	m.acks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PacketTimedOut() {
	if m == nil {
		return
	}
	m.timeouts.Inc()
}

// ChannelEvent counts "open", "connect" and "close".
func (m *Metrics) ChannelEvent(event string) {
	if m == nil {
		return
	}
	m.channelEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) HandshakeRejected() {
	if m == nil {
		return
	}
	m.handshakeErrors.Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusLabel := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	m.httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// Registry is the registry all collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records every request handled by a gin engine.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
