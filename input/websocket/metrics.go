package websocket

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/akazdayo/nostr-workers-relay/metric"
	"github.com/akazdayo/nostr-workers-relay/relay"
)

// Metrics holds Prometheus metrics for the WebSocket input component. It
// doubles as the relay.Stats sink for frame dispositions.
type Metrics struct {
	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter
	framesReceived    prometheus.Counter
	framesHandled     *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
}

var _ relay.Stats = (*Metrics)(nil)

// newMetrics creates and registers input metrics. Returns nil when no
// registry is configured; the methods tolerate a nil receiver.
func newMetrics(registry *metric.MetricsRegistry, componentName string) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "relay",
			Subsystem: "websocket_input",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "websocket_input",
			Name:      "connections_total",
			Help:      "Total number of WebSocket connections",
		}),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "websocket_input",
			Name:      "frames_received_total",
			Help:      "Total frames received",
		}),
		framesHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "websocket_input",
			Name:      "frames_handled_total",
			Help:      "Total frames handled by disposition",
		}, []string{"disposition"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "websocket_input",
			Name:      "errors_total",
			Help:      "Total errors by type",
		}, []string{"type"}),
	}

	registry.MustRegister(componentName, map[string]prometheus.Collector{
		"connections_active": m.connectionsActive,
		"connections_total":  m.connectionsTotal,
		"frames_received":    m.framesReceived,
		"frames_handled":     m.framesHandled,
		"errors_total":       m.errorsTotal,
	})

	return m
}

// FrameHandled implements relay.Stats.
func (m *Metrics) FrameHandled(disposition string) {
	if m == nil {
		return
	}
	m.framesHandled.WithLabelValues(disposition).Inc()
}
