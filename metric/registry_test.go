package metric

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndUnregister(t *testing.T) {
	r := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "frames_received_total",
		Help:      "Total frames received",
	})

	require.NoError(t, r.Register("websocket", "frames_received", counter))

	// Duplicate name for the same component is rejected.
	err := r.Register("websocket", "frames_received", counter)
	assert.Error(t, err)

	assert.True(t, r.Unregister("websocket", "frames_received"))
	assert.False(t, r.Unregister("websocket", "frames_received"))
}

func TestHandlerServesMetrics(t *testing.T) {
	r := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "events_stored_total",
		Help:      "Total events stored",
	})
	require.NoError(t, r.Register("store", "events_stored", counter))
	counter.Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "relay_events_stored_total 1")
}
