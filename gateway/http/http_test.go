package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akazdayo/nostr-workers-relay/metric"
	"github.com/akazdayo/nostr-workers-relay/store"
)

func startGateway(t *testing.T) (*Gateway, *store.Instance) {
	t.Helper()

	inst := store.NewInstance("relay-test", store.NewMemoryStore(), nil)
	gw, err := NewGateway("gw-test", Config{Listen: "127.0.0.1:0"}, inst,
		metric.NewMetricsRegistry(), nil)
	require.NoError(t, err)
	require.NoError(t, gw.Initialize())
	require.NoError(t, gw.Start(context.Background()))
	t.Cleanup(func() { _ = gw.Stop(5 * time.Second) })

	return gw, inst
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestEventsEmptyLog(t *testing.T) {
	gw, _ := startGateway(t)

	code, body := get(t, "http://"+gw.Addr()+"/events")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func TestEventsReturnsLogInOrder(t *testing.T) {
	gw, inst := startGateway(t)

	ctx := context.Background()
	require.NoError(t, inst.Append(ctx, "hello"))
	require.NoError(t, inst.Append(ctx, "world"))

	code, body := get(t, "http://"+gw.Addr()+"/events")
	assert.Equal(t, http.StatusOK, code)

	var log []string
	require.NoError(t, json.Unmarshal(body, &log))
	assert.Equal(t, []string{"hello", "world"}, log)
}

func TestHealthz(t *testing.T) {
	gw, _ := startGateway(t)

	code, body := get(t, "http://"+gw.Addr()+"/healthz")
	assert.Equal(t, http.StatusOK, code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "relay-test", status["instance"])
}

func TestMetricsEndpoint(t *testing.T) {
	gw, _ := startGateway(t)

	code, body := get(t, "http://"+gw.Addr()+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestEventsStorageFailure(t *testing.T) {
	inst := store.NewInstance("relay-test", failingStore{}, nil)
	gw, err := NewGateway("gw-test", Config{Listen: "127.0.0.1:0"}, inst, nil, nil)
	require.NoError(t, err)
	require.NoError(t, gw.Start(context.Background()))
	t.Cleanup(func() { _ = gw.Stop(5 * time.Second) })

	code, _ := get(t, "http://"+gw.Addr()+"/events")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

type failingStore struct{}

func (failingStore) GetLog(context.Context, string) ([]string, error) {
	return nil, context.DeadlineExceeded
}

func (failingStore) PutLog(context.Context, string, []string) error {
	return context.DeadlineExceeded
}
