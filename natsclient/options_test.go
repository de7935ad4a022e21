package natsclient

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	assert.Equal(t, "nostr-relay", c.name)
	assert.Equal(t, -1, c.maxReconnects)
	assert.Equal(t, 5*time.Second, c.timeout)
	assert.False(t, c.IsConnected())
}

func TestNewClientOptions(t *testing.T) {
	c, err := NewClient("nats://localhost:4222",
		WithName("relay-west"),
		WithLogger(slog.Default()),
		WithMaxReconnects(3),
		WithReconnectWait(time.Second),
		WithTimeout(2*time.Second),
	)
	require.NoError(t, err)

	assert.Equal(t, "relay-west", c.name)
	assert.Equal(t, 3, c.maxReconnects)
	assert.Equal(t, time.Second, c.reconnectWait)
	assert.Equal(t, 2*time.Second, c.timeout)
}

func TestNewClientRejectsBadOptions(t *testing.T) {
	for _, opt := range []Option{
		WithName(""),
		WithLogger(nil),
		WithReconnectWait(0),
		WithTimeout(-time.Second),
	} {
		_, err := NewClient("nats://localhost:4222", opt)
		assert.Error(t, err)
	}
}

func TestKVBucketRequiresConnection(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	_, err = c.KVBucket(t.Context(), "eventlogs")
	assert.Error(t, err)
}
