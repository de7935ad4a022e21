// Package natsclient manages the relay's NATS connection and exposes
// JetStream KV buckets as typed stores.
package natsclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/akazdayo/nostr-workers-relay/errors"
)

// Client wraps a NATS connection with JetStream enabled.
type Client struct {
	url    string
	logger *slog.Logger

	// Connection options
	name          string
	maxReconnects int
	reconnectWait time.Duration
	timeout       time.Duration
	drainTimeout  time.Duration

	mu   sync.RWMutex
	conn *nats.Conn
	js   jetstream.JetStream
}

// NewClient creates a client for the given NATS URL. Connect must be called
// before any KV operation.
func NewClient(url string, opts ...Option) (*Client, error) {
	c := &Client{
		url:           url,
		logger:        slog.Default(),
		name:          "nostr-relay",
		maxReconnects: -1,
		reconnectWait: 2 * time.Second,
		timeout:       5 * time.Second,
		drainTimeout:  30 * time.Second,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WrapInvalid(err, "Client", "NewClient", "apply option")
		}
	}

	return c, nil
}

// Connect establishes the NATS connection and JetStream context.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, err := nats.Connect(c.url,
		nats.Name(c.name),
		nats.MaxReconnects(c.maxReconnects),
		nats.ReconnectWait(c.reconnectWait),
		nats.Timeout(c.timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return errors.WrapTransient(err, "Client", "Connect", "dial "+c.url)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return errors.WrapFatal(err, "Client", "Connect", "create jetstream context")
	}

	c.conn = conn
	c.js = js
	c.logger.Info("nats connected", "url", conn.ConnectedUrl())

	_ = ctx // reserved for future dial cancellation
	return nil
}

// IsConnected reports whether the underlying connection is up.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

// KVBucket opens (creating if necessary) a JetStream KV bucket and wraps it
// as a KVStore.
func (c *Client) KVBucket(ctx context.Context, bucket string) (*KVStore, error) {
	c.mu.RLock()
	js := c.js
	c.mu.RUnlock()

	if js == nil {
		return nil, errors.WrapTransient(errors.ErrNoConnection, "Client", "KVBucket", "get jetstream")
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: fmt.Sprintf("event logs for %s", c.name),
		History:     1,
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "Client", "KVBucket", "open bucket "+bucket)
	}

	return &KVStore{bucket: kv, timeout: c.timeout, logger: c.logger}, nil
}

// Close drains the connection, waiting for in-flight operations.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	done := make(chan struct{})
	c.conn.SetClosedHandler(func(*nats.Conn) { close(done) })

	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		c.conn = nil
		return errors.WrapTransient(err, "Client", "Close", "drain")
	}

	select {
	case <-done:
	case <-ctx.Done():
		c.conn.Close()
	case <-time.After(c.drainTimeout):
		c.conn.Close()
	}

	c.conn = nil
	c.js = nil
	return nil
}
