// Package http provides the relay's retrieval surface: a plain HTTP server
// exposing the current EventLog contents, health, and metrics. It is
// separate from the ingestion connection; read consistency is whatever the
// storage backend provides for a plain get.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akazdayo/nostr-workers-relay/component"
	"github.com/akazdayo/nostr-workers-relay/errors"
	"github.com/akazdayo/nostr-workers-relay/metric"
	"github.com/akazdayo/nostr-workers-relay/store"
)

// Config holds gateway configuration.
type Config struct {
	// Listen is the TCP address to serve on, e.g. ":8081".
	Listen string `json:"listen"`
}

// Gateway serves the retrieval endpoints for one relay instance.
type Gateway struct {
	name     string
	config   Config
	instance *store.Instance
	registry *metric.MetricsRegistry
	logger   *slog.Logger

	httpServer *http.Server
	listener   net.Listener

	running    atomic.Bool
	startTime  time.Time
	errorCount atomic.Int64
	wg         sync.WaitGroup
}

var _ component.LifecycleComponent = (*Gateway)(nil)

// NewGateway creates the retrieval gateway.
func NewGateway(name string, cfg Config, instance *store.Instance,
	registry *metric.MetricsRegistry, logger *slog.Logger) (*Gateway, error) {
	if instance == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("instance is required"),
			"Gateway", "NewGateway", "validate dependencies")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		name:     name,
		config:   cfg,
		instance: instance,
		registry: registry,
		logger:   logger.With("component", name),
	}, nil
}

// Meta returns component metadata.
func (g *Gateway) Meta() component.Metadata {
	return component.Metadata{
		Name:        g.name,
		Type:        "gateway",
		Description: "HTTP retrieval surface for the EventLog",
		Version:     "1.0.0",
	}
}

// Health returns current health status.
func (g *Gateway) Health() component.HealthStatus {
	running := g.running.Load()
	uptime := time.Duration(0)
	if running && !g.startTime.IsZero() {
		uptime = time.Since(g.startTime)
	}
	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(g.errorCount.Load()),
		Uptime:     uptime,
	}
}

// Initialize prepares the gateway.
func (g *Gateway) Initialize() error {
	return nil
}

// Start binds the listener and begins serving.
func (g *Gateway) Start(_ context.Context) error {
	if g.running.Load() {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Gateway", "Start", "check state")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", g.handleEvents)
	mux.HandleFunc("GET /healthz", g.handleHealthz)
	if g.registry != nil {
		mux.Handle("GET /metrics", g.registry.Handler())
	}

	listener, err := net.Listen("tcp", g.config.Listen)
	if err != nil {
		return errors.WrapFatal(err, "Gateway", "Start", "bind "+g.config.Listen)
	}
	g.listener = listener
	g.httpServer = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := g.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			g.errorCount.Add(1)
			g.logger.Error("http serve failed", "error", err)
		}
	}()

	g.startTime = time.Now()
	g.running.Store(true)
	g.logger.Info("gateway listening", "addr", listener.Addr().String())
	return nil
}

// Addr returns the bound listen address.
func (g *Gateway) Addr() string {
	if g.listener == nil {
		return ""
	}
	return g.listener.Addr().String()
}

// Stop gracefully shuts the gateway down.
func (g *Gateway) Stop(timeout time.Duration) error {
	if !g.running.Load() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = g.httpServer.Shutdown(ctx)
	g.wg.Wait()
	g.running.Store(false)
	return nil
}

// handleEvents returns the instance's EventLog as a JSON array of stored
// payloads, oldest first.
func (g *Gateway) handleEvents(w http.ResponseWriter, r *http.Request) {
	log, err := g.instance.Log(r.Context())
	if err != nil {
		g.errorCount.Add(1)
		g.logger.Error("log read failed", "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	if log == nil {
		log = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(log); err != nil {
		g.errorCount.Add(1)
	}
}

func (g *Gateway) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":   "ok",
		"instance": g.instance.Key(),
	})
}
