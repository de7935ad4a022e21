// Package main implements the relay entry point: it wires configuration,
// the EventLog storage backend, metrics, the WebSocket ingestion input, and
// the HTTP retrieval gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/akazdayo/nostr-workers-relay/component"
	"github.com/akazdayo/nostr-workers-relay/config"
	gatewayhttp "github.com/akazdayo/nostr-workers-relay/gateway/http"
	wsinput "github.com/akazdayo/nostr-workers-relay/input/websocket"
	"github.com/akazdayo/nostr-workers-relay/metric"
	"github.com/akazdayo/nostr-workers-relay/natsclient"
	"github.com/akazdayo/nostr-workers-relay/sig"
	"github.com/akazdayo/nostr-workers-relay/store"
)

const (
	version         = "0.1.0"
	appName         = "nostr-relay"
	shutdownTimeout = 10 * time.Second
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\n%s\n", r, buf[:n])
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("relay failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to JSON config file")
		validate   = flag.Bool("validate", false, "validate configuration and exit")
		logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *validate {
		logger.Info("configuration is valid")
		return nil
	}

	logger.Info("starting relay",
		"version", version, "instance", cfg.Instance, "backend", cfg.Storage.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backing, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	instance := store.NewInstance(cfg.Instance, backing, logger)
	registry := metric.NewMetricsRegistry()

	input, err := wsinput.NewServer("websocket-input", wsinput.Config{
		Listen:          cfg.Listen,
		Path:            cfg.Path,
		Subprotocol:     cfg.Subprotocol,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}, instance, sig.SchnorrVerifier{}, registry, logger)
	if err != nil {
		return err
	}

	gateway, err := gatewayhttp.NewGateway("http-gateway",
		gatewayhttp.Config{Listen: cfg.Gateway.Listen}, instance, registry, logger)
	if err != nil {
		return err
	}

	components := []component.LifecycleComponent{input, gateway}
	started := make([]component.LifecycleComponent, 0, len(components))
	for _, c := range components {
		if err := c.Initialize(); err != nil {
			return err
		}
		if err := c.Start(ctx); err != nil {
			stopAll(started, logger)
			return err
		}
		started = append(started, c)
		logger.Info("component started", "name", c.Meta().Name)
	}

	<-ctx.Done()
	logger.Info("shutting down")
	stopAll(started, logger)
	return nil
}

// stopAll stops components in reverse start order.
func stopAll(components []component.LifecycleComponent, logger *slog.Logger) {
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.Stop(shutdownTimeout); err != nil {
			logger.Warn("component stop failed", "name", c.Meta().Name, "error", err)
		}
	}
}

// openStore builds the configured EventLog backend. The cleanup function
// releases backend resources after all components have stopped.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, events will not survive restarts")
		return store.NewMemoryStore(), func() {}, nil

	case config.StorageBadger:
		st, err := store.OpenBadgerStore(cfg.Storage.Badger.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil

	case config.StorageNATS:
		client, err := natsclient.NewClient(cfg.Storage.NATS.URL,
			natsclient.WithName(appName),
			natsclient.WithLogger(logger),
			natsclient.WithMaxReconnects(cfg.Storage.NATS.MaxReconnects),
			natsclient.WithTimeout(cfg.Storage.NATS.Timeout),
		)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Connect(ctx); err != nil {
			return nil, nil, err
		}
		kv, err := client.KVBucket(ctx, cfg.Storage.NATS.Bucket)
		if err != nil {
			_ = client.Close(ctx)
			return nil, nil, err
		}
		cleanup := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Close(closeCtx)
		}
		return store.NewNATSKVStore(kv), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
