package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/akazdayo/nostr-workers-relay/component"
	"github.com/akazdayo/nostr-workers-relay/errors"
	"github.com/akazdayo/nostr-workers-relay/metric"
	"github.com/akazdayo/nostr-workers-relay/relay"
	"github.com/akazdayo/nostr-workers-relay/sig"
	"github.com/akazdayo/nostr-workers-relay/store"
)

// Server accepts WebSocket connections and runs one relay session per
// connection. All sessions share the single ingestion coordinator for the
// configured relay instance.
type Server struct {
	name     string
	config   Config
	instance *store.Instance
	verifier sig.Verifier
	logger   *slog.Logger

	upgrader   websocket.Upgrader
	httpServer *http.Server
	listener   net.Listener

	conns   map[string]*websocket.Conn
	connsMu sync.Mutex

	shutdown     chan struct{}
	shutdownOnce sync.Once
	started      atomic.Bool
	startTime    time.Time
	wg           sync.WaitGroup
	errorCount   atomic.Int64

	metrics *Metrics
}

var _ component.LifecycleComponent = (*Server)(nil)

// NewServer creates the WebSocket input component.
func NewServer(name string, cfg Config, instance *store.Instance, verifier sig.Verifier,
	registry *metric.MetricsRegistry, logger *slog.Logger) (*Server, error) {
	if instance == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("instance is required"),
			"websocket_input", "NewServer", "validate dependencies")
	}
	if verifier == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("verifier is required"),
			"websocket_input", "NewServer", "validate dependencies")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		name:     name,
		config:   cfg,
		instance: instance,
		verifier: verifier,
		logger:   logger.With("component", name),
		conns:    make(map[string]*websocket.Conn),
		shutdown: make(chan struct{}),
		metrics:  newMetrics(registry, name),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:    cfg.ReadBufferSize,
		WriteBufferSize:   cfg.WriteBufferSize,
		EnableCompression: cfg.EnableCompression,
		CheckOrigin:       func(*http.Request) bool { return true },
	}

	return s, nil
}

// Meta returns component metadata.
func (s *Server) Meta() component.Metadata {
	return component.Metadata{
		Name:        s.name,
		Type:        "input",
		Description: "WebSocket input accepting event submissions",
		Version:     "1.0.0",
	}
}

// Health returns current health status.
func (s *Server) Health() component.HealthStatus {
	started := s.started.Load()
	uptime := time.Duration(0)
	if started && !s.startTime.IsZero() {
		uptime = time.Since(s.startTime)
	}
	return component.HealthStatus{
		Healthy:    started,
		LastCheck:  time.Now(),
		ErrorCount: int(s.errorCount.Load()),
		Uptime:     uptime,
	}
}

// Initialize prepares the component.
func (s *Server) Initialize() error {
	return nil
}

// Start binds the listener and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.started.Load() {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "websocket_input", "Start", "check state")
	}

	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, func(w http.ResponseWriter, r *http.Request) {
		s.handleUpgrade(ctx, w, r)
	})

	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return errors.WrapFatal(err, "websocket_input", "Start", "bind "+s.config.Listen)
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.trackError("server_error")
			s.logger.Error("http serve failed", "error", err)
		}
	}()

	s.startTime = time.Now()
	s.started.Store(true)
	s.logger.Info("websocket input listening", "addr", listener.Addr().String(), "path", s.config.Path)
	return nil
}

// Addr returns the bound listen address, useful when Listen used port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, closing all client connections.
func (s *Server) Stop(timeout time.Duration) error {
	if !s.started.Load() {
		return nil
	}

	s.shutdownOnce.Do(func() { close(s.shutdown) })

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)

	s.connsMu.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.conns = make(map[string]*websocket.Conn)
	s.connsMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		s.started.Store(false)
		return errors.WrapTransient(fmt.Errorf("shutdown timeout after %v", timeout),
			"websocket_input", "Stop", "wait for connections")
	}

	s.started.Store(false)
	return nil
}

// handleUpgrade negotiates the subprotocol, upgrades the connection, and
// hands it to a new session.
func (s *Server) handleUpgrade(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	subprotocol := relay.NegotiateSubprotocol(
		r.Header.Get("Sec-WebSocket-Protocol"), s.config.Subprotocol)

	var responseHeader http.Header
	if subprotocol != "" {
		responseHeader = http.Header{"Sec-WebSocket-Protocol": {subprotocol}}
	}

	conn, err := s.upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		s.trackError("upgrade_error")
		return
	}

	id := uuid.NewString()
	s.connsMu.Lock()
	s.conns[id] = conn
	s.connsMu.Unlock()

	if s.metrics != nil {
		s.metrics.connectionsActive.Inc()
		s.metrics.connectionsTotal.Inc()
	}

	session := relay.NewSession(id, &connSender{conn: conn}, s.verifier, s.instance,
		s.metrics, s.logger)
	session.Open(subprotocol)

	s.wg.Add(1)
	go s.readLoop(ctx, id, conn, session)
}

// readLoop delivers inbound frames to the session in arrival order until
// the transport closes.
func (s *Server) readLoop(ctx context.Context, id string, conn *websocket.Conn, session *relay.Session) {
	defer s.wg.Done()
	defer func() {
		session.HandleClose()
		conn.Close()
		s.connsMu.Lock()
		delete(s.conns, id)
		s.connsMu.Unlock()
		if s.metrics != nil {
			s.metrics.connectionsActive.Dec()
		}
	}()

	const readDeadline = 1 * time.Second

	for {
		select {
		case <-s.shutdown:
			return
		case <-ctx.Done():
			return
		default:
			_ = conn.SetReadDeadline(time.Now().Add(readDeadline))

			msgType, data, err := conn.ReadMessage()
			if err != nil {
				// Deadline expiry only means "check shutdown and read again".
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure,
					websocket.CloseGoingAway) {
					session.HandleError(err)
					s.trackError("read_error")
				}
				return
			}

			if s.metrics != nil {
				s.metrics.framesReceived.Inc()
			}

			frameType := relay.FrameBinary
			if msgType == websocket.TextMessage {
				frameType = relay.FrameText
			}
			session.HandleFrame(ctx, frameType, data)
		}
	}
}

func (s *Server) trackError(errorType string) {
	s.errorCount.Add(1)
	if s.metrics != nil {
		s.metrics.errorsTotal.WithLabelValues(errorType).Inc()
	}
}

// connSender serializes writes to one connection. Gorilla connections allow
// only one concurrent writer.
type connSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *connSender) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
