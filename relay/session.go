package relay

import (
	"context"
	"log/slog"
	"strings"

	"github.com/akazdayo/nostr-workers-relay/event"
	"github.com/akazdayo/nostr-workers-relay/sig"
	"github.com/akazdayo/nostr-workers-relay/store"
)

// State is the session lifecycle state.
type State int

const (
	// StateConnecting is the initial state before negotiation completes.
	StateConnecting State = iota
	// StateOpen accepts frames, one pipeline iteration per frame.
	StateOpen
	// StateClosed is terminal; no further sends are attempted.
	StateClosed
)

// String returns a string representation of the session state
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Frame type markers for HandleFrame, mirroring the transport's framing.
const (
	FrameText = iota + 1
	FrameBinary
)

// Sender delivers one outbound text frame to the peer.
type Sender interface {
	Send(data []byte) error
}

// Stats receives the disposition of each handled frame. Implementations
// must be safe for concurrent use.
type Stats interface {
	FrameHandled(disposition string)
}

// Frame dispositions reported to Stats.
const (
	DispositionAccepted = "accepted"
	DispositionRejected = "rejected"
	DispositionNotice   = "notice"
	DispositionError    = "error"
)

type nopStats struct{}

func (nopStats) FrameHandled(string) {}

// Session is the state machine for one physical connection. It is driven by
// the transport's event source and is not safe for concurrent frames; the
// transport delivers frames in arrival order, one at a time.
type Session struct {
	id          string
	state       State
	subprotocol string

	sender   Sender
	verifier sig.Verifier
	instance *store.Instance
	stats    Stats
	logger   *slog.Logger
}

// NewSession creates a session in the Connecting state.
func NewSession(id string, sender Sender, verifier sig.Verifier, instance *store.Instance,
	stats Stats, logger *slog.Logger) *Session {
	if stats == nil {
		stats = nopStats{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:       id,
		state:    StateConnecting,
		sender:   sender,
		verifier: verifier,
		instance: instance,
		stats:    stats,
		logger:   logger.With("session", id),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Subprotocol returns the negotiated subprotocol, or "" if none was agreed.
func (s *Session) Subprotocol() string {
	return s.subprotocol
}

// NegotiateSubprotocol selects at most one recognized token from the
// client's comma-separated offer, matched case-insensitively against the
// single accepted value. No offer or no match is not an error; the session
// proceeds without declaring a subprotocol.
func NegotiateSubprotocol(offered, accepted string) string {
	if offered == "" || accepted == "" {
		return ""
	}
	for _, token := range strings.Split(offered, ",") {
		if strings.EqualFold(strings.TrimSpace(token), accepted) {
			return accepted
		}
	}
	return ""
}

// Open transitions Connecting -> Open after transport negotiation.
func (s *Session) Open(subprotocol string) {
	if s.state != StateConnecting {
		return
	}
	s.subprotocol = subprotocol
	s.state = StateOpen
	s.logger.Debug("session open", "subprotocol", subprotocol)
}

// HandleFrame runs one pipeline iteration for an inbound frame. It sends at
// most one reply and, on full acceptance, performs exactly one storage
// append. Processing failures are contained: the session stays Open no
// matter what the frame did.
func (s *Session) HandleFrame(ctx context.Context, frameType int, raw []byte) {
	if s.state != StateOpen {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("frame handler panic", "panic", r)
			s.stats.FrameHandled(DispositionError)
			s.send(event.Notice("internal error"))
		}
	}()

	if frameType != FrameText {
		s.stats.FrameHandled(DispositionNotice)
		s.send(event.Notice("only text frames are supported"))
		return
	}

	s.send(s.process(ctx, raw))
}

// process runs the ordered validation chain and returns the single reply
// frame for this message.
func (s *Session) process(ctx context.Context, raw []byte) []byte {
	ev, reason := event.Parse(raw)
	if reason != event.RejectNone {
		s.stats.FrameHandled(DispositionNotice)
		return event.Reject(reason, "")
	}

	// Policy runs before signature verification so disallowed kinds never
	// pay verification cost and never reach storage.
	if reason := event.Admit(ev); reason != event.RejectNone {
		s.stats.FrameHandled(DispositionRejected)
		return event.Reject(reason, ev.ID)
	}

	if !s.verifier.Verify(ev) {
		s.stats.FrameHandled(DispositionRejected)
		return event.Reject(event.RejectInvalidSignature, ev.ID)
	}

	if err := s.instance.Append(ctx, ev.Content); err != nil {
		s.logger.Error("append failed", "event_id", ev.ID, "error", err)
		s.stats.FrameHandled(DispositionError)
		return event.Notice("internal error")
	}

	s.stats.FrameHandled(DispositionAccepted)
	return event.OK(ev.ID, true, "")
}

// HandleError records a transport error. Errors are non-fatal: the session
// stays Open and closure remains the transport's decision.
func (s *Session) HandleError(err error) {
	if s.state == StateClosed {
		return
	}
	s.logger.Warn("transport error", "error", err)
}

// HandleClose transitions to the terminal Closed state.
func (s *Session) HandleClose() {
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.logger.Debug("session closed")
}

func (s *Session) send(reply []byte) {
	if reply == nil || s.state != StateOpen {
		return
	}
	if err := s.sender.Send(reply); err != nil {
		s.logger.Warn("reply send failed", "error", err)
	}
}
