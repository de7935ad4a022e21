// Package relay implements the per-connection session state machine that
// drives the event-ingestion pipeline.
//
// A Session owns one physical connection's lifecycle. The transport layer
// feeds it three signals: a received frame, a transport error, and the close
// signal. For each text frame the session runs the ordered pipeline
//
//	parse/validate -> kind policy -> signature -> append -> reply
//
// stopping at the first failing stage and sending exactly one reply frame.
// A rejected message never closes the session; transport close is the only
// termination path. Any panic or storage failure inside a frame handler is
// contained and answered with a generic internal-error NOTICE.
//
// The session is transport-agnostic: it knows nothing about WebSockets
// beyond a Sender for outbound frames. See input/websocket for the gorilla
// binding.
package relay
