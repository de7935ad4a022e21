// Package nostrrelay is the root of nostr-workers-relay, a single-writer
// relay for a Nostr-style event protocol.
//
// # Architecture
//
// Clients connect over WebSocket and submit signed events; the relay
// validates each submission through an ordered pipeline and appends the
// accepted payloads to a per-instance EventLog in a key-value store:
//
//	frame -> relay.Session -> event.Parse -> event.Admit -> sig.Verify
//	      -> store.Instance.Append -> reply (OK / NOTICE)
//
// Packages:
//
//   - event: event model, inbound validation chain, reply encoding
//   - sig: BIP-340 schnorr signature verification
//   - store: EventLog persistence (NATS JetStream KV, Badger, memory)
//     and the per-instance ingestion coordinator
//   - relay: per-connection session state machine
//   - input/websocket: WebSocket server component
//   - gateway/http: retrieval surface (/events, /healthz, /metrics)
//   - natsclient, config, metric, errors, component: infrastructure
//
// The relay is write-only: it accepts no subscriptions or queries over the
// ingestion connection. Retrieval happens out of band via the HTTP gateway.
package nostrrelay
