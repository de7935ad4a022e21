// Package event defines the relay's event model and the inbound message
// validation chain.
//
// Clients submit events as JSON array frames:
//
//	["EVENT", {"id": ..., "pubkey": ..., "created_at": ..., "kind": ...,
//	           "tags": ..., "content": ..., "sig": ...}]
//
// Parse turns a raw text frame into either a well-formed Event or a tagged
// rejection reason. The checks run in a fixed order and short-circuit on the
// first failure; a frame is never partially accepted. Well-formedness is
// necessary but not sufficient for acceptance: the kind policy (Admit) and
// the signature check still follow.
//
// The package also owns the two outbound reply shapes:
//
//	["NOTICE", <reason>]                      protocol-level problems
//	["OK", <event id>, <accepted>, <message>] per-event acknowledgements
package event
