package event

// SubmissionMarker is the first element of a client event-submission frame.
// This relay is write-only: no other client message type is accepted.
const SubmissionMarker = "EVENT"

// KindTextNote is the only kind admitted by policy.
const KindTextNote = 1

// Event is a signed, structured client submission. Immutable once parsed.
type Event struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// RejectReason is the closed tag set produced by the validation chain.
type RejectReason string

// Rejection reasons, in validation order. The zero value means no rejection.
const (
	RejectNone                   RejectReason = ""
	RejectInvalidJSON            RejectReason = "invalid_json"
	RejectInvalidShape           RejectReason = "invalid_shape"
	RejectUnsupportedMessageType RejectReason = "unsupported_message_type"
	RejectMissingPayload         RejectReason = "missing_payload"
	RejectMissingIDOrKind        RejectReason = "missing_id_or_kind"
	RejectMissingRequiredFields  RejectReason = "missing_required_fields"
	RejectKindNotAccepted        RejectReason = "kind_not_accepted"
	RejectInvalidSignature       RejectReason = "invalid_signature"
)

// IsProtocolError reports whether the reason belongs to the protocol/shape
// class, answered with a NOTICE because no event identity is established yet.
// Policy and trust rejections are answered with a negative OK instead.
func (r RejectReason) IsProtocolError() bool {
	switch r {
	case RejectInvalidJSON, RejectInvalidShape, RejectUnsupportedMessageType,
		RejectMissingPayload, RejectMissingIDOrKind, RejectMissingRequiredFields:
		return true
	}
	return false
}

// Message returns the human-readable reply text for a rejection reason.
func (r RejectReason) Message() string {
	switch r {
	case RejectInvalidJSON:
		return "invalid json"
	case RejectInvalidShape:
		return "invalid message shape"
	case RejectUnsupportedMessageType:
		return "unsupported message type"
	case RejectMissingPayload:
		return "missing event payload"
	case RejectMissingIDOrKind:
		return "missing event id or kind"
	case RejectMissingRequiredFields:
		return "missing required fields"
	case RejectKindNotAccepted:
		return "only kind 1 accepted"
	case RejectInvalidSignature:
		return "invalid signature"
	default:
		return ""
	}
}

// Admit applies the relay's administrative policy to a well-formed event.
// Only kind 1 (plain text note) is accepted; every other kind is rejected
// before any signature verification cost is paid.
func Admit(ev *Event) RejectReason {
	if ev.Kind != KindTextNote {
		return RejectKindNotAccepted
	}
	return RejectNone
}
