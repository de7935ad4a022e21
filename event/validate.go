package event

import (
	"bytes"
	"encoding/json"
)

// Parse validates a raw text frame and returns either a well-formed Event or
// the first failing check's rejection reason. The returned event is not yet
// kind-filtered or signature-checked.
//
// Checks, in order: JSON validity, non-empty array shape, "EVENT" marker,
// non-null object payload, id/kind presence and type, then the remaining
// required fields (pubkey, sig, created_at).
func Parse(raw []byte) (*Event, RejectReason) {
	if !json.Valid(raw) {
		return nil, RejectInvalidJSON
	}

	var frame []json.RawMessage
	if err := json.Unmarshal(raw, &frame); err != nil || len(frame) == 0 {
		return nil, RejectInvalidShape
	}

	var marker string
	if err := json.Unmarshal(frame[0], &marker); err != nil || marker != SubmissionMarker {
		return nil, RejectUnsupportedMessageType
	}

	if len(frame) < 2 || bytes.Equal(frame[1], []byte("null")) {
		return nil, RejectMissingPayload
	}
	var payload map[string]any
	if err := json.Unmarshal(frame[1], &payload); err != nil {
		return nil, RejectMissingPayload
	}

	// The payload is duck-typed on the wire: a field of the wrong primitive
	// type counts as missing.
	id, hasID := payload["id"].(string)
	kind, hasKind := payload["kind"].(float64)
	if !hasID || id == "" || !hasKind {
		return nil, RejectMissingIDOrKind
	}

	pubkey, hasPubkey := payload["pubkey"].(string)
	sig, hasSig := payload["sig"].(string)
	createdAt, hasCreatedAt := payload["created_at"].(float64)
	if !hasPubkey || pubkey == "" || !hasSig || sig == "" || !hasCreatedAt {
		return nil, RejectMissingRequiredFields
	}

	content, _ := payload["content"].(string)

	return &Event{
		ID:        id,
		PubKey:    pubkey,
		CreatedAt: int64(createdAt),
		Kind:      int(kind),
		Tags:      parseTags(payload["tags"]),
		Content:   content,
		Sig:       sig,
	}, RejectNone
}

// parseTags converts the wire tags value into an ordered sequence of string
// sequences. Tags carry structural metadata only and are not validated here:
// non-sequence entries are dropped, non-string fields degrade to "" with
// their position preserved.
func parseTags(v any) [][]string {
	outer, ok := v.([]any)
	if !ok {
		return [][]string{}
	}

	tags := make([][]string, 0, len(outer))
	for _, entry := range outer {
		inner, ok := entry.([]any)
		if !ok {
			continue
		}
		tag := make([]string, len(inner))
		for i, field := range inner {
			s, _ := field.(string)
			tag[i] = s
		}
		tags = append(tags, tag)
	}
	return tags
}
