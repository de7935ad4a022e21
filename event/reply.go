package event

import "encoding/json"

// Notice encodes a ["NOTICE", reason] reply frame.
func Notice(reason string) []byte {
	data, err := json.Marshal([]any{"NOTICE", reason})
	if err != nil {
		// A two-element array of strings cannot fail to marshal.
		return []byte(`["NOTICE","internal error"]`)
	}
	return data
}

// OK encodes an ["OK", id, accepted, message] acknowledgement frame.
// The message is empty on success.
func OK(id string, accepted bool, message string) []byte {
	data, err := json.Marshal([]any{"OK", id, accepted, message})
	if err != nil {
		return []byte(`["NOTICE","internal error"]`)
	}
	return data
}

// Reject encodes the reply frame for a rejection reason. Protocol-shape
// errors become a NOTICE; policy and trust errors become a negative OK
// carrying the event id that was established during parsing.
func Reject(reason RejectReason, eventID string) []byte {
	if reason.IsProtocolError() {
		return Notice(reason.Message())
	}
	return OK(eventID, false, reason.Message())
}
