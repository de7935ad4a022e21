package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotice(t *testing.T) {
	assert.JSONEq(t, `["NOTICE","invalid json"]`, string(Notice("invalid json")))
}

func TestOK(t *testing.T) {
	assert.JSONEq(t, `["OK","a1",true,""]`, string(OK("a1", true, "")))
	assert.JSONEq(t, `["OK","a2",false,"only kind 1 accepted"]`,
		string(OK("a2", false, "only kind 1 accepted")))
}

func TestReject(t *testing.T) {
	// Protocol-shape errors carry no event identity and become a NOTICE.
	assert.JSONEq(t, `["NOTICE","invalid json"]`, string(Reject(RejectInvalidJSON, "")))
	assert.JSONEq(t, `["NOTICE","missing event payload"]`, string(Reject(RejectMissingPayload, "")))

	// Policy and trust errors are tied to an identified event.
	assert.JSONEq(t, `["OK","a2",false,"only kind 1 accepted"]`,
		string(Reject(RejectKindNotAccepted, "a2")))
	assert.JSONEq(t, `["OK","a3",false,"invalid signature"]`,
		string(Reject(RejectInvalidSignature, "a3")))
}
