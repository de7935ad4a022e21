// Package sig provides cryptographic signature verification for events.
//
// The ingestion pipeline consumes verification as a capability: given an
// event, is its signature valid for its claimed author and content hash.
// Verification must be deterministic and side-effect-free; the pipeline
// treats a false result as a trust rejection, not a protocol error.
package sig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/akazdayo/nostr-workers-relay/event"
)

// Verifier reports whether an event's signature is valid.
type Verifier interface {
	Verify(ev *event.Event) bool
}

// SchnorrVerifier verifies BIP-340 schnorr signatures over the event's
// canonical serialization, with the event id as the signed digest.
type SchnorrVerifier struct{}

var _ Verifier = SchnorrVerifier{}

// Verify checks that the event id is the SHA-256 of the canonical
// serialization and that the signature is valid for the claimed pubkey.
func (SchnorrVerifier) Verify(ev *event.Event) bool {
	serialized, err := Serialize(ev)
	if err != nil {
		return false
	}

	digest := sha256.Sum256(serialized)
	if !strings.EqualFold(hex.EncodeToString(digest[:]), ev.ID) {
		return false
	}

	pubkeyBytes, err := hex.DecodeString(ev.PubKey)
	if err != nil {
		return false
	}
	pubkey, err := schnorr.ParsePubKey(pubkeyBytes)
	if err != nil {
		return false
	}

	sigBytes, err := hex.DecodeString(ev.Sig)
	if err != nil {
		return false
	}
	signature, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false
	}

	return signature.Verify(digest[:], pubkey)
}

// Serialize returns the canonical serialization hashed to form the event id:
// the JSON array [0, pubkey, created_at, kind, tags, content] with no HTML
// escaping and null tags normalized to an empty array.
func Serialize(ev *event.Event) ([]byte, error) {
	tags := ev.Tags
	if tags == nil {
		tags = [][]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{0, ev.PubKey, ev.CreatedAt, ev.Kind, tags, ev.Content}); err != nil {
		return nil, err
	}

	// Encoder appends a newline that is not part of the serialization.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
