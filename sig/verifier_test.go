package sig

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akazdayo/nostr-workers-relay/event"
)

// signedEvent builds an event with a valid id and schnorr signature.
func signedEvent(t *testing.T, priv *btcec.PrivateKey, content string) *event.Event {
	t.Helper()

	ev := &event.Event{
		PubKey:    hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey())),
		CreatedAt: 1700000000,
		Kind:      event.KindTextNote,
		Tags:      [][]string{},
		Content:   content,
	}

	serialized, err := Serialize(ev)
	require.NoError(t, err)
	digest := sha256.Sum256(serialized)
	ev.ID = hex.EncodeToString(digest[:])

	signature, err := schnorr.Sign(priv, digest[:])
	require.NoError(t, err)
	ev.Sig = hex.EncodeToString(signature.Serialize())

	return ev
}

func TestVerifyValidSignature(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	ev := signedEvent(t, priv, "hello")
	assert.True(t, SchnorrVerifier{}.Verify(ev))
}

func TestVerifyRejectsTamperedContent(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	ev := signedEvent(t, priv, "hello")
	ev.Content = "goodbye"
	assert.False(t, SchnorrVerifier{}.Verify(ev))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	ev := signedEvent(t, priv, "hello")
	ev.PubKey = hex.EncodeToString(schnorr.SerializePubKey(other.PubKey()))
	assert.False(t, SchnorrVerifier{}.Verify(ev))
}

func TestVerifyRejectsGarbageFields(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	tamper := []func(ev *event.Event){
		func(ev *event.Event) { ev.ID = "not-hex" },
		func(ev *event.Event) { ev.PubKey = "not-hex" },
		func(ev *event.Event) { ev.Sig = "not-hex" },
		func(ev *event.Event) { ev.Sig = "abcd" }, // too short
	}

	for _, mutate := range tamper {
		ev := signedEvent(t, priv, "hello")
		mutate(ev)
		assert.False(t, SchnorrVerifier{}.Verify(ev))
	}
}

func TestSerializeNormalizesNilTags(t *testing.T) {
	ev := &event.Event{PubKey: "pk", CreatedAt: 1, Kind: 1, Content: "x <>&"}

	serialized, err := Serialize(ev)
	require.NoError(t, err)
	assert.Equal(t, `[0,"pk",1,1,[],"x <>&"]`, string(serialized))
}
