package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "store", "Append", "put log")
	require.Error(t, err)
	assert.Equal(t, "store.Append: put log failed: boom", err.Error())
	assert.True(t, stderrors.Is(err, base))

	assert.NoError(t, Wrap(nil, "store", "Append", "put log"))
}

func TestClassifiedWrappers(t *testing.T) {
	base := stderrors.New("boom")

	transient := WrapTransient(base, "kv", "Get", "read")
	invalid := WrapInvalid(base, "event", "Parse", "decode")
	fatal := WrapFatal(base, "config", "Load", "open file")

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(invalid))
	assert.True(t, IsInvalid(invalid))
	assert.False(t, IsInvalid(fatal))
	assert.True(t, IsFatal(fatal))
	assert.False(t, IsFatal(transient))

	// Classification survives further wrapping
	wrapped := fmt.Errorf("outer: %w", invalid)
	assert.True(t, IsInvalid(wrapped))
	assert.Equal(t, ErrorInvalid, Classify(wrapped))
}

func TestClassifyStandardErrors(t *testing.T) {
	assert.Equal(t, ErrorTransient, Classify(ErrStorageUnavailable))
	assert.Equal(t, ErrorTransient, Classify(context.DeadlineExceeded))
	assert.Equal(t, ErrorInvalid, Classify(ErrParsingFailed))
	assert.Equal(t, ErrorFatal, Classify(ErrMissingConfig))

	// Unknown errors default to transient
	assert.Equal(t, ErrorTransient, Classify(stderrors.New("mystery")))
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}
