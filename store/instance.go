package store

import (
	"context"
	"log/slog"

	"github.com/akazdayo/nostr-workers-relay/errors"
)

// Instance is the ingestion coordinator for one named relay instance. All
// sessions bound to the instance funnel their storage mutations through it,
// against a single logical key.
//
// Append is a read-modify-write with no compare-and-swap: the read and the
// write are separate suspension points, so two concurrent accept paths can
// both read the log before either writes it back and one append is silently
// lost. That matches the storage contract this relay was built against; see
// DESIGN.md before changing it.
type Instance struct {
	key    string
	store  Store
	logger *slog.Logger
}

// NewInstance creates the coordinator for the given instance key.
func NewInstance(key string, store Store, logger *slog.Logger) *Instance {
	if logger == nil {
		logger = slog.Default()
	}
	return &Instance{key: key, store: store, logger: logger}
}

// Key returns the instance's storage key.
func (in *Instance) Key() string {
	return in.key
}

// Append records one accepted event's payload at the end of the EventLog.
// An absent log is treated as empty, so the log is created lazily on the
// first accepted event.
func (in *Instance) Append(ctx context.Context, payload string) error {
	log, err := in.store.GetLog(ctx, in.key)
	if err != nil {
		return errors.WrapTransient(err, "Instance", "Append", "get log")
	}

	log = append(log, payload)
	if err := in.store.PutLog(ctx, in.key, log); err != nil {
		return errors.WrapTransient(err, "Instance", "Append", "put log")
	}

	in.logger.Debug("event appended", "instance", in.key, "log_length", len(log))
	return nil
}

// Log returns the current EventLog contents. Read consistency is whatever
// the backing store provides for a plain get.
func (in *Instance) Log(ctx context.Context) ([]string, error) {
	log, err := in.store.GetLog(ctx, in.key)
	if err != nil {
		return nil, errors.WrapTransient(err, "Instance", "Log", "get log")
	}
	return log, nil
}
