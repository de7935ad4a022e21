package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akazdayo/nostr-workers-relay/natsclient"
)

// NATSKVStore persists EventLogs in a NATS JetStream KV bucket. This is the
// production backend: the bucket survives relay restarts and can be shared
// by the retrieval surface.
//
// Put is a plain last-writer-wins write; the bucket's revision numbers are
// deliberately not used for optimistic concurrency.
type NATSKVStore struct {
	kv *natsclient.KVStore
}

// NewNATSKVStore wraps a KV bucket as a Store.
func NewNATSKVStore(kv *natsclient.KVStore) *NATSKVStore {
	return &NATSKVStore{kv: kv}
}

// GetLog reads and decodes the log for a key. An absent key yields nil.
func (s *NATSKVStore) GetLog(ctx context.Context, key string) ([]string, error) {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, natsclient.ErrKVKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var log []string
	if err := json.Unmarshal(entry.Value, &log); err != nil {
		return nil, fmt.Errorf("decode log %s: %w", key, err)
	}
	return log, nil
}

// PutLog encodes and writes the full log back under the key.
func (s *NATSKVStore) PutLog(ctx context.Context, key string, log []string) error {
	if log == nil {
		log = []string{}
	}
	value, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("encode log %s: %w", key, err)
	}

	_, err = s.kv.Put(ctx, key, value)
	return err
}
