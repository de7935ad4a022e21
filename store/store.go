// Package store provides EventLog persistence for relay instances.
//
// Each relay instance owns one logical key in a key-value store. The value
// is the ordered, append-only sequence of accepted events' stored payload,
// encoded as a JSON array of strings. Access is plain get/put: there is no
// compare-and-swap and no cross-key transaction, so concurrent appends to
// the same instance follow a read-modify-write pattern with the hazards
// that implies (see Instance).
package store

import "context"

// Store is the durable key-value collaborator backing EventLogs.
// GetLog returns nil for an absent key; absence is not an error.
type Store interface {
	GetLog(ctx context.Context, key string) ([]string, error)
	PutLog(ctx context.Context, key string, log []string) error
}
