// Package component defines the lifecycle and discovery contracts shared by
// the relay's long-running components (WebSocket input, HTTP gateway).
package component

import (
	"context"
	"time"
)

// Metadata describes a component for discovery and logging.
type Metadata struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// HealthStatus reports a component's runtime health.
type HealthStatus struct {
	Healthy    bool          `json:"healthy"`
	LastCheck  time.Time     `json:"last_check"`
	ErrorCount int           `json:"error_count"`
	Uptime     time.Duration `json:"uptime"`
}

// Discoverable exposes component identity and health.
type Discoverable interface {
	Meta() Metadata
	Health() HealthStatus
}

// LifecycleComponent defines components with full lifecycle management:
//   - Initialize() error                  setup only, no context
//   - Start(ctx context.Context) error    begin operation
//   - Stop(timeout time.Duration) error   graceful shutdown with deadline
type LifecycleComponent interface {
	Discoverable
	Initialize() error
	Start(ctx context.Context) error
	Stop(timeout time.Duration) error
}
