// Package config loads and validates relay configuration from a JSON file
// with environment variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	env "github.com/Netflix/go-env"

	"github.com/akazdayo/nostr-workers-relay/errors"
)

// Storage backend names.
const (
	StorageMemory = "memory"
	StorageBadger = "badger"
	StorageNATS   = "nats"
)

// Config is the complete relay configuration. The instance key addresses
// one EventLog in the storage namespace; running two relays with the same
// instance key against the same backend makes them share a log.
type Config struct {
	Instance    string        `json:"instance" env:"RELAY_INSTANCE"`
	Listen      string        `json:"listen" env:"RELAY_LISTEN"`
	Path        string        `json:"path" env:"RELAY_WS_PATH"`
	Subprotocol string        `json:"subprotocol" env:"RELAY_SUBPROTOCOL"`
	Storage     StorageConfig `json:"storage"`
	Gateway     GatewayConfig `json:"gateway"`
}

// StorageConfig selects and configures the EventLog backend.
type StorageConfig struct {
	Backend string       `json:"backend" env:"RELAY_STORAGE_BACKEND"`
	Badger  BadgerConfig `json:"badger"`
	NATS    NATSConfig   `json:"nats"`
}

// BadgerConfig configures the embedded Badger backend.
type BadgerConfig struct {
	Path string `json:"path" env:"RELAY_BADGER_PATH"`
}

// NATSConfig configures the JetStream KV backend.
type NATSConfig struct {
	URL           string        `json:"url" env:"RELAY_NATS_URL"`
	Bucket        string        `json:"bucket" env:"RELAY_NATS_BUCKET"`
	Timeout       time.Duration `json:"timeout"`
	MaxReconnects int           `json:"max_reconnects"`
}

// GatewayConfig configures the retrieval surface.
type GatewayConfig struct {
	Listen string `json:"listen" env:"RELAY_GATEWAY_LISTEN"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Instance:    "relay-main",
		Listen:      ":8080",
		Path:        "/",
		Subprotocol: "nostr",
		Storage: StorageConfig{
			Backend: StorageMemory,
			Badger:  BadgerConfig{Path: "./data"},
			NATS: NATSConfig{
				URL:           "nats://localhost:4222",
				Bucket:        "eventlogs",
				Timeout:       5 * time.Second,
				MaxReconnects: -1,
			},
		},
		Gateway: GatewayConfig{Listen: ":8081"},
	}
}

// Load reads configuration from an optional JSON file, then applies
// environment overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "config", "Load", "read file")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "parse json")
		}
	}

	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load", "apply environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for completeness and consistency.
func (c *Config) Validate() error {
	if c.Instance == "" {
		return errors.WrapInvalid(fmt.Errorf("instance key is required"),
			"config", "Validate", "check instance")
	}
	if c.Listen == "" {
		return errors.WrapInvalid(fmt.Errorf("listen address is required"),
			"config", "Validate", "check listen")
	}
	if c.Path == "" {
		return errors.WrapInvalid(fmt.Errorf("websocket path is required"),
			"config", "Validate", "check path")
	}

	switch c.Storage.Backend {
	case StorageMemory:
	case StorageBadger:
		if c.Storage.Badger.Path == "" {
			return errors.WrapInvalid(fmt.Errorf("badger path is required"),
				"config", "Validate", "check badger path")
		}
	case StorageNATS:
		if c.Storage.NATS.URL == "" {
			return errors.WrapInvalid(fmt.Errorf("nats url is required"),
				"config", "Validate", "check nats url")
		}
		if c.Storage.NATS.Bucket == "" {
			return errors.WrapInvalid(fmt.Errorf("nats bucket is required"),
				"config", "Validate", "check nats bucket")
		}
	default:
		return errors.WrapInvalid(
			fmt.Errorf("unknown storage backend %q", c.Storage.Backend),
			"config", "Validate", "check backend")
	}

	return nil
}
