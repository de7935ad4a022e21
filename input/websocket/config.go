// Package websocket provides the WebSocket input component that accepts
// client connections and feeds inbound frames to relay sessions.
package websocket

// Config holds configuration for the WebSocket input component.
type Config struct {
	// Listen is the TCP address to serve on, e.g. ":8080".
	Listen string `json:"listen"`

	// Path is the HTTP path accepting upgrade requests.
	Path string `json:"path"`

	// Subprotocol is the single accepted subprotocol token, matched
	// case-insensitively against the client's offer. Empty disables
	// negotiation.
	Subprotocol string `json:"subprotocol"`

	ReadBufferSize    int  `json:"read_buffer_size"`
	WriteBufferSize   int  `json:"write_buffer_size"`
	EnableCompression bool `json:"enable_compression"`
}

// DefaultConfig returns the default WebSocket input configuration.
func DefaultConfig() Config {
	return Config{
		Listen:            ":8080",
		Path:              "/",
		Subprotocol:       "nostr",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		EnableCompression: false,
	}
}
