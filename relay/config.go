package relay

import "github.com/careerai/relay/relay/upstream"

// Config is the relay server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// CORSOrigins is a comma separated list of allowed origins, or "*".
	// Empty means "*".
	CORSOrigins string

	// Upstream configures the chat-completions client.
	Upstream upstream.Config
}
