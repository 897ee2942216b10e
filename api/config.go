// Package api provides the HTTP API that web and terminal clients chat through.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// AllowOrigins is the CORS allow list (e.g., "*" or "http://localhost:3000").
	// Empty disables CORS handling.
	AllowOrigins string
}
