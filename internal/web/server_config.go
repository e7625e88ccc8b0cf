package web

import (
	"fmt"
	"os"
	"strconv"
)

const EnvDevMode = "FRACTVIEW_DEV"

// ServerConfig contains settings for running the HTTP server.
type ServerConfig struct {
	ListenAddr string
	// DevMode enables permissive CORS and cross-origin websocket upgrades.
	DevMode bool
}

// ServerConfigFromEnv uses listenAddr as resolved by the config layer and
// reads dev mode from the environment.
func ServerConfigFromEnv(listenAddr string) (ServerConfig, error) {
	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}
	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
