package config

import (
	"os"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	DataRoot       string
	RequestTimeout time.Duration
}

var defaultRequestTimeout = 30 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("DEGREEFINDER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dataRoot := os.Getenv("DEGREEFINDER_DATA_ROOT")
	if dataRoot == "" {
		dataRoot = "data"
	}

	timeout := defaultRequestTimeout
	if raw := os.Getenv("DEGREEFINDER_REQUEST_TIMEOUT"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			timeout = duration
		}
	}

	return Server{
		Addr:           addr,
		DataRoot:       dataRoot,
		RequestTimeout: timeout,
	}
}
