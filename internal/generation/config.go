package generation

import (
	"os"
	"strconv"
)

// Config holds settings for talking to the generation endpoint.
type Config struct {
	Endpoint    string
	Concurrency int
	Strict      bool
	LogCalls    bool
}

// DefaultConfig returns a Config pointing at a local endpoint with
// sequential, lenient generation.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "http://localhost:8080",
		Concurrency: 1,
	}
}

// LoadConfig reads generation settings from environment variables,
// falling back to defaults for any unset or invalid values.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("PHASELY_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("PHASELY_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("PHASELY_STRICT"); v != "" {
		cfg.Strict, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PHASELY_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	return cfg
}
