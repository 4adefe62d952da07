package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches by prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Batch scoring can fan out to many culture judgments
		{Path: "/jobs/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},

		// Single scoring calls may reach the language model once each
		{Path: "/fit-score", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/score", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Writes
		{Path: "/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/candidates", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads use the default limit; /health and /metrics are unlimited
	}
}

// ParseIPList parses a comma-separated list of client addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}

// IPSet converts a list of client addresses into a set.
func IPSet(ips []string) map[string]bool {
	return ParseIPList(strings.Join(ips, ","))
}
