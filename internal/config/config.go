// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// UpstreamBaseURL points at the analysis backend serving markers,
	// surfaces, and ingestion jobs.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// FetchTimeoutMS bounds a single upstream round trip.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchQueueSize bounds the in-memory fetch request queue.
	FetchQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of marker fetch workers.
	WorkerCount int `koanf:"worker_count"`

	// JobPollIntervalMS sets how often ingestion job status is refreshed.
	JobPollIntervalMS int `koanf:"job_poll_interval_ms"`

	// MaxTimelineLimit caps GET /timeline?limit.
	MaxTimelineLimit int `koanf:"max_timeline_limit"`

	// MaxGames bounds how many games the store keeps marker sets for.
	MaxGames int `koanf:"max_games"`

	// MaxSurfaceEvents bounds the analysis surface cache.
	MaxSurfaceEvents int `koanf:"max_surface_events"`

	// DefaultPersona is the persona used when a request names none.
	DefaultPersona string `koanf:"default_persona"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		UpstreamBaseURL:   "http://localhost:9000",
		FetchTimeoutMS:    10_000,
		FetchQueueSize:    1024,
		WorkerCount:       runtime.NumCPU(),
		JobPollIntervalMS: 5_000,
		MaxTimelineLimit:  500,
		MaxGames:          32,
		MaxSurfaceEvents:  1024,
		DefaultPersona:    "referee",
	}
	return c
}
