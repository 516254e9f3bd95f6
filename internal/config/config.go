// Package config loads runtime configuration for the songsync CLI.
//
// Sources & precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
package config

import "time"

// Config holds runtime settings for the songsync CLI.
type Config struct {
	// DatabasePath is the local SQLite database file.
	DatabasePath string

	// S3 connection settings. Endpoint is optional and only needed for
	// MinIO or another S3-compatible store.
	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// RootFolderName is the remote folder all synced objects live under.
	RootFolderName string
	// ChunkSize caps in-flight transfers per batch chunk.
	ChunkSize int
	// SyncTimeout bounds one full sync cycle.
	SyncTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "songsync.db"
	c.S3Region = "us-east-1"
	c.RootFolderName = "songsync"
	c.ChunkSize = 10
	c.SyncTimeout = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
