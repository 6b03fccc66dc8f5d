// Package config provides the configuration system for the Lithic storage
// core. A single Config structure covers storage sizing, snapshot
// compression, and observability settings.
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Storage.TargetChunkSize = 10_000
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"

	"github.com/ajitpratap0/lithic/pkg/compression"
)

// DefaultTargetChunkSize is the number of rows a chunk holds before the
// table rolls over to a fresh chunk.
const DefaultTargetChunkSize = 65535

// Config is the top-level configuration for the storage core.
type Config struct {
	// Storage controls table and chunk sizing
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Snapshot controls chunk snapshot serialization
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// Observability settings for logging and metrics
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// StorageConfig contains table sizing settings.
type StorageConfig struct {
	// TargetChunkSize is the maximum row count per chunk
	TargetChunkSize uint32 `yaml:"target_chunk_size" json:"target_chunk_size"`
}

// SnapshotConfig controls how chunk snapshots are compressed.
type SnapshotConfig struct {
	// Algorithm selects the snapshot compression algorithm
	Algorithm compression.Algorithm `yaml:"algorithm" json:"algorithm"`
	// Level selects the compression level
	Level compression.Level `yaml:"level" json:"level"`
}

// ObservabilityConfig contains logging and metrics settings.
type ObservabilityConfig struct {
	// LogLevel sets the minimum log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// EnableMetrics toggles Prometheus collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
}

// Default returns a configuration with production defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			TargetChunkSize: DefaultTargetChunkSize,
		},
		Snapshot: SnapshotConfig{
			Algorithm: compression.Zstd,
			Level:     compression.Default,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			EnableMetrics: true,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Storage.TargetChunkSize == 0 {
		return fmt.Errorf("storage.target_chunk_size must be positive")
	}

	switch c.Snapshot.Algorithm {
	case compression.None, compression.Gzip, compression.Snappy,
		compression.LZ4, compression.Zstd, compression.S2:
	default:
		return fmt.Errorf("unknown snapshot.algorithm %q", c.Snapshot.Algorithm)
	}

	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown observability.log_level %q", c.Observability.LogLevel)
	}

	return nil
}
