// Package testsupport provides shared fixtures: temp-dir configs, roster
// stores, and sessions bound to the simulated engine.
package testsupport

import (
	"path/filepath"
	"testing"

	"whorl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test, running against the simulated engine.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Engine.Provider = "sim"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSource points the ingest source at the given file.
func WithSource(path string) ConfigOption {
	return func(c *config.Config) {
		c.Ingest.Source = path
	}
}

// WithBatchSize overrides the ingest batch size.
func WithBatchSize(n int) ConfigOption {
	return func(c *config.Config) {
		c.Ingest.BatchSize = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
