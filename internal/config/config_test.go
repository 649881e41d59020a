package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"whorl/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "whorl")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Engine.Provider != "sim" {
		t.Fatalf("expected sim provider by default, got %q", cfg.Engine.Provider)
	}
	if cfg.Engine.MaxTemplateSize != 2048 {
		t.Fatalf("unexpected max template size: %d", cfg.Engine.MaxTemplateSize)
	}
	if cfg.Ingest.BatchSize != 10 || cfg.Ingest.Passes != 1 {
		t.Fatalf("unexpected ingest defaults: batch %d passes %d", cfg.Ingest.BatchSize, cfg.Ingest.Passes)
	}
	if cfg.Ingest.DecodePolicy != "reject" {
		t.Fatalf("unexpected decode policy: %q", cfg.Ingest.DecodePolicy)
	}
	if cfg.RosterPath() != filepath.Join(wantData, "roster.db") {
		t.Fatalf("unexpected roster path: %q", cfg.RosterPath())
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "whorl.toml")
	contents := `
[paths]
data_dir = "~/whorl-data"

[engine]
provider = "sim"
device_index = 2

[ingest]
source = "~/templates.txt"
batch_size = 5
decode_policy = "coerce"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "whorl-data") {
		t.Fatalf("data dir not expanded: %q", cfg.Paths.DataDir)
	}
	if cfg.Engine.DeviceIndex != 2 {
		t.Fatalf("unexpected device index: %d", cfg.Engine.DeviceIndex)
	}
	if cfg.Ingest.Source != filepath.Join(tempHome, "templates.txt") {
		t.Fatalf("source not expanded: %q", cfg.Ingest.Source)
	}
	if cfg.Ingest.BatchSize != 5 {
		t.Fatalf("unexpected batch size: %d", cfg.Ingest.BatchSize)
	}
	if cfg.Ingest.DecodePolicy != "coerce" {
		t.Fatalf("unexpected decode policy: %q", cfg.Ingest.DecodePolicy)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FPWHORL_ENGINE_PROVIDER", "vendor")
	t.Setenv("FPWHORL_INGEST_BATCH_SIZE", "25")
	t.Setenv("FPWHORL_LOG_LEVEL", "debug")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Engine.Provider != "vendor" {
		t.Fatalf("provider override not applied: %q", cfg.Engine.Provider)
	}
	if cfg.Ingest.BatchSize != 25 {
		t.Fatalf("batch size override not applied: %d", cfg.Ingest.BatchSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level override not applied: %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative device index", func(c *config.Config) { c.Engine.DeviceIndex = -1 }},
		{"bad decode policy", func(c *config.Config) { c.Ingest.DecodePolicy = "lenient" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"threshold out of range", func(c *config.Config) { c.Engine.IdentifyThreshold = 101 }},
		{"negative passes", func(c *config.Config) { c.Ingest.Passes = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample config failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Engine.Provider != "sim" {
		t.Fatalf("sample config provider: %q", cfg.Engine.Provider)
	}
}
