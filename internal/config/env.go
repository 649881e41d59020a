package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// applyEnvOverrides layers FPWHORL_* environment variables over the
// parsed config. A .env file beside the config file seeds the process
// environment first, without clobbering variables that are already set.
func applyEnvOverrides(cfg *Config, configDir string) {
	if configDir != "" {
		envPath := filepath.Join(configDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
		}
	}

	setString := func(key string, dst *string) {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	setInt := func(key string, dst *int) {
		if value, ok := os.LookupEnv(key); ok {
			if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				*dst = parsed
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if value, ok := os.LookupEnv(key); ok {
			if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
				*dst = parsed
			}
		}
	}

	setString("FPWHORL_DATA_DIR", &cfg.Paths.DataDir)
	setString("FPWHORL_LOG_DIR", &cfg.Paths.LogDir)
	setString("FPWHORL_ENGINE_PROVIDER", &cfg.Engine.Provider)
	setString("FPWHORL_ENGINE_LIBRARY_PATH", &cfg.Engine.LibraryPath)
	setInt("FPWHORL_ENGINE_DEVICE_INDEX", &cfg.Engine.DeviceIndex)
	setString("FPWHORL_INGEST_SOURCE", &cfg.Ingest.Source)
	setInt("FPWHORL_INGEST_BATCH_SIZE", &cfg.Ingest.BatchSize)
	setInt("FPWHORL_INGEST_PASSES", &cfg.Ingest.Passes)
	setString("FPWHORL_INGEST_DECODE_POLICY", &cfg.Ingest.DecodePolicy)
	setBool("FPWHORL_READER_MONITOR", &cfg.Reader.Monitor)
	setString("FPWHORL_LOG_LEVEL", &cfg.Logging.Level)
	setString("FPWHORL_LOG_FORMAT", &cfg.Logging.Format)
}
