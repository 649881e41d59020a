package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEngine() error {
	if c.Engine.Provider == "" {
		return errors.New("engine.provider must be set (use \"sim\" for the built-in simulated engine)")
	}
	if c.Engine.DeviceIndex < 0 {
		return errors.New("engine.device_index must not be negative")
	}
	if c.Engine.MaxTemplateSize <= 0 {
		return errors.New("engine.max_template_size must be positive")
	}
	if c.Engine.IdentifyThreshold < 0 || c.Engine.IdentifyThreshold > 100 {
		return errors.New("engine.identify_threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.BatchSize < 0 {
		return errors.New("ingest.batch_size must not be negative (0 disables batch clears)")
	}
	if c.Ingest.Passes < 0 {
		return errors.New("ingest.passes must not be negative (0 runs until interrupted)")
	}
	switch c.Ingest.DecodePolicy {
	case "reject", "coerce":
	default:
		return fmt.Errorf("ingest.decode_policy must be \"reject\" or \"coerce\", got %q", c.Ingest.DecodePolicy)
	}
	if c.Ingest.PassIntervalSeconds < 0 {
		return errors.New("ingest.pass_interval_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
