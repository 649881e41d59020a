package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEngine(); err != nil {
		return err
	}
	if err := c.normalizeIngest(); err != nil {
		return err
	}
	c.normalizeReader()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEngine() error {
	c.Engine.Provider = strings.ToLower(strings.TrimSpace(c.Engine.Provider))
	if c.Engine.Provider == "" {
		c.Engine.Provider = defaultProvider
	}
	if path := strings.TrimSpace(c.Engine.LibraryPath); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return fmt.Errorf("engine.library_path: %w", err)
		}
		c.Engine.LibraryPath = expanded
	} else {
		c.Engine.LibraryPath = ""
	}
	if c.Engine.MaxTemplateSize <= 0 {
		c.Engine.MaxTemplateSize = defaultMaxTemplateSize
	}
	return nil
}

func (c *Config) normalizeIngest() error {
	if path := strings.TrimSpace(c.Ingest.Source); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return fmt.Errorf("ingest.source: %w", err)
		}
		c.Ingest.Source = expanded
	} else {
		c.Ingest.Source = ""
	}
	c.Ingest.DecodePolicy = strings.ToLower(strings.TrimSpace(c.Ingest.DecodePolicy))
	if c.Ingest.DecodePolicy == "" {
		c.Ingest.DecodePolicy = defaultDecodePolicy
	}
	return nil
}

func (c *Config) normalizeReader() {
	c.Reader.USBVendorID = strings.ToLower(strings.TrimSpace(c.Reader.USBVendorID))
	if c.Reader.USBVendorID == "" {
		c.Reader.USBVendorID = defaultUSBVendorID
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
