package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"whorl/internal/config"
	"whorl/internal/logging"
	"whorl/internal/session"
	"whorl/internal/templatecodec"
	"whorl/internal/zkfp"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loadConfigFile re-reads the config file honoring the --config flag,
// returning the resolved path and whether the file existed.
func (c *commandContext) loadConfigFile() (*config.Config, string, bool, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	return config.Load(path)
}

// decoder builds a template decoder from the configured policy and
// template size limit.
func (c *commandContext) decoder() (*templatecodec.Decoder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	policy, err := templatecodec.ParsePolicy(cfg.Ingest.DecodePolicy)
	if err != nil {
		return nil, err
	}
	return templatecodec.NewDecoder(
		templatecodec.WithPolicy(policy),
		templatecodec.WithMaxDecodedLen(cfg.Engine.MaxTemplateSize),
	), nil
}

// withSession opens an engine session for the duration of fn. Commands
// that only touch the roster database do not need one.
func (c *commandContext) withSession(ctx context.Context, fn func(*session.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lib, err := zkfp.Open(cfg.Engine.Provider, zkfp.Options{LibraryPath: cfg.Engine.LibraryPath})
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer lib.Close()

	caps, err := zkfp.Bind(lib)
	if err != nil {
		return fmt.Errorf("bind engine: %w", err)
	}

	sess, err := session.New(caps,
		session.WithDeviceIndex(cfg.Engine.DeviceIndex),
		session.WithLogger(logging.NewNop()),
	)
	if err != nil {
		return err
	}
	if err := sess.Open(ctx); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()

	return fn(sess)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
