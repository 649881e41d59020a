package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"whorl/internal/config"
	"whorl/internal/ingest"
	"whorl/internal/logging"
	"whorl/internal/reader"
	"whorl/internal/session"
	"whorl/internal/templatecodec"
	"whorl/internal/zkfp"
)

// Daemon owns one continuous-ingestion run and enforces single-instance
// execution through a lock file under the log directory.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock
	running  atomic.Bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if cfg.Ingest.Source == "" {
		return nil, errors.New("daemon requires ingest.source to be configured")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "whorld.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Running reports whether Run is currently active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Run acquires the instance lock, opens the engine and session, and
// repeats ingestion passes until ctx is canceled. A canceled context is
// a clean shutdown, not an error.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another whorl daemon holds %s", d.lockPath)
	}
	defer func() { _ = d.lock.Unlock() }()

	lib, err := zkfp.Open(d.cfg.Engine.Provider, zkfp.Options{LibraryPath: d.cfg.Engine.LibraryPath})
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer lib.Close()

	caps, err := zkfp.Bind(lib)
	if err != nil {
		return fmt.Errorf("bind engine: %w", err)
	}

	sess, err := session.New(caps,
		session.WithDeviceIndex(d.cfg.Engine.DeviceIndex),
		session.WithLogger(d.logger),
	)
	if err != nil {
		return err
	}
	if err := sess.Open(ctx); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()

	monitor := reader.NewMonitor(d.cfg, d.logger, reader.Events{})
	if monitor != nil {
		if err := monitor.Start(ctx); err != nil {
			return fmt.Errorf("start reader monitor: %w", err)
		}
		defer monitor.Stop()
	}

	policy, err := templatecodec.ParsePolicy(d.cfg.Ingest.DecodePolicy)
	if err != nil {
		return err
	}
	runner, err := ingest.NewRunner(ingest.Config{
		Source:  ingest.FileSource{Path: d.cfg.Ingest.Source},
		Session: sess,
		Decoder: templatecodec.NewDecoder(
			templatecodec.WithPolicy(policy),
			templatecodec.WithMaxDecodedLen(d.cfg.Engine.MaxTemplateSize),
		),
		Logger:         d.logger,
		BatchSize:      d.cfg.Ingest.BatchSize,
		Passes:         0, // until canceled
		RestartOnClear: d.cfg.Ingest.RestartOnClear,
		PassInterval:   time.Duration(d.cfg.Ingest.PassIntervalSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	d.logger.Info("continuous ingestion started",
		logging.String(logging.FieldEventType, "ingestion_started"),
		logging.String(logging.FieldProvider, d.cfg.Engine.Provider),
		logging.String("source", d.cfg.Ingest.Source),
		logging.Int("batch_size", d.cfg.Ingest.BatchSize),
	)

	summary, err := runner.Run(ctx)
	d.logger.Info("continuous ingestion stopped",
		logging.String(logging.FieldEventType, "ingestion_stopped"),
		logging.Int("passes", summary.Passes),
		logging.Int("records", summary.Records),
		logging.Int("enrolled", summary.Enrolled),
		logging.Int("clears", summary.Clears),
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
