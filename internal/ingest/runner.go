package ingest

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"time"

	"whorl/internal/logging"
	"whorl/internal/session"
	"whorl/internal/templatecodec"
)

// Lines longer than this are template corruption, not data.
const maxLineBytes = 64 * 1024

// Config wires a Runner.
type Config struct {
	Source  Source
	Session *session.Session
	Decoder *templatecodec.Decoder
	Logger  *slog.Logger

	// BatchSize clears the enrollment database after this many records;
	// 0 disables batch clears.
	BatchSize int
	// Passes is the number of full source passes; 0 repeats until the
	// context is canceled.
	Passes int
	// RestartOnClear abandons the remainder of a pass after each clear
	// and replays the source from the start, reproducing the historical
	// tool's loop shape. Each replay counts as a pass.
	RestartOnClear bool
	// PassInterval is the wait between passes.
	PassInterval time.Duration
}

// Summary accumulates the outcome of a run.
type Summary struct {
	Passes         int    `json:"passes"`
	Records        int    `json:"records"`
	Enrolled       int    `json:"enrolled"`
	SkippedEmpty   int    `json:"skipped_empty"`
	DecodeFailures int    `json:"decode_failures"`
	EnrollFailures int    `json:"enroll_failures"`
	Clears         int    `json:"clears"`
	FinalCount     int    `json:"final_count"`
	NextID         uint32 `json:"next_id"`
}

// Runner drives the ingestion loop over a session.
type Runner struct {
	source         Source
	session        *session.Session
	decoder        *templatecodec.Decoder
	logger         *slog.Logger
	batchSize      int
	passes         int
	restartOnClear bool
	passInterval   time.Duration
}

// NewRunner validates the wiring and constructs a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("ingest runner requires a source")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("ingest runner requires a session")
	}
	if cfg.BatchSize < 0 {
		return nil, fmt.Errorf("batch size must not be negative")
	}
	if cfg.Passes < 0 {
		return nil, fmt.Errorf("pass count must not be negative")
	}
	decoder := cfg.Decoder
	if decoder == nil {
		decoder = templatecodec.NewDecoder()
	}
	return &Runner{
		source:         cfg.Source,
		session:        cfg.Session,
		decoder:        decoder,
		logger:         logging.NewComponentLogger(cfg.Logger, "ingest"),
		batchSize:      cfg.BatchSize,
		passes:         cfg.Passes,
		restartOnClear: cfg.RestartOnClear,
		passInterval:   cfg.PassInterval,
	}, nil
}

// Run executes the configured passes and returns the accumulated
// summary. The summary is valid even when an error is returned.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	defer r.finalize(ctx, summary)

	for pass := 1; r.passes == 0 || pass <= r.passes; pass++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.runPass(ctx, pass, summary); err != nil {
			return summary, err
		}
		summary.Passes = pass

		if r.passInterval > 0 && (r.passes == 0 || pass < r.passes) {
			if err := sleepCtx(ctx, r.passInterval); err != nil {
				return summary, err
			}
		}
	}
	return summary, nil
}

func (r *Runner) runPass(ctx context.Context, pass int, sum *Summary) error {
	rc, err := r.source.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		sum.Records++

		template, err := r.decoder.Decode(scanner.Bytes())
		if err != nil {
			sum.DecodeFailures++
			r.logger.Warn("template decode failed; record skipped",
				logging.Error(err),
				logging.Int("line", line),
				logging.Uint64(logging.FieldRecordID, uint64(r.session.NextID())),
				logging.Int(logging.FieldPass, pass),
				logging.String(logging.FieldEventType, "decode_failed"),
				logging.String(logging.FieldImpact, "record not enrolled"),
			)
			continue
		}
		if len(template) == 0 {
			sum.SkippedEmpty++
			continue
		}

		id := r.session.NextID()
		st, err := r.session.Enroll(ctx, id, template)
		if err != nil {
			return err
		}
		if st.OK() {
			sum.Enrolled++
		} else {
			sum.EnrollFailures++
			r.logger.Warn("engine rejected enrollment; record skipped",
				logging.Uint64(logging.FieldRecordID, uint64(id)),
				logging.Int(logging.FieldPass, pass),
				logging.String("status", st.String()),
				logging.String(logging.FieldEventType, "enroll_rejected"),
				logging.String(logging.FieldImpact, "record not enrolled"),
			)
		}

		if count, err := r.session.Count(ctx); err == nil {
			r.logger.Debug("record processed",
				logging.Uint64(logging.FieldRecordID, uint64(id)),
				logging.Int("db_count", count),
				logging.Int(logging.FieldPass, pass),
			)
		}

		// The enrolling id drives the batch boundary whether or not the
		// engine accepted the record; the slot is consumed either way.
		if r.batchSize > 0 && id%uint32(r.batchSize) == 0 {
			if err := r.session.Clear(ctx); err != nil {
				return err
			}
			sum.Clears++
			if r.restartOnClear {
				return nil
			}
		} else {
			r.session.Advance()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", r.source.Name(), err)
	}

	r.logger.Info("pass complete",
		logging.Int(logging.FieldPass, pass),
		logging.String("source", r.source.Name()),
		logging.Int("records", sum.Records),
		logging.Int("enrolled", sum.Enrolled),
		logging.Int("clears", sum.Clears),
		logging.String(logging.FieldEventType, "pass_complete"),
	)
	return nil
}

func (r *Runner) finalize(ctx context.Context, sum *Summary) {
	sum.NextID = r.session.NextID()
	if r.session.State() != session.StateDBReady {
		return
	}
	// Best effort with a fresh context so a canceled run still reports.
	if count, err := r.session.Count(context.WithoutCancel(ctx)); err == nil {
		sum.FinalCount = count
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
