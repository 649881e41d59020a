package session

import (
	"context"
	"fmt"
	"log/slog"

	"whorl/internal/logging"
	"whorl/internal/zkfp"
)

// State is the session lifecycle position. Transitions only move
// forward; Closed and Failed are terminal.
type State int

const (
	StateUnbound State = iota
	StateEngineReady
	StateDeviceOpen
	StateDBReady
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateEngineReady:
		return "engine-ready"
	case StateDeviceOpen:
		return "device-open"
	case StateDBReady:
		return "db-ready"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option customizes a Session.
type Option func(*Session)

// WithDeviceIndex selects which attached reader Open acquires.
func WithDeviceIndex(index int) Option {
	return func(s *Session) { s.deviceIndex = index }
}

// WithLogger attaches a logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logging.NewComponentLogger(logger, "session")
	}
}

// Session owns the engine, device, and enrollment-database handles for
// one run. It is not safe for concurrent use.
type Session struct {
	caps        *zkfp.Capabilities
	logger      *slog.Logger
	deviceIndex int

	state  State
	engine bool
	device zkfp.DeviceHandle
	db     zkfp.DBHandle
	nextID uint32
}

// New constructs an unbound session over a bound capability set.
func New(caps *zkfp.Capabilities, opts ...Option) (*Session, error) {
	if caps == nil {
		return nil, fmt.Errorf("session requires a bound capability set")
	}
	s := &Session{
		caps:   caps,
		logger: logging.NewNop(),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State reports the current lifecycle position.
func (s *Session) State() State {
	return s.state
}

// Open performs the staged acquisition: engine init, device open,
// enrollment-database init. Any failure releases what was already
// acquired, in reverse order, and leaves the session in Failed.
func (s *Session) Open(ctx context.Context) error {
	if s.state != StateUnbound {
		return fmt.Errorf("open: session is %s, not %s", s.state, StateUnbound)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if st := s.caps.Init(); !st.OK() {
		s.state = StateFailed
		return &EngineInitError{Status: st}
	}
	s.engine = true
	s.state = StateEngineReady

	if s.caps.Has(zkfp.SymGetDeviceCount) {
		if count, err := s.caps.DeviceCount(); err == nil && count <= 0 {
			s.fail()
			return &DeviceOpenError{Index: s.deviceIndex}
		}
	}

	device := s.caps.OpenDevice(s.deviceIndex)
	if device == nil {
		s.fail()
		return &DeviceOpenError{Index: s.deviceIndex}
	}
	s.device = device
	s.state = StateDeviceOpen

	db := s.caps.DBInit()
	if db == nil {
		s.fail()
		return &DBInitError{}
	}
	s.db = db
	s.state = StateDBReady
	s.nextID = 1

	s.logger.Info("session opened",
		logging.String(logging.FieldEventType, "session_opened"),
		logging.Int("device_index", s.deviceIndex),
	)
	return nil
}

// Enroll adds a template under the given id. It returns the engine's
// raw status for non-OK outcomes; converting that status into a failure
// is the caller's policy. The error return covers state and context
// violations only.
func (s *Session) Enroll(ctx context.Context, id uint32, template []byte) (zkfp.Status, error) {
	if err := s.ready(ctx, "enroll"); err != nil {
		return zkfp.StatusOther, err
	}
	return s.caps.DBAdd(s.db, id, template), nil
}

// Count reports the number of enrolled templates.
func (s *Session) Count(ctx context.Context) (int, error) {
	if err := s.ready(ctx, "count"); err != nil {
		return 0, err
	}
	st, count := s.caps.DBCount(s.db)
	if !st.OK() {
		return 0, &zkfp.CallError{Op: "count", Status: st}
	}
	return count, nil
}

// Clear empties the enrollment database and resets the sequential id
// counter to 1. The session stays in DBReady.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.ready(ctx, "clear"); err != nil {
		return err
	}
	if st := s.caps.DBClear(s.db); !st.OK() {
		return &zkfp.CallError{Op: "clear", Status: st}
	}
	s.nextID = 1
	s.logger.Debug("enrollment database cleared",
		logging.String(logging.FieldEventType, "db_cleared"),
	)
	return nil
}

// Identify searches the enrollment database for the probe template and
// returns the matched id and score.
func (s *Session) Identify(ctx context.Context, template []byte) (uint32, int, error) {
	if err := s.ready(ctx, "identify"); err != nil {
		return 0, 0, err
	}
	st, id, score := s.caps.DBIdentify(s.db, template)
	if !st.OK() {
		return 0, 0, &zkfp.CallError{Op: "identify", Status: st}
	}
	return id, score, nil
}

// Match scores two templates 1:1. It requires the optional ZKFPM_DBMatch
// symbol and surfaces zkfp.ErrNotSupported when the engine lacks it.
func (s *Session) Match(ctx context.Context, a, b []byte) (int, error) {
	if err := s.ready(ctx, "match"); err != nil {
		return 0, err
	}
	st, score, err := s.caps.DBMatch(s.db, a, b)
	if err != nil {
		return 0, err
	}
	if !st.OK() {
		return 0, &zkfp.CallError{Op: "match", Status: st}
	}
	return score, nil
}

// Remove deletes one enrolled template by id.
func (s *Session) Remove(ctx context.Context, id uint32) error {
	if err := s.ready(ctx, "remove"); err != nil {
		return err
	}
	if st := s.caps.DBDel(s.db, id); !st.OK() {
		return &zkfp.CallError{Op: "remove", Status: st}
	}
	return nil
}

// NextID returns the sequential id the next enrollment should use.
func (s *Session) NextID() uint32 {
	return s.nextID
}

// Advance consumes the current sequential id.
func (s *Session) Advance() {
	s.nextID++
}

// Close releases the database context, device, and engine in reverse
// acquisition order. It is idempotent and also safe after a failed Open,
// where it releases whatever was acquired before the failure.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.release()
	s.state = StateClosed
	s.logger.Info("session closed",
		logging.String(logging.FieldEventType, "session_closed"),
	)
	return nil
}

func (s *Session) ready(ctx context.Context, op string) error {
	if s.state != StateDBReady {
		return &StateError{Op: op, State: s.state}
	}
	return ctx.Err()
}

// fail releases acquired resources and parks the session in Failed.
func (s *Session) fail() {
	s.release()
	s.state = StateFailed
}

func (s *Session) release() {
	if s.db != nil {
		if st := s.caps.DBFree(s.db); !st.OK() {
			s.logger.Warn("release enrollment database",
				logging.String(logging.FieldEventType, "db_free_failed"),
				logging.String("status", st.String()),
			)
		}
		s.db = nil
	}
	if s.device != nil {
		if s.caps.Has(zkfp.SymCloseDevice) {
			if st, err := s.caps.CloseDevice(s.device); err == nil && !st.OK() {
				s.logger.Warn("release device",
					logging.String(logging.FieldEventType, "device_close_failed"),
					logging.String("status", st.String()),
				)
			}
		}
		s.device = nil
	}
	if s.engine {
		if s.caps.Has(zkfp.SymTerminate) {
			_, _ = s.caps.Terminate()
		}
		s.engine = false
	}
}
