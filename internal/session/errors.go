package session

import (
	"errors"
	"fmt"

	"whorl/internal/zkfp"
)

// ErrSetup marks all session acquisition failures so callers can treat
// them uniformly as fatal while the concrete types name the stage.
var ErrSetup = errors.New("session setup failed")

// EngineInitError reports a non-OK status from engine initialization.
type EngineInitError struct {
	Status zkfp.Status
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("initialize engine: %s", e.Status)
}

func (e *EngineInitError) Unwrap() error { return ErrSetup }

// DeviceOpenError reports a device open that returned no handle.
type DeviceOpenError struct {
	Index int
}

func (e *DeviceOpenError) Error() string {
	return fmt.Sprintf("open device %d: no handle returned", e.Index)
}

func (e *DeviceOpenError) Unwrap() error { return ErrSetup }

// DBInitError reports an enrollment-database context that could not be
// created.
type DBInitError struct{}

func (e *DBInitError) Error() string {
	return "initialize enrollment database: no context returned"
}

func (e *DBInitError) Unwrap() error { return ErrSetup }

// StateError reports an operation invoked outside the state it requires.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: session is %s, not %s", e.Op, e.State, StateDBReady)
}
