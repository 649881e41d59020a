package zkfp

import "errors"

var (
	// ErrUnknownProvider indicates no engine provider is registered
	// under the configured name.
	ErrUnknownProvider = errors.New("unknown engine provider")

	// ErrNotSupported indicates an optional vendor operation that the
	// opened library does not export.
	ErrNotSupported = errors.New("operation not supported by engine")
)

// SymbolError reports a required entry point that could not be bound,
// either because the library does not export it or because it carries
// an unexpected signature.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string {
	if e.Err != nil {
		return "bind symbol " + e.Symbol + ": " + e.Err.Error()
	}
	return "bind symbol " + e.Symbol
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// CallError wraps a non-OK engine status with the operation that
// produced it.
type CallError struct {
	Op     string
	Status Status
}

func (e *CallError) Error() string {
	return e.Op + ": " + e.Status.String()
}

// Recoverable reports whether the caller may continue using the session
// after this failure. Handle and initialization faults poison the
// session; per-record faults do not.
func (e *CallError) Recoverable() bool {
	switch e.Status {
	case StatusInvalidHandle, StatusInitLib, StatusNoDevice:
		return false
	default:
		return true
	}
}
