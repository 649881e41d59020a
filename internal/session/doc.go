// Package session drives the engine lifecycle required before any
// enrollment can happen: engine initialization, device acquisition, and
// enrollment-database context creation, in that order, with guaranteed
// release of partially acquired resources on failure.
//
// A Session also owns the sequential enrollment identifier. IDs start
// at 1, stay unique within one database context, and reset only when
// the context is cleared. Sessions are single-threaded by contract.
package session
