// Package roster persists named fingerprint enrollments in SQLite.
//
// The engine's enrollment database is in-memory and scoped to one
// session; the roster is the durable side. Identify and verify flows
// hydrate a fresh session database from roster rows, enrolling each
// template under its row id, then run the engine's matcher against the
// probe.
package roster
