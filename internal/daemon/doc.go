// Package daemon runs continuous template ingestion as a supervised,
// single-instance process: it acquires a lock file, opens the engine
// through the configured provider, drives a session, and repeats
// ingestion passes until the context is canceled.
package daemon
