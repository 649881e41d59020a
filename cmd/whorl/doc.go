// Package main hosts the whorl CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// ingestion runs, roster maintenance, identification and verification
// requests, preflight checks, and configuration scaffolding. It
// centralizes configuration resolution and engine session setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands
// or flags here.
package main
