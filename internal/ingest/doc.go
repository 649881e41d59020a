// Package ingest drives template enrollment from a line source: decode
// each encoded line, enroll it under the session's sequential id, and
// clear the enrollment database after every configured batch.
//
// Per-record failures (malformed text, non-OK enrollment status) are
// recovered locally and counted; setup failures, source-open failures,
// and session state violations end the run. The historical tool looped
// over its source forever; the Runner keeps that mode available as
// Passes 0 but checks its context between records so it can be stopped.
package ingest
