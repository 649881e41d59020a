// Package preflight verifies the environment a whorl run depends on:
// directory permissions, engine provider availability, attached
// readers, roster database health, and the ingest source. The status
// command renders the results and the daemon logs them at startup.
package preflight
