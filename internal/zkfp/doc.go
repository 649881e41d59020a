// Package zkfp models the vendor fingerprint engine as a capability set.
//
// An engine provider registers itself by name and yields a Library, a
// symbol table of named entry points. Bind resolves the fixed set of
// operations this project depends on into typed function handles and
// refuses to proceed when a required symbol is missing, so a misbuilt
// or mismatched vendor library fails at startup instead of at the first
// enrollment. Every engine status crosses package boundaries as the
// typed Status rather than a raw integer.
package zkfp
