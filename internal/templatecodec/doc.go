// Package templatecodec decodes the text encoding used by ZKFinger
// template exports into raw template bytes.
//
// The wire format is standard base64, but vendor tooling does not decode
// it strictly: lines end at the first terminator byte, unknown symbols
// are historically coerced to a sentinel value, and output is bounded by
// the engine's maximum template size. The Decoder reproduces those
// semantics explicitly, letting callers choose between rejecting
// malformed input and the legacy coercing behavior, instead of
// inheriting whichever one encoding/base64 happens to apply.
//
// Encoding is the exact inverse and uses the standard library, since
// templates produced here must remain readable by vendor tools.
package templatecodec
