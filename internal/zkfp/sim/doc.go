// Package sim provides an in-process engine provider registered as
// "sim". It implements the full vendor symbol table, including the
// optional entry points, with deterministic in-memory database
// semantics so sessions and ingestion can run without a physical reader
// or the vendor shared object.
//
// Scoring is positional byte similarity, not biometrics: identical
// templates score 100, disjoint ones 0. That is enough to exercise
// identify and verify flows end to end. Options inject faults for
// binder and session tests.
package sim
