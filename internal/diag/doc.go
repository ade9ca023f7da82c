// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Two error classes
//
// User-diagnosable errors (bad source) are emitted through a Reporter with a
// source.Span and, where resolution fails or is ambiguous, Context lines that
// list every candidate considered. They never abort a phase: the producer
// returns a nil/invalid result for the failing node and keeps going so a
// single pass surfaces as many findings as possible. A Bag remembers that an
// error happened (even past its display limit) and the driver refuses to run
// the next phase over a program whose bag has errors.
//
// Internal invariant violations call CompilerError, which panics with *ICE.
// They indicate a bug in the compiler and are recovered only at the process
// boundary.
//
// # Sinks
//
// Reporter is deliberately tiny so the same analyzer serves a batch CLI
// (BagReporter + diagfmt) and interactive tooling (ReporterFunc keyed by
// document). A zero source.Span marks a program-level finding.
package diag
