// Package diag defines the diagnostic model shared by every compiler phase.
//
// Diagnostic is the central record: a Severity, a numeric Code, a short
// message, the primary source.Span and optional notes. Producers emit through
// a Reporter (usually a BagReporter feeding a Bag); rendering lives in
// internal/diagfmt.
//
// Codes are grouped by range:
//
//	1xxx lexical      2xxx syntax       3xxx semantic
//	4xxx module I/O   5xxx linking      9xxx internal (compiler bugs)
//
// Internal codes never describe a problem in the user's program. The CLI
// appends a bug-report hint when it prints one.
package diag
