// Package core wires the pieces of a generation run together.
//
// A run loads the CSV source into memory ([LoadSource]), parses it with
// csvparse, writes one site per record with sitegen and records the outcome
// in the run history. [Service] is the entry point used by both the
// command line generator and the preview server.
//
// # Sources
//
// The source is read fully before parsing. A leading BOM is dropped, legacy
// single-byte encodings are converted to UTF-8 and remaining invalid bytes
// are replaced. A missing file is reported as [ErrSourceNotFound] before the
// parser ever runs.
//
// # Errors
//
// Technical errors are mapped to user-facing messages with [MapError]:
//
//   - SRC001-SRC004: source file problems
//   - GEN001-GEN003: output problems
//   - SRV001-SRV002: preview server problems
//   - REQ001-REQ003: cancelled, timed out or rate limited requests
//
// # Concurrency
//
// Runs rewrite the same build directory, so a [RunLimiter] admits one run at
// a time. Within a run, sites are written in parallel.
package core
