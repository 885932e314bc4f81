// Package csvparse turns raw CSV text into an ordered sequence of header-keyed
// records.
//
// The engine is a single forward pass over the input driven by a two-state
// automaton ([Unquoted] and [Quoted]). Each character is fed to [Step], which
// returns the next state and the side effect to apply (append to the current
// cell, end the cell, or end the row). A [Cursor] carries the scan position
// explicitly, so every call to [Parse] owns its own state and many inputs can
// be parsed concurrently.
//
// # Leniency
//
// Parsing never fails:
//
//   - An unterminated quote absorbs the rest of the input into the open cell.
//   - Blank lines after the first accepted row are suppressed.
//   - Rows shorter than the header are padded with empty values; surplus
//     cells on longer rows are discarded.
//   - Duplicate header names keep their first position, last value wins.
//
// Use [ParseWithStats] to learn how much reconciliation happened.
//
// # Example
//
//	records := csvparse.Parse("domain,title\nexample.com, Example \n")
//	records[0].Value("title") // "Example"
package csvparse
