package csvparse

import "strings"

// Stats describes the leniency applied during a parse.
type Stats struct {
	Rows            int // rows produced by the tokenizer, header included
	BlankSuppressed int // single-empty-cell rows dropped while tokenizing
	BlankDropped    int // all-blank data rows dropped before record construction
	ShortRows       int // data rows padded with empty values
	LongRows        int // data rows whose surplus cells were discarded
	Records         int
}

// Ragged reports whether any row length had to be reconciled with the header.
func (s Stats) Ragged() bool {
	return s.ShortRows > 0 || s.LongRows > 0
}

// Parse converts CSV text into records keyed by the trimmed first row.
// It never fails; empty input yields an empty slice.
func Parse(text string) []Record {
	records, _ := ParseWithStats(text)
	return records
}

// ParseWithStats is Parse plus a report of the reconciliation it performed.
func ParseWithStats(text string) ([]Record, Stats) {
	t := tokenize(text)
	records, stats := buildRecords(t.rows)
	stats.BlankSuppressed = t.suppressed
	return records, stats
}

// ParseRows builds records from already tokenized rows. The first row is the
// header.
func ParseRows(rows [][]string) []Record {
	records, _ := buildRecords(rows)
	return records
}

func buildRecords(rows [][]string) ([]Record, Stats) {
	stats := Stats{Rows: len(rows)}
	if len(rows) == 0 {
		return []Record{}, stats
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			stats.BlankDropped++
			continue
		}

		switch {
		case len(row) < len(header):
			stats.ShortRows++
		case len(row) > len(header):
			stats.LongRows++
		}

		rec := newRecord(len(header))
		for i, name := range header {
			var value string
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			rec.set(name, value)
		}
		records = append(records, rec)
	}

	stats.Records = len(records)
	return records, stats
}

// isBlank reports whether every cell of row is empty after trimming.
func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
