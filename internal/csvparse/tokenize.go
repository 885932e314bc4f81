package csvparse

import (
	"strings"
	"unicode/utf8"
)

// tokenizer holds the transient buffers of a single scan.
type tokenizer struct {
	state State
	cell  strings.Builder
	row   []string
	rows  [][]string

	suppressed int // blank rows dropped by endRow
}

// Tokenize splits text into rows of raw (untrimmed) cells.
//
// A row consisting of exactly one empty cell is discarded once at least one
// row has been accepted, so trailing newlines and stray blank lines never
// produce rows. The first row is always kept.
func Tokenize(text string) [][]string {
	t := tokenize(text)
	return t.rows
}

func tokenize(text string) *tokenizer {
	t := &tokenizer{state: Unquoted}
	c := NewCursor(text)

	for !c.Done() {
		ch, _ := c.Peek()
		next, hasNext := c.PeekNext()

		state, action, n := Step(t.state, ch, next, hasNext)
		t.apply(action, c)
		t.state = state
		c.Advance(n)
	}

	// Flush whatever is in progress as if a terminator had been read.
	t.endCell()
	t.endRow()

	return t
}

func (t *tokenizer) apply(a Action, c *Cursor) {
	switch a.Kind {
	case ActAppend:
		if a.Char == utf8.RuneError {
			t.cell.WriteString(c.Raw())
		} else {
			t.cell.WriteRune(a.Char)
		}
	case ActEndCell:
		t.endCell()
	case ActEndRow:
		t.endCell()
		t.endRow()
	}
}

func (t *tokenizer) endCell() {
	t.row = append(t.row, t.cell.String())
	t.cell.Reset()
}

func (t *tokenizer) endRow() {
	if len(t.row) == 1 && t.row[0] == "" && len(t.rows) > 0 {
		t.suppressed++
		t.row = nil
		return
	}
	t.rows = append(t.rows, t.row)
	t.row = nil
}
