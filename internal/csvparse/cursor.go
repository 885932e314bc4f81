package csvparse

import "unicode/utf8"

// Cursor is a forward-only position over the input text. It never moves
// backwards; lookahead is limited to one character.
type Cursor struct {
	text string
	pos  int // byte offset of the current character
}

// NewCursor returns a cursor positioned at the first character of text.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// Done reports whether the input is exhausted.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.text)
}

// Pos returns the byte offset of the current character.
func (c *Cursor) Pos() int {
	return c.pos
}

// Peek returns the character under the cursor. ok is false at end of input.
func (c *Cursor) Peek() (r rune, ok bool) {
	if c.Done() {
		return 0, false
	}
	r, _ = utf8.DecodeRuneInString(c.text[c.pos:])
	return r, true
}

// PeekNext returns the character after the current one.
func (c *Cursor) PeekNext() (r rune, ok bool) {
	if c.Done() {
		return 0, false
	}
	_, size := utf8.DecodeRuneInString(c.text[c.pos:])
	if c.pos+size >= len(c.text) {
		return 0, false
	}
	r, _ = utf8.DecodeRuneInString(c.text[c.pos+size:])
	return r, true
}

// Raw returns the undecoded bytes of the current character. Invalid UTF-8 is
// returned as the single offending byte so it survives the scan unchanged.
func (c *Cursor) Raw() string {
	if c.Done() {
		return ""
	}
	_, size := utf8.DecodeRuneInString(c.text[c.pos:])
	return c.text[c.pos : c.pos+size]
}

// Advance moves forward n characters, stopping at end of input.
func (c *Cursor) Advance(n int) {
	for ; n > 0 && !c.Done(); n-- {
		_, size := utf8.DecodeRuneInString(c.text[c.pos:])
		c.pos += size
	}
}
