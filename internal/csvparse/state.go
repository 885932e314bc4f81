package csvparse

// State is the tokenizer mode for the character being scanned.
type State int

const (
	// Unquoted is the initial mode of every cell.
	Unquoted State = iota
	// Quoted is entered on an opening double quote; delimiters and line
	// breaks are literal until the closing quote.
	Quoted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unquoted:
		return "Unquoted"
	case Quoted:
		return "Quoted"
	default:
		return "State(?)"
	}
}

// ActionKind identifies the side effect of a transition.
type ActionKind int

const (
	// ActNone consumes input without touching the cell (quote toggles).
	ActNone ActionKind = iota
	// ActAppend appends Action.Char to the current cell.
	ActAppend
	// ActEndCell finalizes the current cell and starts a new one.
	ActEndCell
	// ActEndRow finalizes the current cell, then the current row.
	ActEndRow
)

// Action is the side effect produced by [Step].
type Action struct {
	Kind ActionKind
	Char rune
}

const (
	quote     = '"'
	delimiter = ','
	lf        = '\n'
	cr        = '\r'
)

// Step is the transition function of the tokenizer. Given the current state,
// the character under the cursor, and one character of lookahead (hasNext is
// false at end of input), it returns the next state, the action to apply and
// how many characters were consumed (1 or 2).
//
// Step is pure; the caller owns the cell and row buffers.
func Step(s State, ch, next rune, hasNext bool) (State, Action, int) {
	if s == Quoted {
		if ch == quote {
			if hasNext && next == quote {
				return Quoted, Action{Kind: ActAppend, Char: quote}, 2
			}
			return Unquoted, Action{Kind: ActNone}, 1
		}
		return Quoted, Action{Kind: ActAppend, Char: ch}, 1
	}

	switch ch {
	case quote:
		return Quoted, Action{Kind: ActNone}, 1
	case delimiter:
		return Unquoted, Action{Kind: ActEndCell}, 1
	case lf:
		return Unquoted, Action{Kind: ActEndRow}, 1
	case cr:
		// CRLF is one terminator; a lone CR terminates by itself.
		if hasNext && next == lf {
			return Unquoted, Action{Kind: ActEndRow}, 2
		}
		return Unquoted, Action{Kind: ActEndRow}, 1
	default:
		return Unquoted, Action{Kind: ActAppend, Char: ch}, 1
	}
}
