package isearch

// Kind identifies an input event.
type Kind int

const (
	// Char appends Event.Rune to the needle.
	Char Kind = iota
	Backspace
	RepeatForward
	RepeatBackward
	YankWord
	YankLine
	YankClipboard
	ToggleCase
	ToggleWord
	ToggleRegex
	ToggleHex
	LiteralNext
	Cancel
	// Commit ends the search and asks for the key to be re-posted.
	Commit
	// Finish ends the search and consumes the key.
	Finish
)

// Event is one input to a Search.
type Event struct {
	Kind Kind
	Rune rune
}

// Key builds a Char event.
func Key(r rune) Event { return Event{Kind: Char, Rune: r} }

// Do builds a control event.
func Do(k Kind) Event { return Event{Kind: k} }
