package execctx

import "github.com/dshills/qemacs/internal/input/key"

// ModalStatus tells the dispatcher what to do after a modal consumed a key.
type ModalStatus uint8

const (
	// ModalContinue keeps the modal on top.
	ModalContinue ModalStatus = iota
	// ModalDone pops the modal; the key is consumed.
	ModalDone
	// ModalRepost pops the modal and processes the key again.
	ModalRepost
)

// String returns the status name.
func (s ModalStatus) String() string {
	switch s {
	case ModalContinue:
		return "continue"
	case ModalDone:
		return "done"
	case ModalRepost:
		return "repost"
	default:
		return "unknown"
	}
}

// Modal is a nested key-driven state machine such as the minibuffer,
// incremental search or query replace.
type Modal interface {
	HandleKey(ev key.Event) ModalStatus

	// Prompt is the echo area text while the modal is active.
	Prompt() string
}

// ModalFunc adapts a function to a Modal with a fixed prompt.
type ModalFunc struct {
	Text string
	Fn   func(ev key.Event) ModalStatus
}

// HandleKey implements Modal.
func (m ModalFunc) HandleKey(ev key.Event) ModalStatus { return m.Fn(ev) }

// Prompt implements Modal.
func (m ModalFunc) Prompt() string { return m.Text }
