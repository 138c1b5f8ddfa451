// Package cursor provides handlers for point motion.
//
// Motions take the numeric argument as a repeat count. Moving into either
// end of the buffer reports "Beginning of buffer" or "End of buffer" and
// leaves the point there.
package cursor

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/input"
	"github.com/dshills/qemacs/internal/renderer/window"
)

// Action names for point motion.
const (
	ActionForwardChar  = "cursor.forwardChar"
	ActionBackwardChar = "cursor.backwardChar"
	ActionNextLine     = "cursor.nextLine"
	ActionPreviousLine = "cursor.previousLine"
	ActionLineBegin    = "cursor.lineBegin"
	ActionLineEnd      = "cursor.lineEnd"
	ActionWordForward  = "cursor.wordForward"
	ActionWordBackward = "cursor.wordBackward"
	ActionBufferBegin  = "cursor.bufferBegin"
	ActionBufferEnd    = "cursor.bufferEnd"
	ActionGotoLine     = "cursor.gotoLine"
)

var actions = []string{
	ActionBackwardChar, ActionBufferBegin, ActionBufferEnd, ActionForwardChar,
	ActionGotoLine, ActionLineBegin, ActionLineEnd, ActionNextLine,
	ActionPreviousLine, ActionWordBackward, ActionWordForward,
}

// Messages shown at the buffer edges.
const (
	msgBeginning = "Beginning of buffer"
	msgEnd       = "End of buffer"
)

// Handler implements namespace-based point motion.
type Handler struct{}

// NewHandler creates a new cursor handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the cursor namespace.
func (h *Handler) Namespace() string {
	return "cursor"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	return slices.Contains(actions, actionName)
}

// Actions lists the handled actions.
func (h *Handler) Actions() []string {
	return slices.Clone(actions)
}

// HandleAction processes a cursor action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	w := ctx.Window
	count := ctx.GetCount()

	switch action.Name {
	case ActionForwardChar:
		return edge(w, msgEnd, func() { w.MoveChar(count) })
	case ActionBackwardChar:
		return edge(w, msgBeginning, func() { w.MoveChar(-count) })
	case ActionNextLine:
		return edge(w, msgEnd, func() { w.MoveLine(count) })
	case ActionPreviousLine:
		return edge(w, msgBeginning, func() { w.MoveLine(-count) })
	case ActionLineBegin:
		w.LineBegin()
	case ActionLineEnd:
		w.LineEnd()
	case ActionWordForward:
		return edge(w, msgEnd, func() { repeat(count, w.WordForward) })
	case ActionWordBackward:
		return edge(w, msgBeginning, func() { repeat(count, w.WordBackward) })
	case ActionBufferBegin:
		w.SetMark(w.Point())
		w.BufferBegin()
		return handler.SuccessWithMessage("Mark set")
	case ActionBufferEnd:
		w.SetMark(w.Point())
		w.BufferEnd()
		return handler.SuccessWithMessage("Mark set")
	case ActionGotoLine:
		return h.gotoLine(action, ctx)
	default:
		return handler.Errorf("unknown cursor action: %s", action.Name)
	}
	return handler.Success()
}

// gotoLine moves to a 1-based line taken from the numeric argument, the
// action text, or the minibuffer.
func (h *Handler) gotoLine(action input.Action, ctx *execctx.Context) handler.Result {
	if ctx.Raw {
		GotoLine(ctx.Window, ctx.Count)
		return handler.Success()
	}
	if action.Args.Text != "" {
		n, err := parseLine(action.Args.Text)
		if err != nil {
			return handler.Error(err)
		}
		GotoLine(ctx.Window, n)
		return handler.Success()
	}
	w := ctx.Window
	ctx.Editor.Prompt("Goto line: ", "", nil, func(s string) error {
		n, err := parseLine(s)
		if err != nil {
			return err
		}
		GotoLine(w, n)
		return nil
	})
	return handler.Success()
}

// GotoLine moves the point to the start of 1-based line n, clamped to
// the buffer.
func GotoLine(w *window.Window, n int) {
	b := w.Buffer()
	line := max(0, min(n-1, b.LineCount()-1))
	w.SetPoint(b.LineStart(line))
}

type lineError string

func (e lineError) Error() string { return "Invalid line number: " + string(e) }

func parseLine(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, lineError(s)
	}
	return n, nil
}

// edge runs move and reports msg when the point did not change.
func edge(w *window.Window, msg string, move func()) handler.Result {
	before := w.Point()
	move()
	if w.Point() == before {
		return handler.NoOpWithMessage(msg)
	}
	return handler.Success()
}

func repeat(n int, fn func()) {
	for i := 0; i < n; i++ {
		fn()
	}
}
