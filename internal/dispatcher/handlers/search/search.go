// Package search provides the incremental search and query-replace
// commands. Both run as modals that translate keys into the inputs of the
// isearch and replace state machines.
package search

import (
	"fmt"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/isearch"
	"github.com/dshills/qemacs/internal/dispatcher/handlers/replace"
	textsearch "github.com/dshills/qemacs/internal/engine/search"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for search operations.
const (
	ActionISearchForward  = "search.isearchForward"  // C-s
	ActionISearchBackward = "search.isearchBackward" // C-r
	ActionQueryReplace    = "search.queryReplace"    // M-%
	ActionReplaceString   = "search.replaceString"
)

// Handler handles search actions.
type Handler struct {
	*handler.BaseNamespaceHandler

	// The last query-replace, offered as the default.
	lastFrom, lastTo string
}

// NewHandler creates a search handler.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("search")}
	h.Register(ActionISearchForward, func(_ input.Action, ctx *execctx.Context) handler.Result {
		return startISearch(ctx, textsearch.Forward)
	})
	h.Register(ActionISearchBackward, func(_ input.Action, ctx *execctx.Context) handler.Result {
		return startISearch(ctx, textsearch.Backward)
	})
	h.Register(ActionQueryReplace, h.queryReplace)
	h.Register(ActionReplaceString, h.replaceString)
	return h
}

func startISearch(ctx *execctx.Context, dir textsearch.Direction) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	ed := ctx.Editor
	s := isearch.New(ctx.Window, dir,
		isearch.WithLast(ed.LastSearch()),
		isearch.WithFlags(ed.SearchFlags()),
		isearch.WithClipboard(ed.Clipboard()),
		isearch.WithAbort(ed.Abort),
		isearch.WithPollInterval(ed.AbortPollBytes()),
		isearch.WithLogger(ctx.Logger),
	)
	ed.PushModal(&isearchModal{search: s, editor: ed})
	return handler.Success()
}

// queryReplace reads the string to replace and its replacement, then
// asks about every match from the point on. An empty answer to the first
// question repeats the previous replace.
func (h *Handler) queryReplace(_ input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	ed := ctx.Editor
	prompt := "Query replace: "
	if h.lastFrom != "" {
		prompt = fmt.Sprintf("Query replace (default %s -> %s): ", h.lastFrom, h.lastTo)
	}
	ed.Prompt(prompt, "", nil, func(from string) error {
		if from == "" {
			if h.lastFrom == "" {
				return nil
			}
			return h.startReplace(ctx, h.lastFrom, h.lastTo)
		}
		ed.Prompt("Query replace "+from+" with: ", "", nil, func(to string) error {
			return h.startReplace(ctx, from, to)
		})
		return nil
	})
	return handler.Success()
}

func (h *Handler) startReplace(ctx *execctx.Context, from, to string) error {
	h.lastFrom, h.lastTo = from, to
	r, err := newReplace(ctx, from, to)
	if err != nil {
		return err
	}
	if r.State() == replace.Done {
		ctx.Editor.Message("%s", r.Report())
		return nil
	}
	ctx.Editor.PushModal(&replaceModal{replace: r, editor: ctx.Editor})
	return nil
}

// replaceString replaces every match from the point without asking. The
// strings come from Args "from" and "to".
func (h *Handler) replaceString(action input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}
	from, to := action.Args.GetString("from"), action.Args.GetString("to")
	if from == "" {
		return handler.Errorf("%s needs a non-empty from argument", ActionReplaceString)
	}
	r, err := newReplace(ctx, from, to)
	if err != nil {
		return handler.Error(err)
	}
	r.Handle(replace.All)
	if err := r.Err(); err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage(r.Report()).WithData("count", r.Count())
}

func newReplace(ctx *execctx.Context, from, to string) (*replace.Replace, error) {
	ed := ctx.Editor
	return replace.New(ctx.Window, []rune(from), to,
		replace.WithFlags(ed.SearchFlags()),
		replace.WithAbort(ed.Abort),
		replace.WithPollInterval(ed.AbortPollBytes()),
		replace.WithLogger(ctx.Logger),
	)
}
