// Package file provides handlers for visiting and saving files and for
// changing how a buffer's bytes are interpreted.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dshills/qemacs/internal/dispatcher/execctx"
	"github.com/dshills/qemacs/internal/dispatcher/handler"
	"github.com/dshills/qemacs/internal/dispatcher/minibuffer"
	"github.com/dshills/qemacs/internal/engine/charset"
	"github.com/dshills/qemacs/internal/input"
)

// Action names for file operations.
const (
	ActionSave           = "file.save"           // C-x C-s
	ActionWriteFile      = "file.writeFile"      // C-x C-w
	ActionFindFile       = "file.findFile"       // C-x C-f
	ActionSetCharset     = "file.setCharset"     // C-x RET f
	ActionSetEOL         = "file.setEOL"         // C-x RET e
	ActionToggleReadOnly = "file.toggleReadOnly" // C-x C-q
)

var actions = []string{
	ActionFindFile, ActionSave, ActionSetCharset, ActionSetEOL,
	ActionToggleReadOnly, ActionWriteFile,
}

// Handler implements namespace-based file handling.
type Handler struct{}

// NewHandler creates a new file handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the file namespace.
func (h *Handler) Namespace() string {
	return "file"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	return slices.Contains(actions, actionName)
}

// Actions lists the handled actions.
func (h *Handler) Actions() []string {
	return slices.Clone(actions)
}

// HandleAction processes a file action. Actions that need a name prompt
// for it unless the action carries one in Args.Text.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.Context) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionSave:
		return h.save(action, ctx)
	case ActionWriteFile:
		return ask(action, ctx, "Write file: ", dirOf(ctx), CompletePath, func(path string) error {
			return write(ctx, path)
		})
	case ActionFindFile:
		return ask(action, ctx, "Find file: ", dirOf(ctx), CompletePath, func(path string) error {
			if path == "" {
				return nil
			}
			return ctx.Editor.OpenFile(path)
		})
	case ActionSetCharset:
		return ask(action, ctx, "Charset: ", "", minibuffer.Prefix(charset.Names), func(name string) error {
			cs, ok := charset.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown charset %q", name)
			}
			ctx.Buffer.SetCharset(cs)
			ctx.Editor.Message("Charset is now %s", cs.Name())
			return nil
		})
	case ActionSetEOL:
		return ask(action, ctx, "EOL type (unix, dos, mac): ", "", eolNames, func(name string) error {
			eol, ok := charset.ParseEOL(name)
			if !ok {
				return fmt.Errorf("unknown EOL type %q", name)
			}
			ctx.Buffer.SetEOL(eol)
			ctx.Editor.Message("EOL type is now %s", eol)
			return nil
		})
	case ActionToggleReadOnly:
		b := ctx.Buffer
		b.SetReadOnly(!b.ReadOnly())
		if b.ReadOnly() {
			return handler.SuccessWithMessage("Read-only mode enabled")
		}
		return handler.SuccessWithMessage("Read-only mode disabled")
	default:
		return handler.Errorf("unknown file action: %s", action.Name)
	}
}

// save writes the buffer to its file, prompting for a name when it has
// none.
func (h *Handler) save(action input.Action, ctx *execctx.Context) handler.Result {
	b := ctx.Buffer
	if b.Filename() == "" {
		return ask(action, ctx, "File to save in: ", dirOf(ctx), CompletePath, func(path string) error {
			return write(ctx, path)
		})
	}
	if !b.Modified() {
		return handler.NoOpWithMessage("(No changes need to be saved)")
	}
	if err := ctx.Editor.SaveBuffer(b, ""); err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage("Wrote " + b.Filename())
}

func write(ctx *execctx.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := ctx.Editor.SaveBuffer(ctx.Buffer, path); err != nil {
		return err
	}
	ctx.Editor.Message("Wrote %s", path)
	return nil
}

// ask runs done on Args.Text when the action carries it and otherwise
// reads the value in the minibuffer.
func ask(action input.Action, ctx *execctx.Context, prompt, initial string, complete execctx.Completer, done func(string) error) handler.Result {
	if action.Args.Text != "" {
		if err := done(action.Args.Text); err != nil {
			return handler.Error(err)
		}
		return handler.Success()
	}
	ctx.Editor.Prompt(prompt, initial, complete, done)
	return handler.Success()
}

// dirOf returns the directory of the buffer's file with a trailing
// separator, the starting point for file name prompts.
func dirOf(ctx *execctx.Context) string {
	name := ctx.Buffer.Filename()
	if name == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd + string(filepath.Separator)
		}
		return ""
	}
	return filepath.Dir(name) + string(filepath.Separator)
}

func eolNames(in string) []string {
	var out []string
	for _, n := range []string{"dos", "mac", "unix"} {
		if strings.HasPrefix(n, in) {
			out = append(out, n)
		}
	}
	return out
}

// CompletePath completes a file name against the directory it names.
// Directories are returned with a trailing separator.
func CompletePath(in string) []string {
	dir, base := filepath.Split(in)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), base) {
			continue
		}
		name := dir + e.Name()
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		out = append(out, name)
	}
	return out
}
