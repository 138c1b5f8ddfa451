// Package keymap maps key sequences to action names.
//
// A Keymap is a prefix tree of key events. Looking up a partial sequence
// reports whether more keys are needed, so the key loop can accumulate
// prefixes such as C-x before dispatching.
package keymap

import (
	"fmt"
	"sort"

	"github.com/dshills/qemacs/internal/input/key"
)

// Binding is one key-to-action mapping.
type Binding struct {
	// Keys is the sequence in Emacs notation: "C-x C-s".
	Keys string
	// Action is the dispatcher action: "file.save".
	Action string
	// Description documents the binding.
	Description string
}

// Result classifies a lookup.
type Result int

const (
	// NoMatch means no binding starts with the sequence.
	NoMatch Result = iota
	// Prefix means the sequence is the start of longer bindings.
	Prefix
	// Match means the sequence is bound.
	Match
)

type node struct {
	binding  *Binding
	children map[key.Event]*node
}

// Keymap holds bindings in a prefix tree.
type Keymap struct {
	Name string
	root *node
}

// New creates an empty keymap.
func New(name string) *Keymap {
	return &Keymap{Name: name, root: &node{}}
}

// Bind adds or replaces a binding.
func (k *Keymap) Bind(keys, action string) error {
	return k.Add(Binding{Keys: keys, Action: action})
}

// Add adds or replaces a binding. A binding may not be a prefix of
// another one.
func (k *Keymap) Add(b Binding) error {
	if b.Action == "" {
		return fmt.Errorf("keymap %s: binding %q: empty action", k.Name, b.Keys)
	}
	seq, err := key.ParseSequence(b.Keys)
	if err != nil {
		return fmt.Errorf("keymap %s: binding %q: %w", k.Name, b.Keys, err)
	}
	n := k.root
	for i, e := range seq {
		if n.binding != nil {
			return fmt.Errorf("keymap %s: %q extends bound key %q", k.Name, b.Keys, seq[:i].String())
		}
		child, ok := n.children[e]
		if !ok {
			child = &node{}
			if n.children == nil {
				n.children = make(map[key.Event]*node)
			}
			n.children[e] = child
		}
		n = child
	}
	if len(n.children) > 0 {
		return fmt.Errorf("keymap %s: %q is a prefix of other bindings", k.Name, b.Keys)
	}
	b.Keys = seq.String()
	n.binding = &b
	return nil
}

// Unbind removes the binding for keys, if any.
func (k *Keymap) Unbind(keys string) bool {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return false
	}
	path := []*node{k.root}
	n := k.root
	for _, e := range seq {
		if n = n.children[e]; n == nil {
			return false
		}
		path = append(path, n)
	}
	if n.binding == nil {
		return false
	}
	n.binding = nil
	for i := len(seq) - 1; i >= 0; i-- {
		if child := path[i+1]; child.binding == nil && len(child.children) == 0 {
			delete(path[i].children, seq[i])
		}
	}
	return true
}

// Lookup finds the binding for seq.
func (k *Keymap) Lookup(seq key.Sequence) (Binding, Result) {
	n := k.root
	for _, e := range seq {
		if n = n.children[e]; n == nil {
			return Binding{}, NoMatch
		}
	}
	switch {
	case n.binding != nil:
		return *n.binding, Match
	case len(n.children) > 0 && len(seq) > 0:
		return Binding{}, Prefix
	}
	return Binding{}, NoMatch
}

// Bindings returns every binding sorted by key sequence.
func (k *Keymap) Bindings() []Binding {
	var out []Binding
	var walk func(n *node)
	walk = func(n *node) {
		if n.binding != nil {
			out = append(out, *n.binding)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(k.root)
	sort.Slice(out, func(i, j int) bool { return out[i].Keys < out[j].Keys })
	return out
}

// Merge copies every binding of other into k, replacing conflicts.
func (k *Keymap) Merge(other *Keymap) error {
	for _, b := range other.Bindings() {
		k.Unbind(b.Keys)
		if err := k.Add(b); err != nil {
			return err
		}
	}
	return nil
}
