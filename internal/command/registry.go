// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"sort"
	"strings"

	"github.com/samber/oops"
)

// BuildFunc turns argument text into a command, binding names with b.
type BuildFunc func(b *Binder, args string) ParseResult

// Definition describes one command verb and its aliases.
type Definition struct {
	Name    string   // canonical verb (e.g., "take")
	Aliases []string // other exact verbs (e.g., "get")
	Usage   string   // usage pattern (e.g., "take <object>")
	Help    string   // short description (one line)
	Source  string   // "core" for built-ins
	Build   BuildFunc
}

// Verbs returns the canonical verb followed by its aliases.
func (d *Definition) Verbs() []string {
	return append([]string{d.Name}, d.Aliases...)
}

// Registry maps exact verb strings to definitions.
//
// Registry is not safe for concurrent registration; populate it before the
// game loop starts.
type Registry struct {
	byVerb map[string]*Definition
	defs   []*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byVerb: make(map[string]*Definition)}
}

// Register adds a definition. A verb may belong to only one definition.
func (r *Registry) Register(def Definition) error {
	if def.Build == nil {
		return oops.Code(CodeInvalidArgs).With("command", def.Name).Errorf("definition has no build function")
	}
	verbs := def.Verbs()
	for _, v := range verbs {
		v = strings.ToLower(v)
		if v == "" {
			return oops.Code(CodeInvalidArgs).With("command", def.Name).Errorf("empty verb")
		}
		if existing, ok := r.byVerb[v]; ok {
			return oops.Code(CodeDuplicateVerb).
				With("verb", v).
				With("existing", existing.Name).
				With("command", def.Name).
				Errorf("verb already registered")
		}
	}
	d := def
	if d.Source == "" {
		d.Source = "core"
	}
	for _, v := range verbs {
		r.byVerb[strings.ToLower(v)] = &d
	}
	r.defs = append(r.defs, &d)
	return nil
}

// Get returns the definition registered for verb.
func (r *Registry) Get(verb string) (*Definition, bool) {
	d, ok := r.byVerb[strings.ToLower(verb)]
	return d, ok
}

// Definitions returns all definitions ordered by name.
func (r *Registry) Definitions() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
