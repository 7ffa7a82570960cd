// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"sort"
	"strings"

	"github.com/samber/oops"
)

// Flags is a capability bitset on an Object.
type Flags uint32

// Object capabilities and states.
const (
	FlagPortable Flags = 1 << iota
	FlagScenery
	FlagOpenable
	FlagOpen
	FlagLockable
	FlagLocked
	FlagLightSource
	FlagLit
	FlagWriteable
)

var flagNames = map[Flags]string{
	FlagPortable:    "portable",
	FlagScenery:     "scenery",
	FlagOpenable:    "openable",
	FlagOpen:        "open",
	FlagLockable:    "lockable",
	FlagLocked:      "locked",
	FlagLightSource: "light_source",
	FlagLit:         "lit",
	FlagWriteable:   "writeable",
}

// Has reports whether every bit in f2 is set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// With returns f with the given bits set.
func (f Flags) With(f2 Flags) Flags {
	return f | f2
}

// Without returns f with the given bits cleared.
func (f Flags) Without(f2 Flags) Flags {
	return f &^ f2
}

// Names returns the sorted names of the set flags.
func (f Flags) Names() []string {
	names := make([]string, 0, len(flagNames))
	for bit, name := range flagNames {
		if f.Has(bit) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// String joins the flag names with commas.
func (f Flags) String() string {
	return strings.Join(f.Names(), ",")
}

// ParseFlags converts flag names to a bitset. Unknown names are an error.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, name := range names {
		bit, ok := flagByName(name)
		if !ok {
			return 0, oops.Code("WORLD_UNKNOWN_FLAG").With("flag", name).Errorf("unknown object flag %q", name)
		}
		f |= bit
	}
	return f, nil
}

// FlagNames returns every known flag name, sorted.
func FlagNames() []string {
	names := make([]string, 0, len(flagNames))
	for _, name := range flagNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func flagByName(name string) (Flags, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for bit, n := range flagNames {
		if n == name {
			return bit, true
		}
	}
	return 0, false
}
