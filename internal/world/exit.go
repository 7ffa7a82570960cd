// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import "strings"

var directionAliases = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"u":  "up",
	"d":  "down",
}

var oppositeDirections = map[string]string{
	"north":     "south",
	"south":     "north",
	"east":      "west",
	"west":      "east",
	"northeast": "southwest",
	"southwest": "northeast",
	"northwest": "southeast",
	"southeast": "northwest",
	"up":        "down",
	"down":      "up",
	"in":        "out",
	"out":       "in",
}

// NormalizeExitLabel lower-cases a label and expands compass abbreviations
// ("n" -> "north").
func NormalizeExitLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if full, ok := directionAliases[label]; ok {
		return full
	}
	return label
}

// ReverseLabel returns the conventional return label for an exit label, or
// "" when the label is not a known direction.
func ReverseLabel(label string) string {
	return oppositeDirections[NormalizeExitLabel(label)]
}

// DirectionAliases returns the abbreviation for each compass direction.
func DirectionAliases() map[string]string {
	out := make(map[string]string, len(directionAliases))
	for short, full := range directionAliases {
		out[short] = full
	}
	return out
}
