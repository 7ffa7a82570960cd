// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"strings"
	"unicode"
)

// Slugify normalizes a display name into an identifier-safe string:
// lower case letters and digits separated by single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '\'':
			// apostrophes vanish: "Bob's Den" -> "bobs-den"
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
