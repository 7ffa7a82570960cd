// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import "strings"

// CanModify reports whether username may rename, describe or recycle an
// entity created by creator. Unowned entities (nil creator) are open to
// everyone. Usernames are unique case-insensitively, so the comparison is too.
func CanModify(creator *string, username string) bool {
	if creator == nil {
		return true
	}
	return strings.EqualFold(*creator, username)
}

// CreatorOf returns a creator reference for username.
func CreatorOf(username string) *string {
	return &username
}
