// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation limits for domain types.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 4000
	MaxTextLength        = 8000
	MaxExitLabelLength   = 32

	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateName checks that a name is valid.
// Names must be non-empty, valid UTF-8, free of control characters and within length limit.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if !utf8.ValidString(name) {
		return &ValidationError{Field: "name", Message: "must be valid UTF-8"}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("exceeds maximum length of %d", MaxNameLength)}
	}
	if hasControlChars(name) {
		return &ValidationError{Field: "name", Message: "cannot contain control characters"}
	}
	return nil
}

// ValidateDescription checks that a description is valid. Empty descriptions are allowed.
func ValidateDescription(desc string) error {
	return validateLongText("description", desc, MaxDescriptionLength)
}

// ValidateText checks the writeable text of an object.
func ValidateText(text string) error {
	return validateLongText("text", text, MaxTextLength)
}

func validateLongText(field, s string, limit int) error {
	if s == "" {
		return nil
	}
	if !utf8.ValidString(s) {
		return &ValidationError{Field: field, Message: "must be valid UTF-8"}
	}
	if len(s) > limit {
		return &ValidationError{Field: field, Message: fmt.Sprintf("exceeds maximum length of %d", limit)}
	}
	if hasControlCharsExceptWhitespace(s) {
		return &ValidationError{Field: field, Message: "cannot contain control characters (except newline/tab)"}
	}
	return nil
}

// ValidateExitLabel checks that an exit label is a single lower-case word.
func ValidateExitLabel(label string) error {
	if label == "" {
		return &ValidationError{Field: "exit", Message: "cannot be empty"}
	}
	if len(label) > MaxExitLabelLength {
		return &ValidationError{Field: "exit", Message: fmt.Sprintf("exceeds maximum length of %d", MaxExitLabelLength)}
	}
	for _, r := range label {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return &ValidationError{Field: "exit", Message: "must be a single word"}
		}
	}
	if label != strings.ToLower(label) {
		return &ValidationError{Field: "exit", Message: "must be lower case"}
	}
	return nil
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidateUsername checks that a username is 3-30 characters, starts with a
// letter and contains only letters, digits and underscores.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return &ValidationError{Field: "username", Message: fmt.Sprintf("must be at least %d characters", MinUsernameLength)}
	}
	if len(username) > MaxUsernameLength {
		return &ValidationError{Field: "username", Message: fmt.Sprintf("must be at most %d characters", MaxUsernameLength)}
	}
	if !usernameRegex.MatchString(username) {
		return &ValidationError{Field: "username", Message: "must start with a letter and contain only letters, digits and underscores"}
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// hasControlCharsExceptWhitespace returns true if the string contains control characters
// other than newline, carriage return, and tab.
func hasControlCharsExceptWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return true
		}
	}
	return false
}
