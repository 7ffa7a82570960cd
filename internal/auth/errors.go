// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package auth

import (
	"time"

	"github.com/samber/oops"

	"github.com/lanternmush/lantern/pkg/errutil"
)

// Error codes returned by the auth package.
const (
	CodeEmptyPassword      = "AUTH_EMPTY_PASSWORD"
	CodeWeakPassword       = "AUTH_WEAK_PASSWORD"
	CodeInvalidHash        = "AUTH_INVALID_HASH"
	CodeInvalidUsername    = "AUTH_INVALID_USERNAME"
	CodeUsernameTaken      = "AUTH_USERNAME_TAKEN"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeAccountLocked      = "AUTH_ACCOUNT_LOCKED"
	CodeLoginFailed        = "AUTH_LOGIN_FAILED"
	CodeRegisterFailed     = "AUTH_REGISTER_FAILED"
)

var messages = map[string]string{
	CodeEmptyPassword:      "A password is required.",
	CodeWeakPassword:       "That password is too short.",
	CodeInvalidUsername:    "Usernames are 3 to 30 letters, digits or underscores and start with a letter.",
	CodeUsernameTaken:      "That name is already taken.",
	CodeInvalidCredentials: "Invalid username or password.",
	CodeAccountLocked:      "Too many failed attempts. Try again later.",
}

// Message returns the text to show a connecting user for err. Errors with
// no user-facing meaning get a generic message.
func Message(err error) string {
	if msg, ok := messages[errutil.Code(err)]; ok {
		return msg
	}
	return "Something went wrong. Please try again."
}

// RetryDelay returns how long to hold back the reply to a failed login, or
// zero when err carries no delay.
func RetryDelay(err error) time.Duration {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return 0
	}
	d, _ := oopsErr.Context()["delay"].(time.Duration)
	return d
}
