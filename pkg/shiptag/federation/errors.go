// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package federation

import "fmt"

// ConfigError signals malformed or missing operator input. Fatal, never retried.
type ConfigError struct {
	Msg string
}

func (e ConfigError) Error() string { return e.Msg }

// AuthError signals that the federation provider rejected the exchange.
// Fatal, never retried. The message must never carry the assertion or any
// token material.
type AuthError struct {
	Msg string
}

func (e AuthError) Error() string { return e.Msg }

func configErrorf(msg string, args ...interface{}) ConfigError {
	return ConfigError{Msg: fmt.Sprintf(msg, args...)}
}

func authErrorf(msg string, args ...interface{}) AuthError {
	return AuthError{Msg: fmt.Sprintf(msg, args...)}
}
