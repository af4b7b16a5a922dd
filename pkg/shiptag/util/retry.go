// Copyright 2026 The Shiptag Authors.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"time"

	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
)

// NonRetryableError halts Retry immediately when returned by the wrapped func
type NonRetryableError struct {
	Message string
}

func (n NonRetryableError) Error() string {
	return n.Message
}

// Retry calls doFunc up to count times, backing off between attempts.
// Unauthorized responses from the registry are never retried: a rejected
// credential must not be replayed against the permission system.
func Retry(count int, doFunc func() error) error {
	var lastErr error

	for i := 0; i < count; i++ {
		lastErr = doFunc()
		if lastErr == nil {
			return nil
		}

		if tranErr, ok := lastErr.(*transport.Error); ok {
			if len(tranErr.Errors) > 0 {
				if tranErr.Errors[0].Code == transport.UnauthorizedErrorCode {
					return fmt.Errorf("Non-retryable error: %s", lastErr)
				}
			}
		}
		if nonRetryableError, ok := lastErr.(NonRetryableError); ok {
			return fmt.Errorf("Non-retryable error: %s", nonRetryableError)
		}

		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return fmt.Errorf("Retried %d times: %s", count, lastErr)
}
