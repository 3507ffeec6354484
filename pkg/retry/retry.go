/*
Copyright 2025 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


// Package retry repeats failing operations with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultAttempts is the default number of attempts, including the first
	DefaultAttempts = 3
	// DefaultInitialDelay is the wait before the second attempt
	DefaultInitialDelay = 500 * time.Millisecond
	// DefaultMaxDelay caps the wait between attempts
	DefaultMaxDelay = 10 * time.Second
	// DefaultBackoff is the exponential backoff multiplier
	DefaultBackoff = 2.0
)

// Config controls how often and how patiently an operation is retried
type Config struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Backoff      float64
	// Retryable reports whether err is worth another attempt. Nil retries
	// every error.
	Retryable func(err error) bool
}

// DefaultConfig returns the configuration used for report uploads
func DefaultConfig() Config {
	return Config{
		Attempts:     DefaultAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Backoff:      DefaultBackoff,
	}
}

// ErrAttemptsExhausted is returned, together with the last error, when every
// attempt failed.
var ErrAttemptsExhausted = errors.New("all attempts failed")

// Do calls fn until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done.
func Do(ctx context.Context, cfg Config, name string, fn func(context.Context) error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logrus.Debugf("%s succeeded on attempt %d", name, attempt)
			}
			return nil
		}
		if cfg.Retryable != nil && !cfg.Retryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.Attempts {
			break
		}

		logrus.Warnf("%s failed (attempt %d/%d), retrying in %v: %v", name, attempt, cfg.Attempts, delay, lastErr)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.Backoff)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return fmt.Errorf("%w: %s after %d attempts: %w", ErrAttemptsExhausted, name, cfg.Attempts, lastErr)
}
