package upload

import (
	"strings"
	"time"
)

// DefaultRetryablePatterns are the error substrings treated as transient.
// Matching is case-insensitive and intentionally coarse: the collaborator
// surfaces errors as strings, not structured codes. Callers may replace or
// extend the set.
var DefaultRetryablePatterns = []string{
	"already been terminated",
	"503",
	"service unavailable",
	"timeout",
	"deadline exceeded",
	"internal error",
	"temporarily unavailable",
}

// Config holds configuration for the upload orchestrator.
type Config struct {
	// MaxRetries is the per-file retry budget; a file is attempted at most
	// MaxRetries+1 times.
	MaxRetries int

	// InitialDelay is the backoff delay after the first transient failure;
	// it doubles on each subsequent failure.
	InitialDelay time.Duration

	// MaxDelay caps the computed backoff delay (before jitter).
	MaxDelay time.Duration

	// RetryablePatterns are the case-insensitive substrings that mark an
	// error as transient.
	RetryablePatterns []string

	// Concurrency is the worker pool size for a batch.
	Concurrency int

	// PollTimeout bounds how long a single attempt waits for the remote
	// operation; an expired wait fails the attempt without retry.
	PollTimeout time.Duration

	// PollInterval is the time between operation status checks.
	PollInterval time.Duration
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:        3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          32 * time.Second,
		RetryablePatterns: DefaultRetryablePatterns,
		Concurrency:       5,
		PollTimeout:       300 * time.Second,
		PollInterval:      2 * time.Second,
	}
}

// Validate checks that the configuration is usable, filling the pattern set
// with the defaults when empty.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.InitialDelay <= 0 || c.MaxDelay <= 0 || c.PollInterval <= 0 || c.PollTimeout <= 0 {
		return ErrInvalidDelay
	}
	if len(c.RetryablePatterns) == 0 {
		c.RetryablePatterns = DefaultRetryablePatterns
	}
	return nil
}

// retryable reports whether an error message matches the transient set.
func (c *Config) retryable(message string) bool {
	message = strings.ToLower(message)
	for _, pattern := range c.RetryablePatterns {
		if strings.Contains(message, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
