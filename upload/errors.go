package upload

import "errors"

var (
	// ErrClientRequired is returned when an index client is not provided.
	ErrClientRequired = errors.New("index client required")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("concurrency must be greater than 0")

	// ErrInvalidMaxRetries is returned when the retry budget is negative.
	ErrInvalidMaxRetries = errors.New("maxRetries must not be negative")

	// ErrInvalidDelay is returned when a backoff or poll interval is not positive.
	ErrInvalidDelay = errors.New("delay must be greater than 0")

	// errPollFailed wraps errors from polling the remote operation.
	// Poll failures are always classified as transient.
	errPollFailed = errors.New("error checking operation status")
)
