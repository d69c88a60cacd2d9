package index

import "errors"

var (
	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("index config: APIKey is required")

	// ErrBaseURLRequired is returned when the service endpoint is empty.
	ErrBaseURLRequired = errors.New("index config: BaseURL is required")

	// ErrAPIVersionRequired is returned when the API version is empty.
	ErrAPIVersionRequired = errors.New("index config: APIVersion is required")

	// ErrStoreNameRequired is returned when an operation needs a store
	// reference and none was given.
	ErrStoreNameRequired = errors.New("store name is required")

	// ErrNilOperation is returned when polling a nil operation handle.
	ErrNilOperation = errors.New("operation handle is nil")
)
