package metadata

import "errors"

var (
	// ErrHostRequired is returned when the extraction service host is empty.
	ErrHostRequired = errors.New("extraction service host is required")

	// ErrModelRequired is returned when the extraction model is empty.
	ErrModelRequired = errors.New("extraction model is required")
)

// Config holds configuration for the AI content extractor.
type Config struct {
	// Host is the base URL for an OpenAI-compatible chat API.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// Model is the model identifier used for keyword and title extraction.
	Model string

	// MaxContentBytes bounds how much of a file is sent to the model.
	MaxContentBytes int

	// MaxKeywords bounds the keyword list attached to a document.
	MaxKeywords int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat API host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the extraction model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithMaxContentBytes sets the content size cap sent to the model.
func WithMaxContentBytes(n int) ConfigOption {
	return func(c *Config) {
		c.MaxContentBytes = n
	}
}

// WithMaxKeywords sets the keyword list cap.
func WithMaxKeywords(n int) ConfigOption {
	return func(c *Config) {
		c.MaxKeywords = n
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:            "http://localhost:11434/v1",
		Model:           "qwen2.5:3b",
		MaxContentBytes: 16 * 1024,
		MaxKeywords:     10,
	}
}

// NewConfig creates a Config with default values and applies the provided
// options.
func NewConfig(opts ...ConfigOption) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Host == "" {
		return ErrHostRequired
	}
	if c.Model == "" {
		return ErrModelRequired
	}
	if c.MaxContentBytes <= 0 {
		c.MaxContentBytes = DefaultConfig().MaxContentBytes
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = DefaultConfig().MaxKeywords
	}
	return nil
}
