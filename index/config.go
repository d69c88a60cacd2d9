// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"strings"
	"time"
)

// Config holds configuration for the remote index client.
type Config struct {
	// APIKey authenticates requests against the service.
	APIKey string

	// BaseURL is the service endpoint.
	// Default: "https://generativelanguage.googleapis.com"
	BaseURL string

	// APIVersion selects the REST API version path segment.
	// Default: "v1beta"
	APIVersion string

	// RequestTimeout bounds a single HTTP round trip. This is distinct from
	// the upload poll timeout, which the caller controls per batch.
	// Default: 60s
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets the service endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIVersion sets the REST API version path segment.
func WithAPIVersion(version string) ConfigOption {
	return func(c *Config) {
		c.APIVersion = version
	}
}

// WithRequestTimeout sets the per-request HTTP timeout.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// DefaultConfig returns a Config with production endpoint defaults.
// The API key has no default and must be supplied by the caller.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://generativelanguage.googleapis.com",
		APIVersion:     "v1beta",
		RequestTimeout: 60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := index.NewConfig(index.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	c.APIVersion = strings.Trim(strings.TrimSpace(c.APIVersion), "/")
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIKey == "" {
		return ErrAPIKeyRequired
	}
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if c.APIVersion == "" {
		return ErrAPIVersionRequired
	}
	return nil
}
