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


package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/poiesic/docindex/index"
)

// Client implements index.Client over the File Search REST API.
type Client struct {
	config *index.Config

	// getClient serves idempotent requests and retries transport failures.
	// submitClient serves uploads and mutations; it never retries and has
	// no overall timeout since large uploads are bounded by ctx instead.
	getClient    *http.Client
	submitClient *http.Client

	logger *slog.Logger
}

var _ index.Client = (*Client)(nil)

// NewClient creates a REST client for the remote index.
// The config is validated and normalized before use.
//
// Returns index.Client interface (not *Client) to enforce abstraction.
func NewClient(config *index.Config) (index.Client, error) {
	return newClient(config)
}

// newClient is the internal constructor returning the concrete type.
func newClient(config *index.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = config.RequestTimeout

	return &Client{
		config:       config,
		getClient:    rc.StandardClient(),
		submitClient: &http.Client{},
		logger:       slog.Default().With("component", "genai-client"),
	}, nil
}

// url joins the configured endpoint, API version and a resource path.
func (c *Client) url(resource string) string {
	return fmt.Sprintf("%s/%s/%s", c.config.BaseURL, c.config.APIVersion, resource)
}

// uploadURL joins the media-upload endpoint and a resource path.
func (c *Client) uploadURL(resource string) string {
	return fmt.Sprintf("%s/upload/%s/%s", c.config.BaseURL, c.config.APIVersion, resource)
}

// doJSON performs a request and decodes the JSON response into out
// (which may be nil for calls with no interesting body).
func (c *Client) doJSON(ctx context.Context, httpClient *http.Client, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// apiErrorBody mirrors the service's error envelope.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// apiError converts a non-2xx response into an error whose message keeps the
// service's status token and text intact. Retryability classification
// upstream works on these substrings, so nothing is rewritten here.
func apiError(statusCode int, body []byte) error {
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		if envelope.Error.Status != "" {
			return fmt.Errorf("%s: %s", envelope.Error.Status, envelope.Error.Message)
		}
		return fmt.Errorf("%d: %s", statusCode, envelope.Error.Message)
	}
	return fmt.Errorf("%d %s: %s", statusCode, http.StatusText(statusCode), string(body))
}

// parseInt64 parses the API's string-encoded 64-bit integers.
func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseTime parses the API's RFC 3339 timestamps.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
