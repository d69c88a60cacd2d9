// Package genai implements index.Client against the Generative Language
// File Search REST API.
//
// Idempotent calls (list, get, operation polling) go through a
// retryablehttp client so transport-level hiccups are absorbed at the HTTP
// layer; upload submissions use a plain client because retry policy for
// uploads belongs to the upload orchestrator, not the transport.
package genai
