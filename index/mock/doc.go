// Package mock provides a test double for the index.Client interface.
//
// Behavior is injected through function fields; any field left nil falls
// back to a benign default (uploads succeed immediately). The mock counts
// calls so tests can assert on attempt behavior.
package mock
