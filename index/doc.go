// Package index defines the client abstraction for a remote document index
// ("File Search Store" service).
//
// The package holds the Client interface, the store/document/operation types
// exchanged with the service, and the client configuration. Concrete
// implementations live in subpackages: genai (REST) and mock (test double).
// Uploads are long-running remote actions: the client submits them and hands
// back an Operation handle that callers poll until it reports completion.
package index
