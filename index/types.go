package index

import (
	"strings"
	"time"
)

// StorePrefix is the resource-name prefix for file search stores.
const StorePrefix = "fileSearchStores/"

// NormalizeStoreName ensures a store reference carries the full resource
// prefix, so users can pass either "abc123" or "fileSearchStores/abc123".
func NormalizeStoreName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	if !strings.HasPrefix(name, StorePrefix) {
		return StorePrefix + name
	}
	return name
}

// Store is a remote container documents are uploaded into.
type Store struct {
	Name            string
	DisplayName     string
	CreateTime      time.Time
	UpdateTime      time.Time
	UsageBytes       int64
	ActiveDocuments  int64
	PendingDocuments int64
	FailedDocuments  int64
}

// Document is a single indexed entry inside a store.
type Document struct {
	Name           string
	DisplayName    string
	MimeType       string
	SizeBytes      int64
	State          string
	CreateTime     time.Time
	UpdateTime     time.Time
	CustomMetadata []CustomMetadata
}

// CustomMetadata is one key/value annotation attached to a document.
// Exactly one of the value fields is set.
type CustomMetadata struct {
	Key             string
	StringValue     string
	NumericValue    float64
	StringListValue []string
}

// MaxTokensPerChunkLimit is the largest chunk size the service accepts.
const MaxTokensPerChunkLimit = 512

// ChunkingConfig controls how the service splits a document for indexing.
type ChunkingConfig struct {
	MaxTokensPerChunk int
	MaxOverlapTokens  int
}

// Normalize clamps chunk sizing to the range the service accepts. The token
// count is forced into [1, MaxTokensPerChunkLimit] and the overlap is kept
// within a quarter of the chunk size.
func (c *ChunkingConfig) Normalize() {
	if c.MaxTokensPerChunk < 1 {
		c.MaxTokensPerChunk = 1
	} else if c.MaxTokensPerChunk > MaxTokensPerChunkLimit {
		c.MaxTokensPerChunk = MaxTokensPerChunkLimit
	}
	if c.MaxOverlapTokens < 0 {
		c.MaxOverlapTokens = 0
	}
	if limit := c.MaxTokensPerChunk / 4; c.MaxOverlapTokens > limit {
		c.MaxOverlapTokens = limit
	}
}

// UploadConfig carries per-upload options.
type UploadConfig struct {
	DisplayName    string
	Chunking       *ChunkingConfig
	CustomMetadata []CustomMetadata
}

// Operation is an opaque handle to a long-running remote action
// (upload plus indexing). Error is the service's error message verbatim;
// callers classify it by substring matching only.
type Operation struct {
	Name  string
	Done  bool
	Error string
}
