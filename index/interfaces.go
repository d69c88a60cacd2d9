package index

import "context"

// Client talks to the remote document index.
// Implementations must be thread-safe for concurrent use; upload submission
// must not block past handing back the operation handle.
type Client interface {
	// CreateStore creates a new file search store. displayName may be empty.
	CreateStore(ctx context.Context, displayName string) (*Store, error)

	// ListStores returns all stores in the project.
	ListStores(ctx context.Context) ([]*Store, error)

	// GetStore retrieves a single store by resource name.
	GetStore(ctx context.Context, name string) (*Store, error)

	// DeleteStore removes a store. With force set, documents inside the
	// store are deleted as well.
	DeleteStore(ctx context.Context, name string, force bool) error

	// ListDocuments returns the documents inside a store.
	ListDocuments(ctx context.Context, storeName string) ([]*Document, error)

	// GetDocument retrieves a single document by resource name.
	GetDocument(ctx context.Context, name string) (*Document, error)

	// DeleteDocument removes a document from its store.
	DeleteDocument(ctx context.Context, name string, force bool) error

	// UploadToStore submits a file for upload and indexing and returns the
	// operation handle for the long-running remote action. Each call opens
	// a fresh upload session; handles from earlier attempts are never valid
	// for reuse.
	UploadToStore(ctx context.Context, storeName, filePath string, cfg *UploadConfig) (*Operation, error)

	// PollOperation fetches the current state of a long-running operation.
	PollOperation(ctx context.Context, op *Operation) (*Operation, error)
}
