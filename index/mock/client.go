package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/docindex/index"
)

// Client is a test double for index.Client.
// It allows custom behavior injection via function fields.
type Client struct {
	CreateStoreFunc    func(ctx context.Context, displayName string) (*index.Store, error)
	ListStoresFunc     func(ctx context.Context) ([]*index.Store, error)
	GetStoreFunc       func(ctx context.Context, name string) (*index.Store, error)
	DeleteStoreFunc    func(ctx context.Context, name string, force bool) error
	ListDocumentsFunc  func(ctx context.Context, storeName string) ([]*index.Document, error)
	GetDocumentFunc    func(ctx context.Context, name string) (*index.Document, error)
	DeleteDocumentFunc func(ctx context.Context, name string, force bool) error
	UploadToStoreFunc  func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error)
	PollOperationFunc  func(ctx context.Context, op *index.Operation) (*index.Operation, error)

	mu          sync.Mutex
	uploadCalls int
	pollCalls   int
}

var _ index.Client = (*Client)(nil)

// NewClient creates a mock client with default benign behavior.
func NewClient() *Client {
	return &Client{}
}

// UploadCalls returns how many times UploadToStore was invoked.
func (c *Client) UploadCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadCalls
}

// PollCalls returns how many times PollOperation was invoked.
func (c *Client) PollCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pollCalls
}

func (c *Client) CreateStore(ctx context.Context, displayName string) (*index.Store, error) {
	if c.CreateStoreFunc != nil {
		return c.CreateStoreFunc(ctx, displayName)
	}
	return &index.Store{Name: "fileSearchStores/mock", DisplayName: displayName}, nil
}

func (c *Client) ListStores(ctx context.Context) ([]*index.Store, error) {
	if c.ListStoresFunc != nil {
		return c.ListStoresFunc(ctx)
	}
	return nil, nil
}

func (c *Client) GetStore(ctx context.Context, name string) (*index.Store, error) {
	if c.GetStoreFunc != nil {
		return c.GetStoreFunc(ctx, name)
	}
	return &index.Store{Name: name}, nil
}

func (c *Client) DeleteStore(ctx context.Context, name string, force bool) error {
	if c.DeleteStoreFunc != nil {
		return c.DeleteStoreFunc(ctx, name, force)
	}
	return nil
}

func (c *Client) ListDocuments(ctx context.Context, storeName string) ([]*index.Document, error) {
	if c.ListDocumentsFunc != nil {
		return c.ListDocumentsFunc(ctx, storeName)
	}
	return nil, nil
}

func (c *Client) GetDocument(ctx context.Context, name string) (*index.Document, error) {
	if c.GetDocumentFunc != nil {
		return c.GetDocumentFunc(ctx, name)
	}
	return &index.Document{Name: name}, nil
}

func (c *Client) DeleteDocument(ctx context.Context, name string, force bool) error {
	if c.DeleteDocumentFunc != nil {
		return c.DeleteDocumentFunc(ctx, name, force)
	}
	return nil
}

func (c *Client) UploadToStore(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
	c.mu.Lock()
	c.uploadCalls++
	n := c.uploadCalls
	c.mu.Unlock()

	if c.UploadToStoreFunc != nil {
		return c.UploadToStoreFunc(ctx, storeName, filePath, cfg)
	}
	return &index.Operation{Name: fmt.Sprintf("operations/mock-%d", n), Done: true}, nil
}

func (c *Client) PollOperation(ctx context.Context, op *index.Operation) (*index.Operation, error) {
	c.mu.Lock()
	c.pollCalls++
	c.mu.Unlock()

	if c.PollOperationFunc != nil {
		return c.PollOperationFunc(ctx, op)
	}
	if op == nil {
		return nil, index.ErrNilOperation
	}
	done := *op
	done.Done = true
	return &done, nil
}
