package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/poiesic/docindex/index"
)

// wireStore mirrors the REST representation of a file search store.
type wireStore struct {
	Name                  string `json:"name"`
	DisplayName           string `json:"displayName,omitempty"`
	CreateTime            string `json:"createTime,omitempty"`
	UpdateTime            string `json:"updateTime,omitempty"`
	UsageBytes            string `json:"usageBytes,omitempty"`
	ActiveDocumentsCount  string `json:"activeDocumentsCount,omitempty"`
	PendingDocumentsCount string `json:"pendingDocumentsCount,omitempty"`
	FailedDocumentsCount  string `json:"failedDocumentsCount,omitempty"`
}

func (w *wireStore) toStore() *index.Store {
	return &index.Store{
		Name:             w.Name,
		DisplayName:      w.DisplayName,
		CreateTime:       parseTime(w.CreateTime),
		UpdateTime:       parseTime(w.UpdateTime),
		UsageBytes:       parseInt64(w.UsageBytes),
		ActiveDocuments:  parseInt64(w.ActiveDocumentsCount),
		PendingDocuments: parseInt64(w.PendingDocumentsCount),
		FailedDocuments:  parseInt64(w.FailedDocumentsCount),
	}
}

// CreateStore creates a new file search store.
func (c *Client) CreateStore(ctx context.Context, displayName string) (*index.Store, error) {
	payload := map[string]string{}
	if displayName != "" {
		payload["displayName"] = displayName
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var created wireStore
	err = c.doJSON(ctx, c.submitClient, http.MethodPost, c.url("fileSearchStores"), bytes.NewReader(body), &created)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	c.logger.Debug("store created", "name", created.Name)
	return created.toStore(), nil
}

// ListStores returns all stores in the project, following pagination.
func (c *Client) ListStores(ctx context.Context) ([]*index.Store, error) {
	var stores []*index.Store
	pageToken := ""

	for {
		url := c.url("fileSearchStores")
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}

		var page struct {
			FileSearchStores []wireStore `json:"fileSearchStores"`
			NextPageToken    string      `json:"nextPageToken"`
		}
		if err := c.doJSON(ctx, c.getClient, http.MethodGet, url, nil, &page); err != nil {
			return nil, fmt.Errorf("list stores: %w", err)
		}

		for i := range page.FileSearchStores {
			stores = append(stores, page.FileSearchStores[i].toStore())
		}

		if page.NextPageToken == "" {
			return stores, nil
		}
		pageToken = page.NextPageToken
	}
}

// GetStore retrieves a single store by resource name.
func (c *Client) GetStore(ctx context.Context, name string) (*index.Store, error) {
	name = index.NormalizeStoreName(name)
	if name == "" {
		return nil, index.ErrStoreNameRequired
	}

	var store wireStore
	if err := c.doJSON(ctx, c.getClient, http.MethodGet, c.url(name), nil, &store); err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return store.toStore(), nil
}

// DeleteStore removes a store, optionally forcing deletion of its documents.
func (c *Client) DeleteStore(ctx context.Context, name string, force bool) error {
	name = index.NormalizeStoreName(name)
	if name == "" {
		return index.ErrStoreNameRequired
	}

	url := c.url(name)
	if force {
		url += "?force=true"
	}
	if err := c.doJSON(ctx, c.submitClient, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete store: %w", err)
	}

	c.logger.Debug("store deleted", "name", name, "force", force)
	return nil
}
