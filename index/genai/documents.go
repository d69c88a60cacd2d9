package genai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/poiesic/docindex/index"
)

// wireMetadata mirrors the REST representation of a custom metadata entry.
type wireMetadata struct {
	Key             string   `json:"key"`
	StringValue     string   `json:"stringValue,omitempty"`
	NumericValue    float64  `json:"numericValue,omitempty"`
	StringListValue []string `json:"stringListValue,omitempty"`
}

func toWireMetadata(entries []index.CustomMetadata) []wireMetadata {
	if len(entries) == 0 {
		return nil
	}
	wire := make([]wireMetadata, len(entries))
	for i, e := range entries {
		wire[i] = wireMetadata{
			Key:             e.Key,
			StringValue:     e.StringValue,
			NumericValue:    e.NumericValue,
			StringListValue: e.StringListValue,
		}
	}
	return wire
}

// wireDocument mirrors the REST representation of an indexed document.
type wireDocument struct {
	Name           string         `json:"name"`
	DisplayName    string         `json:"displayName,omitempty"`
	MimeType       string         `json:"mimeType,omitempty"`
	SizeBytes      string         `json:"sizeBytes,omitempty"`
	State          string         `json:"state,omitempty"`
	CreateTime     string         `json:"createTime,omitempty"`
	UpdateTime     string         `json:"updateTime,omitempty"`
	CustomMetadata []wireMetadata `json:"customMetadata,omitempty"`
}

func (w *wireDocument) toDocument() *index.Document {
	doc := &index.Document{
		Name:        w.Name,
		DisplayName: w.DisplayName,
		MimeType:    w.MimeType,
		SizeBytes:   parseInt64(w.SizeBytes),
		State:       w.State,
		CreateTime:  parseTime(w.CreateTime),
		UpdateTime:  parseTime(w.UpdateTime),
	}
	for _, m := range w.CustomMetadata {
		doc.CustomMetadata = append(doc.CustomMetadata, index.CustomMetadata{
			Key:             m.Key,
			StringValue:     m.StringValue,
			NumericValue:    m.NumericValue,
			StringListValue: m.StringListValue,
		})
	}
	return doc
}

// ListDocuments returns the documents inside a store, following pagination.
func (c *Client) ListDocuments(ctx context.Context, storeName string) ([]*index.Document, error) {
	storeName = index.NormalizeStoreName(storeName)
	if storeName == "" {
		return nil, index.ErrStoreNameRequired
	}

	var docs []*index.Document
	pageToken := ""

	for {
		url := c.url(storeName + "/documents")
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}

		var page struct {
			Documents     []wireDocument `json:"documents"`
			NextPageToken string         `json:"nextPageToken"`
		}
		if err := c.doJSON(ctx, c.getClient, http.MethodGet, url, nil, &page); err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}

		for i := range page.Documents {
			docs = append(docs, page.Documents[i].toDocument())
		}

		if page.NextPageToken == "" {
			return docs, nil
		}
		pageToken = page.NextPageToken
	}
}

// GetDocument retrieves a single document by resource name.
func (c *Client) GetDocument(ctx context.Context, name string) (*index.Document, error) {
	var doc wireDocument
	if err := c.doJSON(ctx, c.getClient, http.MethodGet, c.url(name), nil, &doc); err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc.toDocument(), nil
}

// DeleteDocument removes a document from its store.
func (c *Client) DeleteDocument(ctx context.Context, name string, force bool) error {
	url := c.url(name)
	if force {
		url += "?force=true"
	}
	if err := c.doJSON(ctx, c.submitClient, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	c.logger.Debug("document deleted", "name", name, "force", force)
	return nil
}
