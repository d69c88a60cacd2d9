package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/poiesic/docindex/index"
)

// uploadRequest is the metadata body sent when starting an upload session.
type uploadRequest struct {
	DisplayName    string         `json:"displayName,omitempty"`
	ChunkingConfig *wireChunking  `json:"chunkingConfig,omitempty"`
	CustomMetadata []wireMetadata `json:"customMetadata,omitempty"`
}

type wireChunking struct {
	WhiteSpaceConfig struct {
		MaxTokensPerChunk int `json:"maxTokensPerChunk,omitempty"`
		MaxOverlapTokens  int `json:"maxOverlapTokens,omitempty"`
	} `json:"whiteSpaceConfig"`
}

// wireOperation mirrors the REST representation of a long-running operation.
type wireOperation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (w *wireOperation) toOperation() *index.Operation {
	op := &index.Operation{Name: w.Name, Done: w.Done}
	if w.Error != nil {
		if w.Error.Status != "" {
			op.Error = fmt.Sprintf("%s: %s", w.Error.Status, w.Error.Message)
		} else {
			op.Error = w.Error.Message
		}
	}
	return op
}

// UploadToStore submits a file for upload and indexing. It opens a fresh
// resumable upload session, streams the file content, and returns the
// long-running operation handle. The call blocks only for the transfer
// itself; indexing continues remotely and is observed via PollOperation.
func (c *Client) UploadToStore(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
	storeName = index.NormalizeStoreName(storeName)
	if storeName == "" {
		return nil, index.ErrStoreNameRequired
	}
	if cfg == nil {
		cfg = &index.UploadConfig{}
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	meta := uploadRequest{
		DisplayName:    cfg.DisplayName,
		CustomMetadata: toWireMetadata(cfg.CustomMetadata),
	}
	if meta.DisplayName == "" {
		meta.DisplayName = filepath.Base(filePath)
	}
	if cfg.Chunking != nil {
		chunking := &wireChunking{}
		chunking.WhiteSpaceConfig.MaxTokensPerChunk = cfg.Chunking.MaxTokensPerChunk
		chunking.WhiteSpaceConfig.MaxOverlapTokens = cfg.Chunking.MaxOverlapTokens
		meta.ChunkingConfig = chunking
	}

	sessionURL, err := c.startUploadSession(ctx, storeName, info.Size(), &meta)
	if err != nil {
		return nil, err
	}

	return c.transferContent(ctx, sessionURL, filePath)
}

// startUploadSession opens a resumable upload session and returns the
// session URL the content must be sent to.
func (c *Client) startUploadSession(ctx context.Context, storeName string, size int64, meta *uploadRequest) (string, error) {
	body, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	url := c.uploadURL(storeName + ":uploadToFileSearchStore")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", fmt.Sprintf("%d", size))

	resp, err := c.submitClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("start upload session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("start upload session: %w", apiError(resp.StatusCode, data))
	}

	sessionURL := resp.Header.Get("X-Goog-Upload-URL")
	if sessionURL == "" {
		return "", fmt.Errorf("start upload session: no session URL in response")
	}
	return sessionURL, nil
}

// transferContent streams the file bytes to the session URL and finalizes
// the upload, returning the indexing operation.
func (c *Client) transferContent(ctx context.Context, sessionURL, filePath string) (*index.Operation, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sessionURL, file)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.config.APIKey)
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")
	req.Header.Set("X-Goog-Upload-Offset", "0")

	resp, err := c.submitClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload content: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload content: %w", apiError(resp.StatusCode, data))
	}

	var op wireOperation
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, fmt.Errorf("upload content: decode operation: %w", err)
	}

	c.logger.Debug("upload submitted", "file", filePath, "operation", op.Name)
	return op.toOperation(), nil
}

// PollOperation fetches the current state of a long-running operation.
func (c *Client) PollOperation(ctx context.Context, op *index.Operation) (*index.Operation, error) {
	if op == nil || op.Name == "" {
		return nil, index.ErrNilOperation
	}

	var polled wireOperation
	if err := c.doJSON(ctx, c.getClient, http.MethodGet, c.url(op.Name), nil, &polled); err != nil {
		return nil, fmt.Errorf("poll operation: %w", err)
	}
	return polled.toOperation(), nil
}
