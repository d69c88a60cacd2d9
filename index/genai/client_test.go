package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/docindex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := newClient(index.NewConfig(
		index.WithAPIKey("test-key"),
		index.WithBaseURL(server.URL),
	))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(index.NewConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, index.ErrAPIKeyRequired)
}

func TestCreateStore(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/fileSearchStores", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "My Store", body["displayName"])

		json.NewEncoder(w).Encode(map[string]string{
			"name":        "fileSearchStores/abc123",
			"displayName": "My Store",
		})
	}))

	store, err := c.CreateStore(context.Background(), "My Store")
	require.NoError(t, err)
	assert.Equal(t, "fileSearchStores/abc123", store.Name)
	assert.Equal(t, "My Store", store.DisplayName)
}

func TestListStoresPagination(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"fileSearchStores": []map[string]string{{"name": "fileSearchStores/a"}},
				"nextPageToken":    "page2",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"fileSearchStores": []map[string]string{{"name": "fileSearchStores/b", "usageBytes": "2048"}},
		})
	}))

	stores, err := c.ListStores(context.Background())
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "fileSearchStores/a", stores[0].Name)
	assert.Equal(t, int64(2048), stores[1].UsageBytes)
}

func TestAPIErrorKeepsStatusToken(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    403,
				"message": "API key lacks permission",
				"status":  "PERMISSION_DENIED",
			},
		})
	}))

	_, err := c.GetStore(context.Background(), "abc123")
	require.Error(t, err)
	// Classification upstream is substring-based; the status token must
	// survive into the error text.
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
	assert.Contains(t, err.Error(), "API key lacks permission")
}

func TestUploadToStore(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("document body"), 0644))

	var sessionURL string
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/upload/v1beta/fileSearchStores/abc123:uploadToFileSearchStore", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "resumable", r.Header.Get("X-Goog-Upload-Protocol"))
		assert.Equal(t, "start", r.Header.Get("X-Goog-Upload-Command"))

		var meta uploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&meta))
		assert.Equal(t, "doc.txt", meta.DisplayName, "display name defaults to filename")

		w.Header().Set("X-Goog-Upload-URL", sessionURL)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "upload, finalize", r.Header.Get("X-Goog-Upload-Command"))
		json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/upload-1",
			"done": false,
		})
	})
	sessionURL = server.URL + "/session"

	c, err := newClient(index.NewConfig(
		index.WithAPIKey("test-key"),
		index.WithBaseURL(server.URL),
	))
	require.NoError(t, err)

	op, err := c.UploadToStore(context.Background(), "abc123", filePath, nil)
	require.NoError(t, err)
	assert.Equal(t, "operations/upload-1", op.Name)
	assert.False(t, op.Done)
}

func TestPollOperation(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/operations/upload-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/upload-1",
			"done": true,
			"error": map[string]any{
				"code":    503,
				"message": "service unavailable",
				"status":  "UNAVAILABLE",
			},
		})
	}))

	op, err := c.PollOperation(context.Background(), &index.Operation{Name: "operations/upload-1"})
	require.NoError(t, err)
	assert.True(t, op.Done)
	assert.Contains(t, op.Error, "UNAVAILABLE")
	assert.Contains(t, op.Error, "service unavailable")
}

func TestPollOperationNilHandle(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := c.PollOperation(context.Background(), nil)
	assert.ErrorIs(t, err, index.ErrNilOperation)
}
