package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/index"
	"github.com/poiesic/docindex/index/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStore = "fileSearchStores/test"

func fastConfig() *Config {
	cfg := DefaultConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 4 * time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.PollTimeout = 250 * time.Millisecond
	return cfg
}

func newTestUploader(t *testing.T, client index.Client, cfg *Config) *Uploader {
	t.Helper()
	uploader, err := NewUploader(client, cfg)
	require.NoError(t, err)
	return uploader
}

func TestNewUploader_RequiresClient(t *testing.T) {
	_, err := NewUploader(nil, nil)
	assert.ErrorIs(t, err, ErrClientRequired)
}

func TestNewUploader_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Concurrency = 0
	_, err := NewUploader(mock.NewClient(), cfg)
	assert.ErrorIs(t, err, ErrInvalidConcurrency)
}

func TestUploadFile_SucceedsFirstAttempt(t *testing.T) {
	client := mock.NewClient()
	uploader := newTestUploader(t, client, fastConfig())

	result := uploader.UploadFile(context.Background(), testStore,
		core.NewFileTask("/tmp/doc.txt"), nil)

	assert.True(t, result.Success)
	assert.Equal(t, 1, client.UploadCalls())

	snapshot := uploader.Tracker().Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, core.StateCompleted, snapshot[0].State)
	assert.Equal(t, 1, snapshot[0].Attempt)
}

func TestUploadFile_TransientErrorsRetryThenSucceed(t *testing.T) {
	client := mock.NewClient()
	var mu sync.Mutex
	calls := 0
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls <= 2 {
			return nil, errors.New("503 service unavailable")
		}
		return &index.Operation{Name: "operations/op1", Done: true}, nil
	}

	uploader := newTestUploader(t, client, fastConfig())
	result := uploader.UploadFile(context.Background(), testStore,
		core.NewFileTask("/tmp/doc.txt"), nil)

	assert.True(t, result.Success)
	assert.Equal(t, 3, client.UploadCalls())

	snapshot := uploader.Tracker().Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, core.StateCompleted, snapshot[0].State)
	assert.Equal(t, 3, snapshot[0].Attempt)
}

func TestUploadFile_FatalErrorFailsWithoutRetry(t *testing.T) {
	client := mock.NewClient()
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		return nil, errors.New("PERMISSION_DENIED: the caller does not have permission")
	}

	uploader := newTestUploader(t, client, fastConfig())
	result := uploader.UploadFile(context.Background(), testStore,
		core.NewFileTask("/tmp/doc.txt"), nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "PERMISSION_DENIED")
	assert.Equal(t, 1, client.UploadCalls())

	snapshot := uploader.Tracker().Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, core.StateFailed, snapshot[0].State)
	assert.Equal(t, 1, snapshot[0].Attempt)
}

func TestUploadFile_RetryBudgetExhausted(t *testing.T) {
	client := mock.NewClient()
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		return nil, errors.New("connection timeout")
	}

	cfg := fastConfig()
	cfg.MaxRetries = 2
	uploader := newTestUploader(t, client, cfg)

	result := uploader.UploadFile(context.Background(), testStore,
		core.NewFileTask("/tmp/doc.txt"), nil)

	assert.False(t, result.Success)
	assert.Equal(t, 3, client.UploadCalls())
	assert.Contains(t, result.Message, "failed after 3 attempts")
	assert.Contains(t, result.Message, "connection timeout")

	snapshot := uploader.Tracker().Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, core.StateFailed, snapshot[0].State)
}

func TestUploadFile_OperationErrorClassified(t *testing.T) {
	// The remote operation completes but reports a fatal error payload.
	client := mock.NewClient()
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		return &index.Operation{
			Name:  "operations/op1",
			Done:  true,
			Error: "INVALID_ARGUMENT: unsupported file format",
		}, nil
	}

	uploader := newTestUploader(t, client, fastConfig())
	result := uploader.UploadFile(context.Background(), testStore,
		core.NewFileTask("/tmp/doc.bad"), nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "INVALID_ARGUMENT")
	assert.Equal(t, 1, client.UploadCalls())
}

func TestUploadFile_PollErrorsAreTransient(t *testing.T) {
	client := mock.NewClient()
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		return &index.Operation{Name: "operations/op1", Done: false}, nil
	}
	client.PollOperationFunc = func(ctx context.Context, op *index.Operation) (*index.Operation, error) {
		return nil, errors.New("unexpected end of JSON input")
	}

	cfg := fastConfig()
	cfg.MaxRetries = 1
	uploader := newTestUploader(t, client, cfg)

	result := uploader.UploadFile(context.Background(), testStore,
		core.NewFileTask("/tmp/doc.txt"), nil)

	assert.False(t, result.Success)
	assert.Equal(t, 2, client.UploadCalls())
	assert.Contains(t, result.Message, "error checking operation status")
}

func TestUploadFile_PollWindowExpiryIsFatal(t *testing.T) {
	client := mock.NewClient()
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		return &index.Operation{Name: "operations/op1", Done: false}, nil
	}
	client.PollOperationFunc = func(ctx context.Context, op *index.Operation) (*index.Operation, error) {
		return op, nil // never done
	}

	cfg := fastConfig()
	cfg.PollTimeout = 5 * time.Millisecond
	uploader := newTestUploader(t, client, cfg)

	result := uploader.UploadFile(context.Background(), testStore,
		core.NewFileTask("/tmp/doc.txt"), nil)

	// The expiry message reads "timed out", which is not in the transient
	// pattern set, so exactly one attempt is made.
	assert.False(t, result.Success)
	assert.Equal(t, 1, client.UploadCalls())
	assert.Contains(t, result.Message, "timed out")
}

func TestUploadFile_CancellationStopsRetrying(t *testing.T) {
	client := mock.NewClient()
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uploader := newTestUploader(t, client, fastConfig())
	result := uploader.UploadFile(ctx, testStore, core.NewFileTask("/tmp/doc.txt"), nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "canceled")
	assert.Equal(t, 1, client.UploadCalls())
}

func TestUploadFile_DuplicateInFlightRejected(t *testing.T) {
	client := mock.NewClient()
	entered := make(chan struct{})
	release := make(chan struct{})
	client.UploadToStoreFunc = func(ctx context.Context, storeName, filePath string, cfg *index.UploadConfig) (*index.Operation, error) {
		close(entered)
		<-release
		return &index.Operation{Name: "operations/op1", Done: true}, nil
	}

	uploader := newTestUploader(t, client, fastConfig())
	task := core.NewFileTask("/tmp/doc.txt")

	var firstResult core.UploadResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		firstResult = uploader.UploadFile(context.Background(), testStore, task, nil)
	}()

	<-entered
	second := uploader.uploadWithRetry(context.Background(), testStore, task, nil)
	assert.False(t, second.Success)
	assert.Contains(t, second.Message, "already in progress")

	close(release)
	<-done
	assert.True(t, firstResult.Success)

	// The rejected submission must not have disturbed the holder's record.
	snapshot := uploader.Tracker().Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, core.StateCompleted, snapshot[0].State)
}

func TestUploadFile_DistinctStoresNotBlocked(t *testing.T) {
	client := mock.NewClient()
	uploader := newTestUploader(t, client, fastConfig())
	task := core.NewFileTask("/tmp/doc.txt")

	uploader.Tracker().Init(task.Path)
	first := uploader.uploadWithRetry(context.Background(), "fileSearchStores/one", task, nil)
	second := uploader.uploadWithRetry(context.Background(), "fileSearchStores/two", task, nil)

	assert.True(t, first.Success)
	assert.True(t, second.Success)
}

func TestBackoffDelay_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	uploader := newTestUploader(t, mock.NewClient(), cfg)

	for attempt := 1; attempt <= 8; attempt++ {
		base := cfg.InitialDelay
		for i := 1; i < attempt; i++ {
			base *= 2
			if base >= cfg.MaxDelay {
				base = cfg.MaxDelay
				break
			}
		}
		for trial := 0; trial < 20; trial++ {
			delay := uploader.backoffDelay(attempt)
			assert.GreaterOrEqual(t, delay, time.Duration(float64(base)*0.75),
				fmt.Sprintf("attempt %d", attempt))
			assert.LessOrEqual(t, delay, time.Duration(float64(base)*1.25),
				fmt.Sprintf("attempt %d", attempt))
		}
	}
}

func TestBackoffDelay_Floor(t *testing.T) {
	cfg := fastConfig() // 1ms initial, far below the floor
	uploader := newTestUploader(t, mock.NewClient(), cfg)
	assert.GreaterOrEqual(t, uploader.backoffDelay(1), backoffFloor)
}

func TestClassify(t *testing.T) {
	uploader := newTestUploader(t, mock.NewClient(), DefaultConfig())

	tests := []struct {
		name string
		err  error
		want errorKind
	}{
		{"service unavailable", errors.New("503 Service Unavailable"), kindTransient},
		{"terminated session", errors.New("upload session has already been terminated"), kindTransient},
		{"poll failure wrapper", fmt.Errorf("%w: boom", errPollFailed), kindTransient},
		{"permission denied", errors.New("PERMISSION_DENIED: nope"), kindFatal},
		{"invalid argument", errors.New("INVALID_ARGUMENT: bad file"), kindFatal},
		{"poll window expiry", errors.New("operation timed out after 5m0s"), kindFatal},
		{"context canceled", context.Canceled, kindCanceled},
		{"context deadline", context.DeadlineExceeded, kindCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uploader.classify(tt.err))
		})
	}
}
