package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/docindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *FailureLog {
	t.Helper()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	log, err := NewFailureLog(backend)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestFailureLog_AppendAndList(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	record := core.FailureRecord{
		Timestamp: time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC),
		Filename:  "report.pdf",
		Store:     "fileSearchStores/abc",
		Error:     "PERMISSION_DENIED: no access",
	}
	require.NoError(t, log.Append(ctx, record))

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record, records[0])
}

func TestFailureLog_ListChronologicalOrder(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	// Append out of chronological order
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		record := core.FailureRecord{
			Timestamp: base.Add(offset),
			Filename:  fmt.Sprintf("f-%s.txt", offset),
			Store:     "fileSearchStores/abc",
			Error:     "boom",
		}
		require.NoError(t, log.Append(ctx, record))
	}

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].Timestamp.Before(records[i-1].Timestamp))
	}
}

func TestFailureLog_AppendFillsZeroTimestamp(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, core.FailureRecord{
		Filename: "a.txt",
		Store:    "fileSearchStores/abc",
		Error:    "boom",
	}))

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestFailureLog_SameTimestampKeepsAllRecords(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	stamp := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, log.Append(ctx, core.FailureRecord{
			Timestamp: stamp,
			Filename:  fmt.Sprintf("f%d.txt", i),
			Store:     "fileSearchStores/abc",
			Error:     "boom",
		}))
	}

	records, err := log.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestFailureLog_Clear(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(ctx, core.FailureRecord{
			Filename: fmt.Sprintf("f%d.txt", i),
			Store:    "fileSearchStores/abc",
			Error:    "boom",
		}))
	}

	require.NoError(t, log.Clear(ctx))

	records, err := log.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Appending after clear still works
	require.NoError(t, log.Append(ctx, core.FailureRecord{
		Filename: "after.txt",
		Store:    "fileSearchStores/abc",
		Error:    "boom",
	}))
	records, err = log.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestNewMemoryLog(t *testing.T) {
	log, backend, err := NewMemoryLog()
	require.NoError(t, err)
	defer backend.Close()
	defer log.Close()

	records, err := log.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
