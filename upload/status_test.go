package upload

import (
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/docindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_InitAndUpdate(t *testing.T) {
	tracker := NewTracker()
	tracker.Init("/tmp/a.txt")

	snapshot := tracker.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, core.StatePending, snapshot[0].State)

	tracker.Update("/tmp/a.txt", core.StateUploading, 1, 3, "")
	snapshot = tracker.Snapshot()
	assert.Equal(t, core.StateUploading, snapshot[0].State)
	assert.Equal(t, 1, snapshot[0].Attempt)
	assert.Equal(t, 3, snapshot[0].MaxRetries)
}

func TestTracker_UpdateUnknownPathIgnored(t *testing.T) {
	tracker := NewTracker()
	tracker.Update("/tmp/ghost.txt", core.StateUploading, 1, 3, "")
	assert.Empty(t, tracker.Snapshot())
}

func TestTracker_TerminalStatesLatch(t *testing.T) {
	tracker := NewTracker()
	tracker.Init("/tmp/a.txt")
	tracker.Update("/tmp/a.txt", core.StateCompleted, 2, 3, "done")

	tracker.Update("/tmp/a.txt", core.StateRetrying, 3, 3, "should not apply")

	snapshot := tracker.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, core.StateCompleted, snapshot[0].State)
	assert.Equal(t, 2, snapshot[0].Attempt)
	assert.Equal(t, "done", snapshot[0].Message)
}

func TestTracker_SnapshotPreservesInitOrder(t *testing.T) {
	tracker := NewTracker()
	paths := []string{"/tmp/c.txt", "/tmp/a.txt", "/tmp/b.txt"}
	for _, path := range paths {
		tracker.Init(path)
	}

	snapshot := tracker.Snapshot()
	require.Len(t, snapshot, 3)
	for i, path := range paths {
		assert.Equal(t, path, snapshot[i].Path)
	}
}

func TestTracker_Summary(t *testing.T) {
	tracker := NewTracker()
	for i := 0; i < 5; i++ {
		tracker.Init(fmt.Sprintf("/tmp/f%d.txt", i))
	}
	tracker.Update("/tmp/f0.txt", core.StateCompleted, 1, 3, "")
	tracker.Update("/tmp/f1.txt", core.StateFailed, 4, 3, "")
	tracker.Update("/tmp/f2.txt", core.StateUploading, 1, 3, "")
	tracker.Update("/tmp/f3.txt", core.StateRetrying, 2, 3, "")

	summary := tracker.Summary()
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.InProgress)
}

func TestTracker_Clear(t *testing.T) {
	tracker := NewTracker()
	tracker.Init("/tmp/a.txt")
	tracker.Clear()
	assert.Empty(t, tracker.Snapshot())
	assert.Equal(t, 0, tracker.Summary().Total)

	tracker.Init("/tmp/b.txt")
	assert.Len(t, tracker.Snapshot(), 1)
}

func TestTracker_ConcurrentReadersAndWriters(t *testing.T) {
	tracker := NewTracker()
	const files = 20
	for i := 0; i < files; i++ {
		tracker.Init(fmt.Sprintf("/tmp/f%d.txt", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < files; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("/tmp/f%d.txt", i)
			tracker.Update(path, core.StateUploading, 1, 3, "")
			tracker.Update(path, core.StateCompleted, 1, 3, "ok")
		}(i)
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Snapshot()
			tracker.Summary()
		}()
	}
	wg.Wait()

	summary := tracker.Summary()
	assert.Equal(t, files, summary.Completed)
}
