package upload

import (
	"sync"

	"github.com/poiesic/docindex/core"
)

// Tracker is the race-free shared view of per-file upload status.
// One writer per in-flight task and any number of concurrent readers may
// use it; no caller ever observes a torn record. Summary and Snapshot are
// point-in-time copies and never block writers beyond the critical section.
type Tracker struct {
	mu      sync.Mutex
	records map[string]*core.StatusRecord
	order   []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]*core.StatusRecord)}
}

// Init registers a file as pending. Re-initializing a known path resets
// its record.
func (t *Tracker) Init(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, known := t.records[path]; !known {
		t.order = append(t.order, path)
	}
	t.records[path] = &core.StatusRecord{
		Path:  path,
		State: core.StatePending,
	}
}

// Update mutates the record for path. Updates to unknown paths are ignored,
// as are transitions out of a terminal state: once a record is completed or
// failed it is frozen.
func (t *Tracker) Update(path string, state core.UploadState, attempt, maxRetries int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, known := t.records[path]
	if !known || record.State.Terminal() {
		return
	}
	record.State = state
	record.Attempt = attempt
	record.MaxRetries = maxRetries
	record.Message = message
}

// Summary returns point-in-time aggregate counts.
func (t *Tracker) Summary() core.BatchSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := core.BatchSummary{Total: len(t.records)}
	for _, record := range t.records {
		switch record.State {
		case core.StateCompleted:
			summary.Completed++
		case core.StateFailed:
			summary.Failed++
		case core.StateUploading, core.StateRetrying:
			summary.InProgress++
		}
	}
	return summary
}

// Snapshot returns copies of all records in initialization order,
// suitable for display.
func (t *Tracker) Snapshot() []core.StatusRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make([]core.StatusRecord, 0, len(t.order))
	for _, path := range t.order {
		snapshot = append(snapshot, *t.records[path])
	}
	return snapshot
}

// Clear removes all records; the next batch starts from a clean slate.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = make(map[string]*core.StatusRecord)
	t.order = nil
}
