package core

import (
	"path/filepath"
	"time"
)

// UploadState identifies where a file currently is in the upload lifecycle.
type UploadState int

const (
	// StatePending means the file is queued but no attempt has started.
	StatePending UploadState = iota + 1
	// StateUploading means the first attempt is in progress.
	StateUploading
	// StateRetrying means a transient failure occurred and another attempt
	// is in progress or waiting on backoff.
	StateRetrying
	// StateCompleted means the file was uploaded and indexed.
	StateCompleted
	// StateFailed means all attempts are exhausted or a fatal error occurred.
	StateFailed
)

// String returns a human-readable name for the state.
func (s UploadState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateUploading:
		return "uploading"
	case StateRetrying:
		return "retrying"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final. Records in a terminal state
// never transition again.
func (s UploadState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// FileTask is a single candidate file in an upload batch.
// Identity is the path; a task is immutable once submitted to the scheduler.
type FileTask struct {
	Path        string
	DisplayName string
	ContentHash string // populated by duplicate detection; may stay empty
}

// NewFileTask creates a task for path with the display name defaulted
// to the base filename.
func NewFileTask(path string) FileTask {
	return FileTask{
		Path:        path,
		DisplayName: filepath.Base(path),
	}
}

// UploadKey identifies one in-flight upload attempt. The same file may be
// uploaded to different stores concurrently, but never twice to the same one.
type UploadKey struct {
	Store string
	Path  string
}

// StatusRecord is the live status of one file task, owned by the status
// tracker. Attempt is 1-indexed and never exceeds MaxRetries+1.
type StatusRecord struct {
	Path       string
	State      UploadState
	Attempt    int
	MaxRetries int
	Message    string
}

// DuplicateGroup is a set of two or more tasks sharing identical content.
// Tasks keep their original batch order.
type DuplicateGroup struct {
	Hash  string
	Tasks []FileTask
}

// UploadResult is the terminal outcome for one submitted task.
// Exactly one result is produced per task.
type UploadResult struct {
	Path        string
	DisplayName string
	Success     bool
	Message     string
}

// BatchResult summarizes a completed batch.
// Total always equals len(Successful)+len(Failed).
type BatchResult struct {
	Total      int
	Successful []UploadResult
	Failed     []UploadResult
}

// BatchSummary is a point-in-time aggregate over the status tracker.
type BatchSummary struct {
	Total      int
	Completed  int
	Failed     int
	InProgress int
}

// FailureRecord is one persisted entry in the upload failure log.
type FailureRecord struct {
	Timestamp time.Time
	Filename  string
	Store     string
	Error     string
}
