// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package upload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/index"
)

// progressRefreshInterval is how often a progress callback is invoked
// while a batch is running.
const progressRefreshInterval = 250 * time.Millisecond

// Uploader drives concurrent uploads into a document store with retry,
// per-file status tracking and duplicate-submission protection. A single
// Uploader is safe for use from multiple goroutines, but RunBatch calls
// share one status tracker and should not overlap.
type Uploader struct {
	client  index.Client
	config  *Config
	guard   *Guard
	tracker *Tracker
	logger  *slog.Logger

	onResult func(core.UploadResult)
	progress func([]core.StatusRecord, core.BatchSummary)
	metadata func(core.FileTask) []index.CustomMetadata
}

// Option configures an Uploader.
type Option func(*Uploader) error

// WithLogger sets the logger used by the uploader.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		u.logger = logger
		return nil
	}
}

// WithOnResult registers a callback invoked once per file as its terminal
// result arrives, in completion order.
func WithOnResult(fn func(core.UploadResult)) Option {
	return func(u *Uploader) error {
		u.onResult = fn
		return nil
	}
}

// WithProgress registers a callback invoked on a fixed cadence during
// RunBatch with a snapshot of all per-file records and the batch summary.
// The callback is always invoked one final time after the batch settles.
func WithProgress(fn func([]core.StatusRecord, core.BatchSummary)) Option {
	return func(u *Uploader) error {
		u.progress = fn
		return nil
	}
}

// WithMetadata registers a callback producing per-file custom metadata.
// It is consulted only when the batch upload config carries none.
func WithMetadata(fn func(core.FileTask) []index.CustomMetadata) Option {
	return func(u *Uploader) error {
		u.metadata = fn
		return nil
	}
}

// NewUploader creates an Uploader backed by client. A nil config selects
// DefaultConfig.
func NewUploader(client index.Client, config *Config, opts ...Option) (*Uploader, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	u := &Uploader{
		client:  client,
		config:  config,
		guard:   NewGuard(),
		tracker: NewTracker(),
		logger:  slog.Default().With("component", "uploader"),
	}

	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// Tracker exposes the uploader's status tracker for external observers.
func (u *Uploader) Tracker() *Tracker {
	return u.tracker
}

// UploadFile uploads a single file and blocks until it reaches a terminal
// state.
func (u *Uploader) UploadFile(ctx context.Context, storeRef string, task core.FileTask, uploadCfg *index.UploadConfig) core.UploadResult {
	u.tracker.Init(task.Path)
	return u.uploadWithRetry(ctx, storeRef, task, uploadCfg)
}

// RunBatch uploads tasks concurrently and blocks until every file has a
// terminal result. Per-file failures never fail the batch; the only error
// returns are pool construction failure and an empty worker submission.
func (u *Uploader) RunBatch(ctx context.Context, storeRef string, tasks []core.FileTask, uploadCfg *index.UploadConfig) (*core.BatchResult, error) {
	u.tracker.Clear()
	for _, task := range tasks {
		u.tracker.Init(task.Path)
	}

	batch := &core.BatchResult{Total: len(tasks)}
	if len(tasks) == 0 {
		return batch, nil
	}

	pool, err := ants.NewPool(u.config.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan core.UploadResult, len(tasks))
	var wg sync.WaitGroup

	refreshDone := u.startProgressRefresher()

	for _, task := range tasks {
		task := task
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results <- u.uploadWithRetry(ctx, storeRef, task, uploadCfg)
		})
		if submitErr != nil {
			wg.Done()
			results <- core.UploadResult{
				Path:        task.Path,
				DisplayName: task.DisplayName,
				Message:     fmt.Sprintf("failed to schedule upload: %v", submitErr),
			}
			u.tracker.Update(task.Path, core.StateFailed, 0, u.config.MaxRetries,
				fmt.Sprintf("failed to schedule upload: %v", submitErr))
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.Success {
			batch.Successful = append(batch.Successful, result)
		} else {
			batch.Failed = append(batch.Failed, result)
		}
		if u.onResult != nil {
			u.onResult(result)
		}
	}

	if refreshDone != nil {
		refreshDone()
	}
	if u.progress != nil {
		u.progress(u.tracker.Snapshot(), u.tracker.Summary())
	}

	u.logger.Info("batch complete", "total", batch.Total,
		"successful", len(batch.Successful), "failed", len(batch.Failed))

	return batch, nil
}

// startProgressRefresher runs the progress callback on a ticker until the
// returned stop function is called. Returns nil when no callback is set.
func (u *Uploader) startProgressRefresher() func() {
	if u.progress == nil {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(progressRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				u.progress(u.tracker.Snapshot(), u.tracker.Summary())
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
