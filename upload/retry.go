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
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/index"
)

// errorKind classifies a failed attempt. String matching against the
// configured patterns happens only here, at the collaborator boundary;
// everything downstream decides on the kind.
type errorKind int

const (
	kindFatal errorKind = iota
	kindTransient
	kindCanceled
)

// backoffFloor is the smallest delay ever slept after jitter.
const backoffFloor = 100 * time.Millisecond

// uploadWithRetry runs the full retry state machine for one file and
// returns its terminal result. It never returns an error: every outcome,
// including cancellation, becomes an UploadResult.
func (u *Uploader) uploadWithRetry(ctx context.Context, storeRef string, task core.FileTask, uploadCfg *index.UploadConfig) core.UploadResult {
	key := core.UploadKey{Store: storeRef, Path: task.Path}

	if !u.guard.TryAcquire(key) {
		// The in-flight holder owns the status record; the rejected
		// submission fails without touching it.
		message := core.ErrDuplicateInProgress.Error()
		return core.UploadResult{Path: task.Path, DisplayName: task.DisplayName, Message: message}
	}
	defer u.guard.Release(key)

	maxAttempts := u.config.MaxRetries + 1
	var lastErr string

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt == 1 {
			u.tracker.Update(task.Path, core.StateUploading, attempt, u.config.MaxRetries, "")
		} else {
			u.tracker.Update(task.Path, core.StateRetrying, attempt, u.config.MaxRetries, lastErr)
		}

		// Every attempt opens a fresh upload session; a terminated remote
		// session deterministically fails again if reused.
		err := u.attempt(ctx, storeRef, task, uploadCfg)
		if err == nil {
			message := "file uploaded and indexed successfully"
			u.tracker.Update(task.Path, core.StateCompleted, attempt, u.config.MaxRetries, message)
			if attempt > 1 {
				u.logger.Debug("upload succeeded after retry", "file", task.DisplayName, "attempt", attempt)
			}
			return core.UploadResult{Path: task.Path, DisplayName: task.DisplayName, Success: true, Message: message}
		}

		lastErr = err.Error()

		switch u.classify(err) {
		case kindCanceled:
			message := fmt.Sprintf("upload canceled: %s", lastErr)
			u.tracker.Update(task.Path, core.StateFailed, attempt, u.config.MaxRetries, message)
			return core.UploadResult{Path: task.Path, DisplayName: task.DisplayName, Message: message}
		case kindFatal:
			message := fmt.Sprintf("upload failed: %s", lastErr)
			u.tracker.Update(task.Path, core.StateFailed, attempt, u.config.MaxRetries, message)
			return core.UploadResult{Path: task.Path, DisplayName: task.DisplayName, Message: message}
		}

		u.logger.Debug("transient upload failure", "file", task.DisplayName,
			"attempt", attempt, "maxAttempts", maxAttempts, "err", err)

		if attempt == maxAttempts {
			break
		}

		// Status flips to retrying before the backoff sleep so observers
		// see the wait, not a stale uploading state.
		u.tracker.Update(task.Path, core.StateRetrying, attempt, u.config.MaxRetries, lastErr)

		timer := time.NewTimer(u.backoffDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			message := fmt.Sprintf("upload canceled: %s", ctx.Err())
			u.tracker.Update(task.Path, core.StateFailed, attempt, u.config.MaxRetries, message)
			return core.UploadResult{Path: task.Path, DisplayName: task.DisplayName, Message: message}
		case <-timer.C:
		}
	}

	message := fmt.Sprintf("upload failed after %d attempts, last error: %s", maxAttempts, lastErr)
	u.tracker.Update(task.Path, core.StateFailed, maxAttempts, u.config.MaxRetries, message)
	return core.UploadResult{Path: task.Path, DisplayName: task.DisplayName, Message: message}
}

// attempt performs one upload attempt: submit, then block-poll the
// operation handle until it completes or the poll window expires.
func (u *Uploader) attempt(ctx context.Context, storeRef string, task core.FileTask, uploadCfg *index.UploadConfig) error {
	cfg := index.UploadConfig{DisplayName: task.DisplayName}
	if uploadCfg != nil {
		cfg = *uploadCfg
		if cfg.DisplayName == "" {
			cfg.DisplayName = task.DisplayName
		}
	}
	if len(cfg.CustomMetadata) == 0 && u.metadata != nil {
		cfg.CustomMetadata = u.metadata(task)
	}

	op, err := u.client.UploadToStore(ctx, storeRef, task.Path, &cfg)
	if err != nil {
		return err
	}

	return u.waitForOperation(ctx, op)
}

// waitForOperation polls op until it reports done or the poll window
// expires. The expiry message deliberately reads "timed out" rather than
// "timeout" so it does not match the transient pattern set: an exhausted
// wait is final for this attempt.
func (u *Uploader) waitForOperation(ctx context.Context, op *index.Operation) error {
	deadline := time.Now().Add(u.config.PollTimeout)

	for !op.Done {
		if time.Now().After(deadline) {
			return fmt.Errorf("operation timed out after %s; the file may still be processing, check back later",
				u.config.PollTimeout)
		}

		timer := time.NewTimer(u.config.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		polled, err := u.client.PollOperation(ctx, op)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", errPollFailed, err)
		}
		op = polled
	}

	if op.Error != "" {
		return fmt.Errorf("operation failed: %s", op.Error)
	}
	return nil
}

// classify maps a failed attempt to its retry disposition.
func (u *Uploader) classify(err error) errorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return kindCanceled
	}
	if errors.Is(err, errPollFailed) {
		return kindTransient
	}
	if u.config.retryable(err.Error()) {
		return kindTransient
	}
	return kindFatal
}

// backoffDelay computes the sleep after failed attempt a (1-indexed):
// min(InitialDelay*2^(a-1), MaxDelay), jittered by ±25% uniform and
// clamped to a small positive floor.
func (u *Uploader) backoffDelay(attempt int) time.Duration {
	delay := u.config.InitialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= u.config.MaxDelay {
			delay = u.config.MaxDelay
			break
		}
	}
	if delay > u.config.MaxDelay {
		delay = u.config.MaxDelay
	}

	jittered := time.Duration(float64(delay) * (0.75 + 0.5*rand.Float64()))
	if jittered < backoffFloor {
		jittered = backoffFloor
	}
	return jittered
}
