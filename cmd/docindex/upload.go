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


package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/faillog"
	"github.com/poiesic/docindex/faillog/badger"
	"github.com/poiesic/docindex/index"
	"github.com/poiesic/docindex/metadata"
	"github.com/poiesic/docindex/upload"
	"github.com/urfave/cli/v2"
)

func uploadCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	storeName := index.NormalizeStoreName(c.String("store"))
	logger := slog.Default().With("component", "upload-cmd")

	tasks, err := collectTasks(c.StringSlice("path"), c.Bool("recursive"), logger)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No valid files to upload.")
		return nil
	}

	var resolver upload.GroupResolver
	if c.Bool("interactive-duplicates") {
		resolver = &promptResolver{logger: logger}
	}
	tasks, groups := upload.Deduplicate(tasks, resolver, logger)
	if len(groups) > 0 {
		fmt.Fprintf(os.Stderr, "Found %d duplicate group(s); %d file(s) selected for upload.\n",
			len(groups), len(tasks))
	}

	uploadCfg := buildUploadConfig(c, logger)
	metaFn := buildMetadataFunc(c, logger)

	failureLog, closeLog, err := openFailureLog(c.String("db"))
	if err != nil {
		logger.Warn("failure log unavailable, failures will not be recorded", "err", err)
	} else {
		defer closeLog()
	}

	config := upload.DefaultConfig()
	config.Concurrency = c.Int("concurrency")
	config.MaxRetries = c.Int("max-retries")
	config.InitialDelay = c.Duration("initial-delay")
	config.MaxDelay = c.Duration("max-delay")
	config.PollTimeout = c.Duration("poll-timeout")
	config.PollInterval = c.Duration("poll-interval")

	display := newStatusDisplay(os.Stderr)
	uploader, err := upload.NewUploader(client, config,
		upload.WithProgress(display.Render),
		upload.WithMetadata(metaFn),
		upload.WithOnResult(func(result core.UploadResult) {
			if result.Success || failureLog == nil {
				return
			}
			record := core.FailureRecord{
				Timestamp: time.Now().UTC(),
				Filename:  result.DisplayName,
				Store:     storeName,
				Error:     result.Message,
			}
			if err := failureLog.Append(ctx, record); err != nil {
				logger.Warn("could not record failure", "file", result.DisplayName, "err", err)
			}
		}),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Uploading %d file(s) to %s\n", len(tasks), storeName)

	batch, err := uploader.RunBatch(ctx, storeName, tasks, uploadCfg)
	if err != nil {
		return fmt.Errorf("upload batch failed: %w", err)
	}

	display.Finish(batch)
	if len(batch.Failed) > 0 {
		return fmt.Errorf("%d of %d file(s) failed to upload", len(batch.Failed), batch.Total)
	}
	return nil
}

// collectTasks expands the given paths into validated upload tasks.
// Invalid files are reported and skipped, never fatal.
func collectTasks(paths []string, recursive bool, logger *slog.Logger) ([]core.FileTask, error) {
	var tasks []core.FileTask

	for _, raw := range paths {
		path := core.CleanPathInput(raw)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if info.IsDir() {
			valid, skipped := core.CollectFiles(path, recursive)
			for _, s := range skipped {
				logger.Warn("skipping file", "file", s.Path, "reason", s.Reason)
			}
			for _, p := range valid {
				tasks = append(tasks, core.NewFileTask(p))
			}
			continue
		}

		if err := core.ValidateFile(path); err != nil {
			logger.Warn("skipping file", "file", path, "reason", err)
			continue
		}
		tasks = append(tasks, core.NewFileTask(path))
	}

	return tasks, nil
}

// buildUploadConfig assembles chunking options shared by all files in the
// batch. Per-file metadata is attached through the uploader's metadata hook.
func buildUploadConfig(c *cli.Context, logger *slog.Logger) *index.UploadConfig {
	cfg := &index.UploadConfig{}

	if tokens := c.Int("chunk-tokens"); tokens > 0 {
		requested := index.ChunkingConfig{
			MaxTokensPerChunk: tokens,
			MaxOverlapTokens:  c.Int("chunk-overlap"),
		}
		chunking := requested
		chunking.Normalize()
		if chunking != requested {
			logger.Warn("chunking options out of range, clamped",
				"tokens", chunking.MaxTokensPerChunk,
				"overlap", chunking.MaxOverlapTokens)
		}
		cfg.Chunking = &chunking
	}

	return cfg
}

// buildMetadataFunc derives per-file custom metadata from file properties
// and, when enabled, AI content extraction.
func buildMetadataFunc(c *cli.Context, logger *slog.Logger) func(core.FileTask) []index.CustomMetadata {
	var extractor *metadata.ContentExtractor
	if c.Bool("ai-metadata") {
		var err error
		extractor, err = metadata.NewContentExtractor(metadata.NewConfig(
			metadata.WithHost(c.String("ai-host")),
			metadata.WithModel(c.String("ai-model")),
		))
		if err != nil {
			logger.Warn("AI metadata extraction unavailable", "err", err)
		}
	}

	return func(task core.FileTask) []index.CustomMetadata {
		entries := metadata.Extract(task.Path, logger)
		if extractor != nil {
			entries = append(entries, extractor.Extract(context.Background(), task.Path)...)
		}
		return metadata.Cap(entries)
	}
}

func openFailureLog(path string) (faillog.Log, func(), error) {
	backend, err := badger.OpenBackend(path, false)
	if err != nil {
		return nil, nil, err
	}
	log, err := badger.NewFailureLog(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return log, func() {
		log.Close()
		backend.Close()
	}, nil
}

// promptResolver asks the user which file of a duplicate group to keep.
// Invalid input falls back to keeping the first file.
type promptResolver struct {
	logger *slog.Logger
}

func (r *promptResolver) Resolve(groupNum int, group core.DuplicateGroup) []core.FileTask {
	fmt.Fprintf(os.Stderr, "\nDuplicate group %d (%d identical files):\n", groupNum, len(group.Tasks))
	for i, task := range group.Tasks {
		fmt.Fprintf(os.Stderr, "  [%d] %s\n", i+1, task.Path)
	}
	fmt.Fprintf(os.Stderr, "Keep which file? (number, or 'a' for all) [1]: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return group.Tasks[:1]
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	switch {
	case answer == "" || answer == "1":
		return group.Tasks[:1]
	case answer == "a" || answer == "all":
		return group.Tasks
	default:
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(group.Tasks) {
			r.logger.Warn("invalid selection, keeping first file", "input", answer)
			return group.Tasks[:1]
		}
		return group.Tasks[n-1 : n]
	}
}
