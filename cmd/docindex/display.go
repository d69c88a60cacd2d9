package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/docindex/core"
)

// statusDisplay renders live batch progress to a writer, typically stderr.
// Render is safe to call from the uploader's refresh goroutine.
type statusDisplay struct {
	writer    io.Writer
	startTime time.Time
	mu        sync.Mutex
}

func newStatusDisplay(writer io.Writer) *statusDisplay {
	return &statusDisplay{
		writer:    writer,
		startTime: time.Now(),
	}
}

// Render prints a single progress line, overwriting the previous one.
func (d *statusDisplay) Render(_ []core.StatusRecord, summary core.BatchSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := summary.Completed + summary.Failed
	elapsed := time.Since(d.startTime).Round(time.Second)

	fmt.Fprintf(d.writer, "\rProgress: %d/%d (completed %d, failed %d, in flight %d) - %s",
		done, summary.Total, summary.Completed, summary.Failed, summary.InProgress, elapsed)
}

// Finish prints the final per-file outcome table.
func (d *statusDisplay) Finish(batch *core.BatchResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintln(d.writer)
	fmt.Fprintf(d.writer, "\nUploaded %d/%d file(s) in %s\n",
		len(batch.Successful), batch.Total, time.Since(d.startTime).Round(time.Second))

	if len(batch.Failed) == 0 {
		return
	}

	fmt.Fprintln(d.writer, "\nFailures:")
	for _, result := range batch.Failed {
		fmt.Fprintf(d.writer, "  %-30s  %s\n", result.DisplayName, result.Message)
	}
}
