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


package metadata

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/docindex/index"
)

// MaxEntries is the API limit on custom metadata entries per document.
const MaxEntries = 20

var (
	yearPattern    = regexp.MustCompile(`\b(20\d{2})\b`)
	quarterPattern = regexp.MustCompile(`(?i)\b(Q[1-4])\b`)
	datePattern    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	versionPattern = regexp.MustCompile(`\b[vV]ersion[_-]?(\d+\.?\d*)\b`)
	shortVersion   = regexp.MustCompile(`\b[vV](\d+\.?\d*)\b`)
)

// docTypePattern maps a filename prefix pattern to a document type label.
type docTypePattern struct {
	pattern *regexp.Regexp
	label   string
}

var docTypePatterns = []docTypePattern{
	{regexp.MustCompile(`(?i)^(invoice|receipt|bill)`), "invoice"},
	{regexp.MustCompile(`(?i)^(report|summary)`), "report"},
	{regexp.MustCompile(`(?i)^(contract|agreement)`), "contract"},
	{regexp.MustCompile(`(?i)^(proposal)`), "proposal"},
	{regexp.MustCompile(`(?i)^(meeting|minutes)`), "meeting_notes"},
	{regexp.MustCompile(`(?i)^(presentation|slides)`), "presentation"},
}

// Extract derives custom metadata for a file from its properties and its
// filename, capped at MaxEntries. Extraction is best-effort: unreadable
// properties are skipped with a warning, never an error.
func Extract(path string, logger *slog.Logger) []index.CustomMetadata {
	if logger == nil {
		logger = slog.Default()
	}

	entries := fileProperties(path, logger)
	entries = append(entries, parseFilename(filepath.Base(path))...)

	return Cap(entries)
}

// Cap truncates entries to the API limit.
func Cap(entries []index.CustomMetadata) []index.CustomMetadata {
	if len(entries) > MaxEntries {
		return entries[:MaxEntries]
	}
	return entries
}

func fileProperties(path string, logger *slog.Logger) []index.CustomMetadata {
	var entries []index.CustomMetadata

	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		entries = append(entries, index.CustomMetadata{
			Key:         "file_extension",
			StringValue: ext,
		})
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("could not read file properties", "file", path, "err", err)
		return entries
	}

	sizeMB := float64(info.Size()) / (1024 * 1024)
	entries = append(entries,
		index.CustomMetadata{
			Key:          "file_size_mb",
			NumericValue: math.Round(sizeMB*100) / 100,
		},
		index.CustomMetadata{
			Key:         "upload_timestamp",
			StringValue: time.Now().Format(time.RFC3339),
		},
		index.CustomMetadata{
			Key:         "file_modified",
			StringValue: info.ModTime().Format(time.RFC3339),
		},
	)

	return entries
}

// parseFilename pulls structured tokens out of a filename, such as
// "Report_2024_Q1.pdf" yielding year 2024 and quarter Q1.
func parseFilename(filename string) []index.CustomMetadata {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	var entries []index.CustomMetadata

	if m := yearPattern.FindStringSubmatch(stem); m != nil {
		entries = append(entries, index.CustomMetadata{
			Key:         "filename_year",
			StringValue: m[1],
		})
	}

	if m := quarterPattern.FindStringSubmatch(stem); m != nil {
		entries = append(entries, index.CustomMetadata{
			Key:         "filename_quarter",
			StringValue: strings.ToUpper(m[1]),
		})
	}

	if m := datePattern.FindStringSubmatch(stem); m != nil {
		entries = append(entries, index.CustomMetadata{
			Key:         "filename_date",
			StringValue: m[1],
		})
	}

	version := versionPattern.FindStringSubmatch(stem)
	if version == nil {
		version = shortVersion.FindStringSubmatch(stem)
	}
	if version != nil {
		entries = append(entries, index.CustomMetadata{
			Key:         "filename_version",
			StringValue: version[1],
		})
	}

	for _, dt := range docTypePatterns {
		if dt.pattern.MatchString(stem) {
			entries = append(entries, index.CustomMetadata{
				Key:         "filename_document_type",
				StringValue: dt.label,
			})
			break
		}
	}

	return entries
}

// FormatEntry renders one metadata entry for display.
func FormatEntry(entry index.CustomMetadata) string {
	switch {
	case entry.StringValue != "":
		return fmt.Sprintf("%s=%s", entry.Key, entry.StringValue)
	case len(entry.StringListValue) > 0:
		return fmt.Sprintf("%s=%s", entry.Key, strings.Join(entry.StringListValue, ","))
	default:
		return fmt.Sprintf("%s=%g", entry.Key, entry.NumericValue)
	}
}
