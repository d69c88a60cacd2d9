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


package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Upload size limit enforced by the remote index.
const (
	MaxFileSizeMB    = 100
	MaxFileSizeBytes = MaxFileSizeMB * 1024 * 1024
)

// supportedExtensions is the set of file types the remote index accepts.
var supportedExtensions = map[string]bool{
	// Documents
	".pdf": true, ".docx": true, ".doc": true, ".txt": true, ".rtf": true,
	".md": true, ".html": true, ".htm": true, ".odt": true, ".odp": true,
	".ods": true,
	// Spreadsheets
	".csv": true, ".xlsx": true, ".xls": true, ".tsv": true,
	// Presentations
	".pptx": true,
	// Code
	".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".java": true, ".c": true, ".cpp": true, ".h": true, ".hpp": true,
	".cs": true, ".go": true, ".rs": true, ".rb": true, ".php": true,
	".swift": true, ".kt": true, ".scala": true, ".r": true, ".m": true,
	".mm": true, ".sql": true, ".sh": true, ".bash": true, ".zsh": true,
	".ps1": true, ".bat": true, ".cmd": true, ".yaml": true, ".yml": true,
	".toml": true, ".ini": true, ".cfg": true, ".conf": true,
	// Data
	".json": true, ".xml": true,
	// Other
	".tex": true, ".latex": true, ".ipynb": true, ".vtt": true, ".srt": true,
}

// SupportedExtension reports whether the file extension (with leading dot,
// any case) is accepted for upload.
func SupportedExtension(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// ValidateFile checks that a path is uploadable.
//
// Validation rules:
//   - path exists and is a regular file
//   - file is not empty
//   - file size is within MaxFileSizeBytes
//   - file extension is supported
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if info.IsDir() || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	if info.Size() > MaxFileSizeBytes {
		return fmt.Errorf("%w: %s is %s, maximum allowed is %d MB",
			ErrFileTooLarge, path, FormatBytes(info.Size()), MaxFileSizeMB)
	}

	if ext := filepath.Ext(path); !SupportedExtension(ext) {
		return fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}

	return nil
}

// FormatBytes converts a byte count to a human-readable string.
func FormatBytes(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", value)
}
