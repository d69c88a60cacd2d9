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

import "errors"

// Domain validation errors
var (
	// ErrInvalidFile indicates a file failed upload validation.
	ErrInvalidFile = errors.New("invalid file")

	// ErrFileNotFound indicates the path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrNotAFile indicates the path is not a regular file.
	ErrNotAFile = errors.New("not a file")

	// ErrEmptyFile indicates the file has no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrFileTooLarge indicates the file exceeds the upload size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedExtension indicates the file type is not accepted
	// by the remote index.
	ErrUnsupportedExtension = errors.New("unsupported file type")

	// ErrDuplicateInProgress indicates an upload for the same store/file
	// pair is already running.
	ErrDuplicateInProgress = errors.New("upload already in progress for this file to this store")

	// ErrHashUnavailable indicates a file could not be read during
	// duplicate detection.
	ErrHashUnavailable = errors.New("content hash unavailable")
)
