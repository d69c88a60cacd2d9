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
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/docindex/core"
)

const hashBlockSize = 8192

// HashFile computes the BLAKE2b-256 digest of a file's contents, streaming
// in fixed-size blocks so memory use is independent of file size.
// Two files with identical bytes always produce the same digest.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrHashUnavailable, err)
	}
	defer file.Close()

	hasher, err := blake2b.New(32, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrHashUnavailable, err)
	}

	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(hasher, file, buf); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrHashUnavailable, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
