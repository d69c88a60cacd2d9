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


package faillog

import (
	"context"

	"github.com/poiesic/docindex/core"
)

// Log is an append-only record of upload failures.
type Log interface {
	// Append stores one failure record.
	Append(ctx context.Context, record core.FailureRecord) error

	// List returns all stored records in chronological order.
	List(ctx context.Context) ([]core.FailureRecord, error)

	// Clear removes all stored records.
	Clear(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}
