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


package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/faillog"
)

// Key prefixes for failure records
const (
	failureRecordPrefix = "failrec"
	failureIDSeq        = "failrecseq"
)

// makeFailureKey generates a composite key for a failure record.
// Format: prefix:timestamp:id, with fixed-width BigEndian fields so
// lexicographic iteration yields chronological order.
func makeFailureKey(timestamp time.Time, id uint64) []byte {
	prefix := failureRecordPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// FailureLog implements faillog.Log on a BadgerDB backend.
type FailureLog struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ faillog.Log = (*FailureLog)(nil)

// NewFailureLog creates a failure log on top of backend.
func NewFailureLog(backend *Backend) (*FailureLog, error) {
	idSeq, err := backend.GetSequence(failureIDSeq)
	if err != nil {
		return nil, err
	}
	return &FailureLog{backend: backend, idSeq: idSeq}, nil
}

// Close releases the ID sequence. The backend is closed separately by
// its owner.
func (l *FailureLog) Close() error {
	return l.idSeq.Release()
}

// Append stores one failure record. A zero timestamp is filled with the
// current time.
func (l *FailureLog) Append(_ context.Context, record core.FailureRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	return l.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := l.idSeq.Next()
		if err != nil {
			return err
		}

		key := makeFailureKey(record.Timestamp, nextID)
		if err := tx.Set(key, faillog.MarshalFailureRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// List returns all stored records in chronological order.
func (l *FailureLog) List(_ context.Context) ([]core.FailureRecord, error) {
	var records []core.FailureRecord

	err := l.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(failureRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			// Skip the sequence key, which shares the prefix
			if bytes.Equal(item.Key(), []byte(failureIDSeq)) {
				continue
			}

			err := item.Value(func(val []byte) error {
				record, err := faillog.UnmarshalFailureRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// Clear removes all stored records. The ID sequence is left alone so
// later appends keep unique keys.
func (l *FailureLog) Clear(_ context.Context) error {
	return l.backend.WithTx(func(tx *badger.Txn) error {
		var keys [][]byte

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(failureRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().KeyCopy(nil)
			if bytes.Equal(key, []byte(failureIDSeq)) {
				continue
			}
			keys = append(keys, key)
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
