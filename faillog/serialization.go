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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/docindex/core"
)

// failureRecordSer serializes FailureRecord in MUS format.
// Timestamps are stored as Unix microseconds.
type failureRecordSer struct{}

// FailureRecordMUS is the MUS serializer for core.FailureRecord.
var FailureRecordMUS = failureRecordSer{}

func (failureRecordSer) Marshal(v core.FailureRecord, bs []byte) (n int) {
	n = varint.Int64.Marshal(v.Timestamp.UnixMicro(), bs)
	n += ord.String.Marshal(v.Filename, bs[n:])
	n += ord.String.Marshal(v.Store, bs[n:])
	n += ord.String.Marshal(v.Error, bs[n:])
	return n
}

func (failureRecordSer) Unmarshal(bs []byte) (v core.FailureRecord, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Timestamp = time.UnixMicro(micros).UTC()

	var n1 int
	v.Filename, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Store, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (failureRecordSer) Size(v core.FailureRecord) (size int) {
	size = varint.Int64.Size(v.Timestamp.UnixMicro())
	size += ord.String.Size(v.Filename)
	size += ord.String.Size(v.Store)
	size += ord.String.Size(v.Error)
	return size
}

func (failureRecordSer) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int64.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		var n1 int
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// MarshalFailureRecord serializes a FailureRecord to bytes.
func MarshalFailureRecord(record core.FailureRecord) []byte {
	buf := make([]byte, FailureRecordMUS.Size(record))
	FailureRecordMUS.Marshal(record, buf)
	return buf
}

// UnmarshalFailureRecord deserializes a FailureRecord from bytes.
func UnmarshalFailureRecord(data []byte) (core.FailureRecord, error) {
	record, _, err := FailureRecordMUS.Unmarshal(data)
	return record, err
}
