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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/pubvec/core"
)

// CheckpointMUS serializes core.Checkpoint values in the MUS binary format.
// Field order: Archive, Model, LastPMID, UpdatedAt (unix microseconds).
var CheckpointMUS = checkpointMUS{}

type checkpointMUS struct{}

// Size returns the serialized length of a checkpoint.
func (checkpointMUS) Size(c core.Checkpoint) int {
	return varint.Int.Size(c.Archive) +
		ord.String.Size(c.Model) +
		varint.Uint64.Size(uint64(c.LastPMID)) +
		varint.Int64.Size(c.UpdatedAt.UnixMicro())
}

// Marshal writes the checkpoint into bs, returning the bytes written.
func (checkpointMUS) Marshal(c core.Checkpoint, bs []byte) int {
	n := varint.Int.Marshal(c.Archive, bs)
	n += ord.String.Marshal(c.Model, bs[n:])
	n += varint.Uint64.Marshal(uint64(c.LastPMID), bs[n:])
	n += varint.Int64.Marshal(c.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

// Unmarshal reads a checkpoint from bs, returning the bytes consumed.
func (checkpointMUS) Unmarshal(bs []byte) (c core.Checkpoint, n int, err error) {
	archive, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return c, n, err
	}
	model, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return c, n, err
	}
	pmid, n2, err := varint.Uint64.Unmarshal(bs[n:])
	n += n2
	if err != nil {
		return c, n, err
	}
	usec, n3, err := varint.Int64.Unmarshal(bs[n:])
	n += n3
	if err != nil {
		return c, n, err
	}

	c = core.Checkpoint{
		Archive:   archive,
		Model:     model,
		LastPMID:  core.PMID(pmid),
		UpdatedAt: time.UnixMicro(usec).UTC(),
	}
	return c, n, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	buf := make([]byte, CheckpointMUS.Size(*checkpoint))
	CheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, _, err := CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &checkpoint, nil
}
