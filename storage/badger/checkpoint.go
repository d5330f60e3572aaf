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
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pubvec/core"
	"github.com/poiesic/pubvec/storage"
)

// CheckpointRepository implements storage.CheckpointRepository for BadgerDB.
type CheckpointRepository struct {
	backend *Backend
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository creates a new CheckpointRepository.
//
// Returns storage.CheckpointRepository interface to enforce abstraction.
func NewCheckpointRepository(backend *Backend) storage.CheckpointRepository {
	return &CheckpointRepository{
		backend: backend,
	}
}

// ResumePoint retrieves the last persisted PMID for an (archive, model) lane.
// Returns (0, false, nil) if the lane has no checkpoint.
func (r *CheckpointRepository) ResumePoint(ctx context.Context, archive int, model string) (core.PMID, bool, error) {
	var checkpoint *core.Checkpoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCheckpointKey(archive, model)
		item, err := tx.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			checkpoint, unmarshalErr = storage.UnmarshalCheckpoint(val)
			return unmarshalErr
		})
	}, false)

	if err != nil {
		return 0, false, err
	}
	if checkpoint == nil {
		return 0, false, nil
	}
	return checkpoint.LastPMID, true, nil
}

// RecordProgress durably persists a lane's new last PMID. The write is
// committed before returning, so a crash after RecordProgress never loses
// the entry. A pmid lower than the stored value for the same lane is
// rejected with storage.ErrCheckpointRegressed.
func (r *CheckpointRepository) RecordProgress(ctx context.Context, archive int, model string, pmid core.PMID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCheckpointKey(archive, model)

		item, err := tx.Get(key)
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if err == nil {
			var existing *core.Checkpoint
			valErr := item.Value(func(val []byte) error {
				var unmarshalErr error
				existing, unmarshalErr = storage.UnmarshalCheckpoint(val)
				return unmarshalErr
			})
			if valErr != nil {
				return valErr
			}
			if pmid < existing.LastPMID {
				return fmt.Errorf("%w: archive %d model %s: %d < %d",
					storage.ErrCheckpointRegressed, archive, model, pmid, existing.LastPMID)
			}
		}

		checkpoint := &core.Checkpoint{
			Archive:   archive,
			Model:     model,
			LastPMID:  pmid,
			UpdatedAt: time.Now().UTC(),
		}
		if err := tx.Set(key, storage.MarshalCheckpoint(checkpoint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// List returns all stored checkpoints, ordered by key (archive, then model).
func (r *CheckpointRepository) List(ctx context.Context) ([]*core.Checkpoint, error) {
	var checkpoints []*core.Checkpoint

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = checkpointScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				checkpoint, unmarshalErr := storage.UnmarshalCheckpoint(val)
				if unmarshalErr != nil {
					return unmarshalErr
				}
				checkpoints = append(checkpoints, checkpoint)
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
	return checkpoints, nil
}
