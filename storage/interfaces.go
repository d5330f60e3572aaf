package storage

import (
	"context"

	"github.com/poiesic/pubvec/core"
)

// CheckpointRepository is the durable mapping from (archive, model) to the
// last article fully persisted in that lane. Implementations must be
// thread-safe: lanes for different models update their entries concurrently.
type CheckpointRepository interface {
	// ResumePoint returns the last PMID fully persisted for the lane.
	// The second return value is false when the lane has no checkpoint yet.
	ResumePoint(ctx context.Context, archive int, model string) (core.PMID, bool, error)

	// RecordProgress durably persists the lane's new last PMID. It must
	// complete before the caller advances to the next article; this
	// ordering is what makes resume-after-crash safe.
	// A regression (pmid lower than the stored value for the same lane)
	// is rejected with ErrCheckpointRegressed.
	RecordProgress(ctx context.Context, archive int, model string, pmid core.PMID) error

	// List returns all stored checkpoints, ordered by key.
	List(ctx context.Context) ([]*core.Checkpoint, error)
}
