package badger

import (
	"context"
	"testing"

	"github.com/poiesic/pubvec/core"
	"github.com/poiesic/pubvec/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.CheckpointRepository {
	t.Helper()
	repo, backend, err := NewMemoryCheckpoints()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return repo
}

func TestCheckpointRepository_EmptyLane(t *testing.T) {
	repo := newTestRepo(t)

	pmid, ok, err := repo.ResumePoint(context.Background(), 1, "bge-m3")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, core.PMID(0), pmid)
}

func TestCheckpointRepository_RecordAndResume(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-m3", 100))

	pmid, ok, err := repo.ResumePoint(ctx, 1, "bge-m3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.PMID(100), pmid)
}

func TestCheckpointRepository_LanesAreIndependent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-m3", 100))
	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-large", 50))
	require.NoError(t, repo.RecordProgress(ctx, 2, "bge-m3", 10))

	pmid, _, err := repo.ResumePoint(ctx, 1, "bge-m3")
	require.NoError(t, err)
	assert.Equal(t, core.PMID(100), pmid)

	pmid, _, err = repo.ResumePoint(ctx, 1, "bge-large")
	require.NoError(t, err)
	assert.Equal(t, core.PMID(50), pmid)

	pmid, _, err = repo.ResumePoint(ctx, 2, "bge-m3")
	require.NoError(t, err)
	assert.Equal(t, core.PMID(10), pmid)
}

func TestCheckpointRepository_MonotonicAdvance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-m3", 100))
	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-m3", 101))
	// Re-recording the same PMID is allowed (replay of an in-flight article).
	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-m3", 101))

	pmid, _, err := repo.ResumePoint(ctx, 1, "bge-m3")
	require.NoError(t, err)
	assert.Equal(t, core.PMID(101), pmid)
}

func TestCheckpointRepository_RejectsRegression(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-m3", 100))

	err := repo.RecordProgress(ctx, 1, "bge-m3", 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCheckpointRegressed)

	// The stored value is untouched.
	pmid, _, err := repo.ResumePoint(ctx, 1, "bge-m3")
	require.NoError(t, err)
	assert.Equal(t, core.PMID(100), pmid)
}

func TestCheckpointRepository_List(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordProgress(ctx, 2, "bge-m3", 20))
	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-large", 11))
	require.NoError(t, repo.RecordProgress(ctx, 1, "bge-m3", 10))

	checkpoints, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, checkpoints, 3)

	// Ordered by key: archive first (zero-padded), then model name.
	assert.Equal(t, 1, checkpoints[0].Archive)
	assert.Equal(t, "bge-large", checkpoints[0].Model)
	assert.Equal(t, 1, checkpoints[1].Archive)
	assert.Equal(t, "bge-m3", checkpoints[1].Model)
	assert.Equal(t, 2, checkpoints[2].Archive)
	assert.Equal(t, core.PMID(20), checkpoints[2].LastPMID)
}

func TestCheckpointRepository_ConcurrentLanes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	done := make(chan error, 2)
	for _, model := range []string{"bge-m3", "bge-large"} {
		go func(model string) {
			var err error
			for pmid := core.PMID(1); pmid <= 50; pmid++ {
				if err = repo.RecordProgress(ctx, 1, model, pmid); err != nil {
					break
				}
			}
			done <- err
		}(model)
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	for _, model := range []string{"bge-m3", "bge-large"} {
		pmid, ok, err := repo.ResumePoint(ctx, 1, model)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, core.PMID(50), pmid)
	}
}
