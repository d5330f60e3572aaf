package storage

import (
	"testing"
	"time"

	"github.com/poiesic/pubvec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointSerialization_RoundTrip(t *testing.T) {
	original := &core.Checkpoint{
		Archive:   17,
		Model:     "bge-m3",
		LastPMID:  31452104,
		UpdatedAt: time.Date(2025, 3, 9, 12, 30, 45, 123456000, time.UTC),
	}

	data := MarshalCheckpoint(original)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalCheckpoint(data)
	require.NoError(t, err)

	assert.Equal(t, original.Archive, decoded.Archive)
	assert.Equal(t, original.Model, decoded.Model)
	assert.Equal(t, original.LastPMID, decoded.LastPMID)
	assert.True(t, original.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestCheckpointSerialization_ZeroValues(t *testing.T) {
	original := &core.Checkpoint{}

	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(original))
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.Archive)
	assert.Equal(t, "", decoded.Model)
	assert.Equal(t, core.PMID(0), decoded.LastPMID)
}

func TestCheckpointSerialization_Truncated(t *testing.T) {
	checkpoint := &core.Checkpoint{
		Archive:  3,
		Model:    "text-embedding-3-small",
		LastPMID: 999,
	}
	data := MarshalCheckpoint(checkpoint)

	_, err := UnmarshalCheckpoint(data[:len(data)/2])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestCheckpointMUS_SizeMatchesMarshal(t *testing.T) {
	checkpoint := core.Checkpoint{
		Archive:   1220,
		Model:     "bge-large",
		LastPMID:  1,
		UpdatedAt: time.Now().UTC(),
	}

	buf := make([]byte, CheckpointMUS.Size(checkpoint))
	n := CheckpointMUS.Marshal(checkpoint, buf)
	assert.Equal(t, len(buf), n)
}
