package pubvec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/pubvec/ai"
	aimock "github.com/poiesic/pubvec/ai/mock"
	vsmock "github.com/poiesic/pubvec/vectorstore/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmbedders() []ai.Embedder {
	return []ai.Embedder{aimock.NewMockEmbedder("mock-model", 8)}
}

func TestNewIngestor(t *testing.T) {
	t.Run("create new ingestor", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		in, err := NewIngestor(tmpDir, testEmbedders(), WithVectorStore(vsmock.NewMockStore()))
		require.NoError(t, err)
		require.NotNil(t, in)
		defer in.Close()

		assert.NotNil(t, in.CheckpointRepository())
		assert.NotNil(t, in.backend)
		assert.NotNil(t, in.source)
		assert.NotNil(t, in.logger)
	})

	t.Run("error with no embedders", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		in, err := NewIngestor(tmpDir, nil, WithVectorStore(vsmock.NewMockStore()))
		assert.Error(t, err)
		assert.Nil(t, in)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open the database at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		in, err := NewIngestor(tmpFile, testEmbedders(), WithVectorStore(vsmock.NewMockStore()))
		assert.Error(t, err)
		assert.Nil(t, in)
	})
}

func TestIngestor_Close(t *testing.T) {
	tmpDir := t.TempDir()
	in, err := NewIngestor(tmpDir, testEmbedders(), WithVectorStore(vsmock.NewMockStore()))
	require.NoError(t, err)
	require.NotNil(t, in)

	err = in.Close()
	assert.NoError(t, err)
}

func TestIngestor_NewPipeline(t *testing.T) {
	tmpDir := t.TempDir()
	in, err := NewIngestor(tmpDir, testEmbedders(), WithVectorStore(vsmock.NewMockStore()))
	require.NoError(t, err)
	defer in.Close()

	pipeline, err := in.NewPipeline(nil)
	require.NoError(t, err)
	require.NotNil(t, pipeline)
	pipeline.Release()
}
