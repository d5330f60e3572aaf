package ingestion

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrSourceRequired is returned when an archive source is not provided.
	ErrSourceRequired = errors.New("archive source required")

	// ErrCheckpointRepositoryRequired is returned when a checkpoint repository is not provided.
	ErrCheckpointRepositoryRequired = errors.New("checkpoint repository required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrNoEmbedders is returned when no embedding models are configured.
	ErrNoEmbedders = errors.New("at least one embedder required")

	// ErrCheckpointPersist is returned when recording progress fails after a
	// successful write. The run must stop: continuing would risk unbounded
	// rework on the next resume.
	ErrCheckpointPersist = errors.New("checkpoint persist failed")
)
