package ai

import "context"

// Embedder generates vector embeddings of abstract text under a named model.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// Name returns the model identifier, e.g. "bge-m3".
	Name() string

	// Dimension returns the fixed vector dimension declared for the model.
	// It never changes for the lifetime of the embedder.
	Dimension() int

	// EmbedText generates a vector embedding for a single text string.
	// Errors are classified: rate-limit responses wrap ErrRateLimited,
	// any other backend failure wraps ErrBackendUnavailable.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
