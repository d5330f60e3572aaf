package vectorstore

import (
	"context"

	"github.com/poiesic/pubvec/core"
)

// Distance is the similarity metric of a collection.
type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceEuclid Distance = "Euclid"
	DistanceDot    Distance = "Dot"
)

// CollectionSchema fixes a collection's name, vector dimension, and
// distance metric. Created once, immutable thereafter; a dimension
// mismatch on an existing collection is core.ErrSchemaConflict, never
// silently coerced.
type CollectionSchema struct {
	Name      string
	Dimension int
	Distance  Distance
}

// Point is one stored (identifier, vector, payload) unit.
type Point struct {
	ID      core.PMID
	Vector  []float32
	Payload map[string]any
}

// ScoredPoint is a query result with its similarity score.
type ScoredPoint struct {
	ID      core.PMID
	Score   float32
	Payload map[string]any
}

// Store is the vector store contract. Implementations must be thread-safe;
// EnsureCollection must be safe under concurrent first-use.
type Store interface {
	// EnsureCollection creates the collection if absent. It is an
	// idempotent "create if absent" call, not a check-then-create race:
	// a concurrent create of the same collection is success. An existing
	// collection with a different dimension fails with core.ErrSchemaConflict.
	EnsureCollection(ctx context.Context, schema CollectionSchema) error

	// Upsert writes a point, idempotently by point ID: a repeated call
	// with the same ID overwrites rather than duplicates. This is what
	// permits safe replay of an in-flight article after a crash.
	Upsert(ctx context.Context, collection string, point Point) error

	// QueryTopK returns the k nearest points to the query vector, ordered
	// by descending score. Consumed by the downstream search component.
	QueryTopK(ctx context.Context, collection string, vector []float32, k int) ([]ScoredPoint, error)

	// Close releases client resources.
	Close() error
}
