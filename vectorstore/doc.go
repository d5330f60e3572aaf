// Package vectorstore defines the vector store contract used by the
// ingestion pipeline: idempotent collection creation, idempotent point
// upserts keyed by article identifier, and top-k similarity queries.
//
// The production implementation lives in vectorstore/qdrant; an
// observable in-memory implementation for tests lives in vectorstore/mock.
package vectorstore
