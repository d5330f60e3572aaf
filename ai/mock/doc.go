// Package mock provides test doubles for the ai package.
//
// MockEmbedder generates deterministic vectors from an FNV hash of the
// input text, so tests get stable embeddings without a running backend.
// Failure behavior is injected through the exported function fields.
package mock
