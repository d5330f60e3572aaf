// Package qdrant provides the Qdrant-backed implementation of
// vectorstore.Store. It talks to a Qdrant server over gRPC, creating
// collections on demand and writing points idempotently keyed by PMID.
package qdrant
