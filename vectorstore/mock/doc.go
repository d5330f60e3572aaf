// Package mock provides an in-memory vectorstore.Store used by tests. It
// mirrors the schema and dimension enforcement of the Qdrant backend and
// exposes inspection helpers for asserting on stored points.
package mock
