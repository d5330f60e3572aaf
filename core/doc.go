// Package core defines the domain model of the ingestion pipeline:
// archive descriptors, raw and normalized article records, checkpoints,
// the inclusion filter, and the shared error taxonomy.
//
// The package has no dependencies on storage, transport, or embedding
// backends; everything here is plain data and pure functions.
package core
