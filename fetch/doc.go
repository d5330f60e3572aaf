// Package fetch acquires baseline archives and verifies their integrity.
//
// A Source addresses archives by sequence number and pairs each with the
// published reference digest under the same addressing scheme. SpoolVerified
// streams an archive to local storage while computing its digest, so
// integrity is checked without buffering the whole file; an archive that
// fails verification is never handed to the extractor.
package fetch
