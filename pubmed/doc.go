// Package pubmed decodes PubMed baseline archives.
//
// The Extractor is a pull-based producer over a gzip-compressed XML
// archive: each call to Next decodes exactly one MedlineCitation, so an
// archive with tens of thousands of articles is processed under constant
// memory. Malformed individual citations are reported per record and can
// be skipped; structural decode failures abort the archive.
package pubmed
