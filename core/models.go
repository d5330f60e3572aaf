package core

import (
	"strconv"
	"time"
)

// PMID is the PubMed identifier of an article. It is globally unique
// across the whole corpus and stable across baseline releases.
type PMID uint64

// ParsePMID parses the decimal string form of a PubMed identifier.
func ParsePMID(s string) (PMID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return PMID(v), nil
}

// String returns the decimal form of the identifier.
func (p PMID) String() string {
	return strconv.FormatUint(uint64(p), 10)
}

// ArchiveFile describes one downloadable baseline archive.
// Once Verified is set the descriptor is treated as immutable.
type ArchiveFile struct {
	Sequence       int    // position in the baseline numbering, e.g. 17 for pubmed25n0017.xml.gz
	RemoteName     string // file name under the baseline directory
	ExpectedDigest string // published MD5 reference value, lowercase hex
	Verified       bool
	ByteLength     int64
}

// Author is one entry of an article's author list.
type Author struct {
	LastName string
	ForeName string
}

// PubDate is the publication date as it appears in the citation.
// Fields are kept as strings since PubMed dates may be partial
// ("2021", "Jul") or non-numeric ("Spring").
type PubDate struct {
	Year  string
	Month string
	Day   string
}

// Journal holds the journal issue fields of a citation.
type Journal struct {
	Title   string
	Volume  string
	PubDate PubDate
}

// RawRecord is one article as decoded from an archive, before filtering.
// It is transient: produced per archive pass and never persisted.
type RawRecord struct {
	PMID            PMID
	PMIDVersion     string
	Title           string
	Abstract        string // empty when the citation carries no abstract
	Language        string // ISO 639-2 code, e.g. "eng"
	Retracted       bool
	Authors         []Author
	AuthorsComplete bool
	Journal         Journal
	Keywords        []string
	DOI             string
}

// ArticleRecord is the normalized, filter-passed projection of a RawRecord.
// Payload is the metadata stored alongside the article's vectors.
type ArticleRecord struct {
	PMID     PMID
	Abstract string
	Payload  map[string]any
}

// Checkpoint records the last article fully persisted for one
// (archive, model) lane. LastPMID is monotonically non-decreasing
// within a single archive's traversal order.
type Checkpoint struct {
	Archive   int
	Model     string
	LastPMID  PMID
	UpdatedAt time.Time
}

// MetadataPayload builds the vector-store payload for a record.
// The shape matches what downstream search consumers expect.
func (r *RawRecord) MetadataPayload() map[string]any {
	authors := make([]any, len(r.Authors))
	for i, a := range r.Authors {
		authors[i] = map[string]any{
			"last_name": a.LastName,
			"fore_name": a.ForeName,
		}
	}

	keywords := make([]any, len(r.Keywords))
	for i, k := range r.Keywords {
		keywords[i] = k
	}

	return map[string]any{
		"pmid":             r.PMID.String(),
		"pmid_version":     r.PMIDVersion,
		"title":            r.Title,
		"abstract":         r.Abstract,
		"authors":          authors,
		"authors_complete": r.AuthorsComplete,
		"journal": map[string]any{
			"title":  r.Journal.Title,
			"volume": r.Journal.Volume,
			"pub_date": map[string]any{
				"year":  r.Journal.PubDate.Year,
				"month": r.Journal.PubDate.Month,
				"day":   r.Journal.PubDate.Day,
			},
		},
		"keywords": keywords,
		"publication_identifiers": map[string]any{
			"doi": r.DOI,
		},
		"language": r.Language,
	}
}
