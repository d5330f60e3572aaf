// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pubmed

import (
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/pubvec/core"
)

// Extractor incrementally decodes a gzip-compressed baseline archive,
// yielding one RawRecord per citation. Memory use is bounded by a single
// record regardless of archive size.
//
// Error contract for Next:
//   - io.EOF: the archive is exhausted.
//   - errors wrapping core.ErrRecordParse: one malformed record; the
//     extractor remains usable and the caller should skip the record.
//   - errors wrapping core.ErrArchiveCorrupt: unrecoverable structural
//     failure (gzip or XML syntax); the extractor must be abandoned.
type Extractor struct {
	gz  *gzip.Reader
	dec *xml.Decoder
}

// NewExtractor wraps a verified archive byte stream.
// A stream that is not valid gzip fails with core.ErrArchiveCorrupt.
func NewExtractor(r io.Reader) (*Extractor, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrArchiveCorrupt, err)
	}
	return &Extractor{
		gz:  gz,
		dec: xml.NewDecoder(gz),
	}, nil
}

// Next returns the next citation in the archive's traversal order.
func (e *Extractor) Next() (*core.RawRecord, error) {
	for {
		tok, err := e.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %v", core.ErrArchiveCorrupt, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "MedlineCitation" {
			continue
		}

		var cit medlineCitationXML
		if err := e.dec.DecodeElement(&cit, &start); err != nil {
			// The decoder cannot recover its position after a syntax
			// error inside an element.
			return nil, fmt.Errorf("%w: %v", core.ErrArchiveCorrupt, err)
		}

		return cit.toRecord()
	}
}

// Close releases the decompressor. It does not close the underlying reader.
func (e *Extractor) Close() error {
	return e.gz.Close()
}

// retractionRefTypes are the CommentsCorrections RefType values that mark
// a citation as retracted.
var retractionRefTypes = map[string]bool{
	"Retraction of": true,
	"Retraction in": true,
}

type medlineCitationXML struct {
	PMID struct {
		Value   string `xml:",chardata"`
		Version string `xml:"Version,attr"`
	} `xml:"PMID"`
	Article struct {
		Title    string `xml:"ArticleTitle"`
		Abstract struct {
			Texts []string `xml:"AbstractText"`
		} `xml:"Abstract"`
		Languages []string `xml:"Language"`
		Journal   struct {
			Title string `xml:"Title"`
			Issue struct {
				Volume  string `xml:"Volume"`
				PubDate struct {
					Year  string `xml:"Year"`
					Month string `xml:"Month"`
					Day   string `xml:"Day"`
				} `xml:"PubDate"`
			} `xml:"JournalIssue"`
		} `xml:"Journal"`
		AuthorList struct {
			CompleteYN string `xml:"CompleteYN,attr"`
			Authors    []struct {
				LastName string `xml:"LastName"`
				ForeName string `xml:"ForeName"`
			} `xml:"Author"`
		} `xml:"AuthorList"`
		ELocationIDs []struct {
			EIdType string `xml:"EIdType,attr"`
			Value   string `xml:",chardata"`
		} `xml:"ELocationID"`
	} `xml:"Article"`
	Keywords            []string `xml:"KeywordList>Keyword"`
	CommentsCorrections []struct {
		RefType string `xml:"RefType,attr"`
	} `xml:"CommentsCorrectionsList>CommentsCorrections"`
}

func (c *medlineCitationXML) toRecord() (*core.RawRecord, error) {
	pmidText := strings.TrimSpace(c.PMID.Value)
	if pmidText == "" {
		return nil, fmt.Errorf("%w: citation has no PMID", core.ErrRecordParse)
	}
	pmid, err := core.ParsePMID(pmidText)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid PMID %q", core.ErrRecordParse, pmidText)
	}

	rec := &core.RawRecord{
		PMID:        pmid,
		PMIDVersion: c.PMID.Version,
		Title:       strings.TrimSpace(c.Article.Title),
		Abstract:    joinAbstract(c.Article.Abstract.Texts),
	}

	if len(c.Article.Languages) > 0 {
		rec.Language = c.Article.Languages[0]
	}

	for _, cc := range c.CommentsCorrections {
		if retractionRefTypes[cc.RefType] {
			rec.Retracted = true
			break
		}
	}

	rec.Authors = make([]core.Author, 0, len(c.Article.AuthorList.Authors))
	for _, a := range c.Article.AuthorList.Authors {
		rec.Authors = append(rec.Authors, core.Author{
			LastName: a.LastName,
			ForeName: a.ForeName,
		})
	}
	rec.AuthorsComplete = c.Article.AuthorList.CompleteYN != "N"

	rec.Journal = core.Journal{
		Title:  c.Article.Journal.Title,
		Volume: c.Article.Journal.Issue.Volume,
		PubDate: core.PubDate{
			Year:  c.Article.Journal.Issue.PubDate.Year,
			Month: c.Article.Journal.Issue.PubDate.Month,
			Day:   c.Article.Journal.Issue.PubDate.Day,
		},
	}

	rec.Keywords = make([]string, 0, len(c.Keywords))
	for _, k := range c.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			rec.Keywords = append(rec.Keywords, k)
		}
	}

	for _, loc := range c.Article.ELocationIDs {
		if loc.EIdType == "doi" {
			rec.DOI = strings.TrimSpace(loc.Value)
			break
		}
	}

	return rec, nil
}

func joinAbstract(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
