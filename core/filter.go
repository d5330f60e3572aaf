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


package core

import "strings"

// ExclusionReason explains why a record was excluded by the filter.
type ExclusionReason int

const (
	// ReasonNone means the record passed the filter.
	ReasonNone ExclusionReason = iota
	// ReasonRetracted means the citation carries a retraction notice.
	ReasonRetracted
	// ReasonNoAbstract means the abstract is missing or empty.
	ReasonNoAbstract
	// ReasonLanguage means the language code differs from the configured target.
	ReasonLanguage
)

// String returns a short label for logging.
func (r ExclusionReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonRetracted:
		return "retracted"
	case ReasonNoAbstract:
		return "no-abstract"
	case ReasonLanguage:
		return "language"
	default:
		return "unknown"
	}
}

// ApplyFilter decides whether a raw record enters the embedding stages.
// Rules are evaluated in a fixed order and the first matching rule is the
// reported reason. The function is pure: the same record always yields the
// same outcome.
//
// On exclusion the returned record is nil. On inclusion the returned
// ArticleRecord carries the normalized abstract and the full metadata
// payload.
func ApplyFilter(rec *RawRecord, targetLanguage string) (*ArticleRecord, ExclusionReason) {
	if rec.Retracted {
		return nil, ReasonRetracted
	}
	abstract := strings.TrimSpace(rec.Abstract)
	if abstract == "" {
		return nil, ReasonNoAbstract
	}
	if rec.Language != targetLanguage {
		return nil, ReasonLanguage
	}

	return &ArticleRecord{
		PMID:     rec.PMID,
		Abstract: abstract,
		Payload:  rec.MetadataPayload(),
	}, ReasonNone
}
