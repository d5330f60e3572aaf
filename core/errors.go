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

import "errors"

// Domain error taxonomy
var (
	// ErrChecksumMismatch indicates an archive's computed digest does not
	// match the published reference value. The archive is never parsed.
	ErrChecksumMismatch = errors.New("archive checksum mismatch")

	// ErrArchiveCorrupt indicates an unrecoverable decode failure in the
	// archive structure. Processing of that archive is abandoned.
	ErrArchiveCorrupt = errors.New("archive corrupt")

	// ErrRecordParse indicates a single malformed record. The record is
	// skipped without aborting the archive.
	ErrRecordParse = errors.New("record parse failure")

	// ErrDimensionMismatch indicates an embedding whose length does not
	// match the model's declared dimension. The vector is never written.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrSchemaConflict indicates an existing collection whose dimension
	// differs from the model's declared dimension. Requires operator
	// intervention; collections are never auto-migrated.
	ErrSchemaConflict = errors.New("collection schema conflict")
)
