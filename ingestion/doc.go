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


// Package ingestion orchestrates the PubMed baseline ingestion pipeline.
//
// A run walks an inclusive range of archive sequence numbers. Each archive
// is downloaded once, verified against its published MD5 digest while it is
// spooled to disk, and then processed by one lane per configured embedding
// model. A lane streams records out of the archive, filters them, embeds
// the abstracts, writes points to the model's vector store collection, and
// advances a per-(archive, model) checkpoint after every acknowledged
// write.
//
// Lanes are independent: a lane that halts (for example because its
// embedding backend stays rate limited past the retry ceiling) does not
// stop the other lanes, and it resumes from its own checkpoint on the next
// run. Two failures are treated as fatal to the whole run because continuing
// would corrupt resume semantics: a checkpoint that cannot be persisted,
// and a collection whose dimension conflicts with the model that feeds it.
//
// Progress for each lane is reported to a writer (os.Stderr by default)
// with a running record count and throughput estimate.
package ingestion
