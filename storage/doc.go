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


// Package storage defines the durable checkpoint abstraction of the
// ingestion pipeline.
//
// Checkpoints are first-class state, not a side effect of log files: the
// CheckpointRepository is a key-value mapping partitioned by
// (archive, model) with atomic single-entry updates. Every lane consults
// its resume point before extraction and records progress after each
// successful vector write, which is the whole of the pipeline's
// crash-recovery story: at most one in-flight article is replayed, and
// replay is safe because vector writes are idempotent.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the repository interface
// to enforce abstraction:
//
//	checkpoints := badger.NewCheckpointRepository(backend)  // storage.CheckpointRepository
//
// # Thread Safety
//
// Implementations must be thread-safe; lanes for different models update
// their entries concurrently.
package storage
