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


// Package ai provides the embedding capability contract used by the
// ingestion pipeline.
//
// The Embedder interface models a named embedding model with a fixed
// declared dimension. Multiple embedders may be configured simultaneously;
// the orchestrator offers every filter-passed article to each configured
// embedder independently.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible embedding APIs (Ollama /v1, LocalAI, vLLM, OpenAI)
//   - ai/ollama: native Ollama embedding API
//   - ai/mock: deterministic test doubles without external dependencies
//
// Public constructors (openai.NewEmbedder, ollama.NewEmbedder) return the
// ai.Embedder interface to enforce abstraction. Mock constructors return
// concrete types so tests can inject behavior and assert on call counts.
//
// # Failure Taxonomy
//
// Backend failures are classified into two sentinel errors: ErrRateLimited
// for explicit rate-limit signals and ErrBackendUnavailable for everything
// else. Both are transient; IsRetryable reports them as retry-worthy.
package ai
