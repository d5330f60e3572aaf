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


package pubvec

import (
	"log/slog"

	"github.com/poiesic/pubvec/ai"
	"github.com/poiesic/pubvec/fetch"
	"github.com/poiesic/pubvec/ingestion"
	"github.com/poiesic/pubvec/storage"
	"github.com/poiesic/pubvec/storage/badger"
	"github.com/poiesic/pubvec/vectorstore"
	"github.com/poiesic/pubvec/vectorstore/qdrant"
)

// DefaultQdrantAddr is the default Qdrant gRPC endpoint.
const DefaultQdrantAddr = "localhost:6334"

// Ingestor bundles the moving parts of the pipeline: the checkpoint
// database, the archive source, the vector store, and the embedding models.
type Ingestor struct {
	backend        *badger.Backend
	checkpointRepo storage.CheckpointRepository
	source         fetch.Source
	store          vectorstore.Store
	embedders      []ai.Embedder
	logger         *slog.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*ingestorOptions)

type ingestorOptions struct {
	source     fetch.Source
	store      vectorstore.Store
	qdrantAddr string
	baseURL    string
}

// WithSource replaces the default NCBI baseline source, typically with a
// test double or a mirror.
func WithSource(source fetch.Source) IngestorOption {
	return func(o *ingestorOptions) {
		o.source = source
	}
}

// WithVectorStore replaces the default Qdrant store.
func WithVectorStore(store vectorstore.Store) IngestorOption {
	return func(o *ingestorOptions) {
		o.store = store
	}
}

// WithQdrantAddr sets the Qdrant gRPC address.
// Default is DefaultQdrantAddr. Ignored when WithVectorStore is used.
func WithQdrantAddr(addr string) IngestorOption {
	return func(o *ingestorOptions) {
		o.qdrantAddr = addr
	}
}

// WithBaseURL sets the baseline download URL.
// Default is fetch.DefaultBaseURL. Ignored when WithSource is used.
func WithBaseURL(url string) IngestorOption {
	return func(o *ingestorOptions) {
		o.baseURL = url
	}
}

// NewIngestor opens the checkpoint database at filePath and wires the
// default source and vector store unless options replace them.
func NewIngestor(filePath string, embedders []ai.Embedder, opts ...IngestorOption) (*Ingestor, error) {
	if len(embedders) == 0 {
		return nil, ingestion.ErrNoEmbedders
	}

	options := &ingestorOptions{
		qdrantAddr: DefaultQdrantAddr,
		baseURL:    fetch.DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	checkpointRepo := badger.NewCheckpointRepository(backend)

	source := options.source
	if source == nil {
		source = fetch.NewBaselineSource(options.baseURL)
	}

	store := options.store
	if store == nil {
		store, err = qdrant.NewStore(options.qdrantAddr)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Ingestor{
		backend:        backend,
		checkpointRepo: checkpointRepo,
		source:         source,
		store:          store,
		embedders:      embedders,
		logger:         slog.Default(),
	}, nil
}

// NewPipeline creates an ingestion pipeline over the ingestor's components.
func (in *Ingestor) NewPipeline(config *ingestion.Config, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(in.source, in.checkpointRepo, in.store, in.embedders, config, opts...)
}

// CheckpointRepository exposes the checkpoint repository, for inspection
// commands.
func (in *Ingestor) CheckpointRepository() storage.CheckpointRepository {
	return in.checkpointRepo
}

func (in *Ingestor) Close() error {
	if err := in.store.Close(); err != nil {
		in.logger.Error("error closing vector store", "err", err)
	}

	if err := in.backend.Close(); err != nil {
		in.logger.Error("error closing checkpoint storage", "err", err)
		return err
	}
	return nil
}
