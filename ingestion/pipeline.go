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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pubvec/ai"
	"github.com/poiesic/pubvec/core"
	"github.com/poiesic/pubvec/fetch"
	"github.com/poiesic/pubvec/storage"
	"github.com/poiesic/pubvec/vectorstore"
)

// Config holds configuration for an ingestion run.
type Config struct {
	// StartArchive and EndArchive bound the inclusive range of baseline
	// archive sequence numbers to process.
	StartArchive int
	EndArchive   int

	// MaxArticles caps the number of filter-included articles taken from
	// each archive per lane. Zero means no cap. Previously processed
	// articles below the resume point count toward the cap.
	MaxArticles int

	// Language is the required article language (MEDLINE code, e.g. "eng").
	Language string

	// CollectionPrefix is prepended to the model name to form each model's
	// collection name.
	CollectionPrefix string

	// MaxRetries is the maximum number of attempts for embedding calls.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration

	// ReportInterval is how often to report lane progress (number of records).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		StartArchive:     1,
		EndArchive:       1,
		Language:         "eng",
		CollectionPrefix: "pubmed",
		MaxRetries:       3,
		RetryDelay:       1 * time.Second,
		ReportInterval:   100,
	}
}

// Pipeline orchestrates the ingestion of PubMed baseline archives: fetch
// and verify each archive, then run one lane per embedding model over it
// concurrently. Lanes checkpoint independently, so a halted lane resumes
// without disturbing the others.
type Pipeline struct {
	source      fetch.Source
	checkpoints storage.CheckpointRepository
	store       vectorstore.Store
	embedders   []ai.Embedder
	config      *Config
	pool        *ants.Pool
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgressWriter sets where lane progress is written.
// Default is os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progress = w
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline. The worker pool is sized to
// the number of embedders so every lane of an archive runs concurrently.
func NewPipeline(
	source fetch.Source,
	checkpoints storage.CheckpointRepository,
	store vectorstore.Store,
	embedders []ai.Embedder,
	config *Config,
	opts ...Option,
) (*Pipeline, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if len(embedders) == 0 {
		return nil, ErrNoEmbedders
	}
	if config == nil {
		config = DefaultConfig()
	}

	pool, err := ants.NewPool(len(embedders))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		source:      source,
		checkpoints: checkpoints,
		store:       store,
		embedders:   embedders,
		config:      config,
		pool:        pool,
		progress:    os.Stderr,
		logger:      slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Run processes the configured archive range. It returns one result per
// archive. A checksum mismatch or corrupt archive aborts that archive and
// moves on; a checkpoint persist failure or collection schema conflict
// stops the whole run, returning the results accumulated so far.
func (p *Pipeline) Run(ctx context.Context) ([]*ArchiveResult, error) {
	if err := p.ensureCollections(ctx); err != nil {
		return nil, err
	}

	var results []*ArchiveResult
	for seq := p.config.StartArchive; seq <= p.config.EndArchive; seq++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		result := p.runArchive(ctx, seq)
		results = append(results, result)

		for _, lane := range result.Lanes {
			if lane.Err != nil && isFatal(lane.Err) {
				return results, fmt.Errorf("archive %d lane %s: %w", seq, lane.Model, lane.Err)
			}
		}
	}

	return results, nil
}

// ensureCollections creates or validates one collection per model before
// any archive work starts, so schema conflicts surface immediately.
func (p *Pipeline) ensureCollections(ctx context.Context) error {
	for _, embedder := range p.embedders {
		schema := vectorstore.CollectionSchema{
			Name:      CollectionName(p.config.CollectionPrefix, embedder.Name()),
			Dimension: embedder.Dimension(),
			Distance:  vectorstore.DistanceCosine,
		}
		if err := p.store.EnsureCollection(ctx, schema); err != nil {
			return fmt.Errorf("ensuring collection for %s: %w", embedder.Name(), err)
		}
		p.logger.Debug("collection ready", "collection", schema.Name, "dimension", schema.Dimension)
	}
	return nil
}

// runArchive fetches, verifies, and processes one archive across all lanes.
func (p *Pipeline) runArchive(ctx context.Context, seq int) *ArchiveResult {
	result := &ArchiveResult{Sequence: seq, State: StateFetching}

	archivePath, err := p.spoolArchive(ctx, seq, result)
	if err != nil {
		p.logger.Error("archive aborted", "archive", seq, "state", result.State, "error", err)
		result.State = StateAborted
		result.Err = err
		return result
	}
	defer os.Remove(archivePath)

	result.State = StateParsing
	p.logger.Info("processing archive", "archive", seq, "lanes", len(p.embedders))

	var wg sync.WaitGroup
	laneResults := make([]LaneResult, len(p.embedders))
	for i, embedder := range p.embedders {
		tracker := NewProgressTracker(p.progress,
			fmt.Sprintf("archive %04d/%s", seq, embedder.Name()), p.config.ReportInterval)
		tracker.Start()

		runner := &laneRunner{
			sequence:    seq,
			archivePath: archivePath,
			embedder:    embedder,
			collection:  CollectionName(p.config.CollectionPrefix, embedder.Name()),
			checkpoints: p.checkpoints,
			store:       p.store,
			config:      p.config,
			tracker:     tracker,
			logger:      p.logger,
		}

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			laneResults[i] = runner.run(ctx)
			tracker.Finish()
		})
		if submitErr != nil {
			laneResults[i] = LaneResult{Model: embedder.Name(), Err: submitErr}
			wg.Done()
		}
	}

	result.State = StateProcessing
	wg.Wait()

	result.Lanes = laneResults
	result.State = aggregateState(laneResults)
	for _, lane := range laneResults {
		if lane.Err != nil {
			p.logger.Error("lane halted", "archive", seq, "model", lane.Model, "error", lane.Err)
		} else {
			p.logger.Info("lane completed", "archive", seq, "model", lane.Model,
				"processed", lane.Processed, "skipped", lane.Skipped, "excluded", lane.Excluded)
		}
	}
	return result
}

// spoolArchive downloads one archive to a temp file, verifying its MD5
// digest during the copy. Nothing is kept on mismatch. The result's state
// tracks the fetch and verify phases.
func (p *Pipeline) spoolArchive(ctx context.Context, seq int, result *ArchiveResult) (string, error) {
	result.State = StateFetching
	digestBody, err := p.source.FetchDigest(ctx, seq)
	if err != nil {
		return "", fmt.Errorf("fetching digest for archive %d: %w", seq, err)
	}
	expected, err := fetch.ParseDigestFile(digestBody)
	if err != nil {
		return "", fmt.Errorf("parsing digest for archive %d: %w", seq, err)
	}

	body, err := p.source.FetchArchive(ctx, seq)
	if err != nil {
		return "", fmt.Errorf("fetching archive %d: %w", seq, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", fmt.Sprintf("pubvec-archive-%04d-*.xml.gz", seq))
	if err != nil {
		return "", fmt.Errorf("creating spool file: %w", err)
	}

	result.State = StateVerifying
	written, err := fetch.SpoolVerified(tmp, body, expected)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("spooling archive %d: %w", seq, err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing spool file: %w", closeErr)
	}

	p.logger.Info("archive verified", "archive", seq, "bytes", written, "md5", expected)
	return tmp.Name(), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// isFatal reports whether a lane error must stop the whole run rather than
// just halt its lane.
func isFatal(err error) bool {
	return errors.Is(err, ErrCheckpointPersist) || errors.Is(err, core.ErrSchemaConflict)
}

// aggregateState folds lane outcomes into an archive state.
func aggregateState(lanes []LaneResult) ArchiveState {
	failed := 0
	for _, lane := range lanes {
		if lane.Err != nil {
			failed++
		}
	}
	switch failed {
	case 0:
		return StateCompleted
	case len(lanes):
		return StateAborted
	default:
		return StatePartial
	}
}
