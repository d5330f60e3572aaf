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

	"github.com/poiesic/pubvec/ai"
	"github.com/poiesic/pubvec/core"
	"github.com/poiesic/pubvec/pubmed"
	"github.com/poiesic/pubvec/storage"
	"github.com/poiesic/pubvec/vectorstore"
)

// laneRunner processes one (archive, model) lane: a full extraction pass
// over the spooled archive, embedding and writing every included record
// above the lane's resume point. Each lane owns its checkpoint, so lanes
// for the same archive never contend.
type laneRunner struct {
	sequence    int
	archivePath string
	embedder    ai.Embedder
	collection  string
	checkpoints storage.CheckpointRepository
	store       vectorstore.Store
	config      *Config
	tracker     *ProgressTracker
	logger      *slog.Logger
}

func (l *laneRunner) run(ctx context.Context) LaneResult {
	result := LaneResult{Model: l.embedder.Name()}

	resume, found, err := l.checkpoints.ResumePoint(ctx, l.sequence, l.embedder.Name())
	if err != nil {
		result.Err = fmt.Errorf("reading resume point: %w", err)
		return result
	}
	if found {
		l.logger.Info("resuming lane", "archive", l.sequence, "model", l.embedder.Name(), "lastPMID", resume)
	}

	f, err := os.Open(l.archivePath)
	if err != nil {
		result.Err = fmt.Errorf("opening spooled archive: %w", err)
		return result
	}
	defer f.Close()

	extractor, err := pubmed.NewExtractor(f)
	if err != nil {
		result.Err = err
		return result
	}
	defer extractor.Close()

	included := 0
	for {
		rec, err := extractor.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, core.ErrRecordParse) {
			l.logger.Warn("skipping malformed record", "archive", l.sequence, "error", err)
			continue
		}
		if err != nil {
			result.Err = err
			return result
		}

		article, reason := core.ApplyFilter(rec, l.config.Language)
		if reason != core.ReasonNone {
			result.Excluded++
			l.logger.Debug("record excluded", "pmid", rec.PMID, "reason", reason)
			continue
		}

		included++
		if l.config.MaxArticles > 0 && included > l.config.MaxArticles {
			l.logger.Info("reached article cap", "archive", l.sequence, "model", l.embedder.Name(), "cap", l.config.MaxArticles)
			break
		}

		// Records at or below the resume point were already written and
		// checkpointed in a previous run.
		if found && rec.PMID <= resume {
			result.Skipped++
			continue
		}

		if err := l.processRecord(ctx, article); err != nil {
			result.Err = err
			return result
		}

		result.Processed++
		l.tracker.Increment(1)
	}

	return result
}

// processRecord embeds one article and writes it, then advances the lane
// checkpoint. The checkpoint only moves after the vector store write has
// been acknowledged.
func (l *laneRunner) processRecord(ctx context.Context, article *core.ArticleRecord) error {
	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = l.embedder.EmbedText(ctx, article.Abstract)
		return embedErr
	}, l.config.MaxRetries, l.config.RetryDelay, ai.IsRetryable)
	if err != nil {
		return fmt.Errorf("embedding pmid %s with %s: %w", article.PMID, l.embedder.Name(), err)
	}

	if len(vector) != l.embedder.Dimension() {
		return fmt.Errorf("%w: model %s returned %d dimensions, declared %d",
			core.ErrDimensionMismatch, l.embedder.Name(), len(vector), l.embedder.Dimension())
	}

	err = l.store.Upsert(ctx, l.collection, vectorstore.Point{
		ID:      article.PMID,
		Vector:  vector,
		Payload: article.Payload,
	})
	if err != nil {
		return fmt.Errorf("writing pmid %s to %s: %w", article.PMID, l.collection, err)
	}

	if err := l.checkpoints.RecordProgress(ctx, l.sequence, l.embedder.Name(), article.PMID); err != nil {
		return fmt.Errorf("%w: archive %d model %s pmid %s: %v",
			ErrCheckpointPersist, l.sequence, l.embedder.Name(), article.PMID, err)
	}

	return nil
}
