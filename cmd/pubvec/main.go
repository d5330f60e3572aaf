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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/pubvec"
	"github.com/poiesic/pubvec/ai"
	"github.com/poiesic/pubvec/ai/ollama"
	"github.com/poiesic/pubvec/ai/openai"
	"github.com/poiesic/pubvec/ingestion"
	"github.com/poiesic/pubvec/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "pubvec",
		Usage: "Resumable ingestion of PubMed baseline archives into a vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Fetch, embed, and store a range of baseline archives",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB checkpoint database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "qdrant-addr",
						Usage: "Qdrant gRPC address",
						Value: pubvec.DefaultQdrantAddr,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434",
					},
					&cli.StringFlag{
						Name:  "embedding-backend",
						Usage: "Embedding API flavor (ollama or openai)",
						Value: "ollama",
					},
					&cli.StringSliceFlag{
						Name:     "model",
						Aliases:  []string{"m"},
						Usage:    "Embedding model as name:dimension, repeatable (e.g. bge-m3:1024)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "start",
						Usage: "First baseline archive sequence number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "end",
						Usage: "Last baseline archive sequence number (inclusive)",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "max-articles",
						Usage: "Cap of included articles per archive, 0 for no cap",
						Value: 0,
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Required article language (MEDLINE code)",
						Value: "eng",
					},
					&cli.StringFlag{
						Name:  "collection-prefix",
						Usage: "Prefix for per-model collection names",
						Value: "pubmed",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "Baseline archive download URL",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				},
			},
			{
				Name:   "checkpoints",
				Usage:  "List stored ingestion checkpoints",
				Action: checkpointsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB checkpoint database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	embedders, err := buildEmbedders(c.String("embedding-backend"),
		c.String("embedding-host"), c.StringSlice("model"))
	if err != nil {
		return err
	}

	config := &ingestion.Config{
		StartArchive:     c.Int("start"),
		EndArchive:       c.Int("end"),
		MaxArticles:      c.Int("max-articles"),
		Language:         c.String("language"),
		CollectionPrefix: c.String("collection-prefix"),
		MaxRetries:       c.Int("max-retries"),
		RetryDelay:       c.Duration("retry-delay"),
		ReportInterval:   c.Int("report-interval"),
	}

	if config.StartArchive < 1 {
		return fmt.Errorf("start must be greater than 0")
	}
	if config.EndArchive < config.StartArchive {
		return fmt.Errorf("end must not be before start")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	opts := []pubvec.IngestorOption{
		pubvec.WithQdrantAddr(c.String("qdrant-addr")),
	}
	if baseURL := c.String("base-url"); baseURL != "" {
		opts = append(opts, pubvec.WithBaseURL(baseURL))
	}

	ingestor, err := pubvec.NewIngestor(c.String("db"), embedders, opts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestor: %w", err)
	}
	defer ingestor.Close()

	pipeline, err := ingestor.NewPipeline(config)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Qdrant: %s\n", c.String("qdrant-addr"))
	fmt.Fprintf(os.Stderr, "Archives: %04d..%04d\n", config.StartArchive, config.EndArchive)
	for _, e := range embedders {
		fmt.Fprintf(os.Stderr, "Model: %s (%d dimensions)\n", e.Name(), e.Dimension())
	}
	fmt.Fprintln(os.Stderr)

	results, err := pipeline.Run(ctx)
	printResults(results)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

func checkpointsCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewCheckpointRepository(backend)

	checkpoints, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list checkpoints: %w", err)
	}

	if len(checkpoints) == 0 {
		fmt.Println("No checkpoints recorded.")
		return nil
	}

	for _, cp := range checkpoints {
		fmt.Printf("archive %04d  model %-24s  last PMID %-10s  updated %s\n",
			cp.Archive, cp.Model, cp.LastPMID, cp.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

// buildEmbedders parses repeatable name:dimension model specs and
// constructs one embedder per model against the shared host.
func buildEmbedders(backend, host string, specs []string) ([]ai.Embedder, error) {
	embedders := make([]ai.Embedder, 0, len(specs))
	for _, spec := range specs {
		name, dim, err := parseModelSpec(spec)
		if err != nil {
			return nil, err
		}

		config := ai.NewConfig(
			ai.WithHost(host),
			ai.WithModel(name),
			ai.WithDimension(dim),
		)
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid model configuration for %q: %w", name, err)
		}

		var embedder ai.Embedder
		switch backend {
		case "ollama":
			embedder, err = ollama.NewEmbedder(config)
		case "openai":
			embedder, err = openai.NewEmbedder(config)
		default:
			return nil, fmt.Errorf("unknown embedding-backend %q: must be ollama or openai", backend)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder for %q: %w", name, err)
		}
		embedders = append(embedders, embedder)
	}
	return embedders, nil
}

// parseModelSpec splits "name:dimension". The split is at the last colon so
// model names with tags (e.g. "bge-m3:latest:1024") stay intact.
func parseModelSpec(spec string) (string, int, error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 || idx == len(spec)-1 {
		return "", 0, fmt.Errorf("invalid model spec %q: expected name:dimension", spec)
	}

	name := spec[:idx]
	dim, err := strconv.Atoi(spec[idx+1:])
	if err != nil || dim <= 0 {
		return "", 0, fmt.Errorf("invalid model spec %q: dimension must be a positive integer", spec)
	}
	return name, dim, nil
}

func printResults(results []*ingestion.ArchiveResult) {
	for _, r := range results {
		fmt.Fprintf(os.Stderr, "archive %04d: %s\n", r.Sequence, r.State)
		for _, lane := range r.Lanes {
			if lane.Err != nil {
				fmt.Fprintf(os.Stderr, "  %-24s halted: %v\n", lane.Model, lane.Err)
				continue
			}
			fmt.Fprintf(os.Stderr, "  %-24s processed %d, skipped %d, excluded %d\n",
				lane.Model, lane.Processed, lane.Skipped, lane.Excluded)
		}
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
