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


package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/pubvec/core"
	"github.com/poiesic/pubvec/vectorstore"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// Store implements vectorstore.Store against a Qdrant server over gRPC.
type Store struct {
	conn        *grpc.ClientConn
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	logger      *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// NewStore connects to a Qdrant server at addr ("host:port").
//
// Returns vectorstore.Store interface to enforce abstraction.
func NewStore(addr string) (vectorstore.Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant at %s: %w", addr, err)
	}

	return &Store{
		conn:        conn,
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		logger:      slog.Default().With("component", "qdrant-store"),
	}, nil
}

// EnsureCollection creates the collection if absent. An existing collection
// whose dimension differs from the schema fails with core.ErrSchemaConflict;
// a racing create of the same collection is treated as success.
func (s *Store) EnsureCollection(ctx context.Context, schema vectorstore.CollectionSchema) error {
	info, err := s.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: schema.Name,
	})
	if err == nil {
		size := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != uint64(schema.Dimension) {
			return fmt.Errorf("%w: collection %q has dimension %d, model declares %d",
				core.ErrSchemaConflict, schema.Name, size, schema.Dimension)
		}
		s.logger.Debug("collection already exists", "collection", schema.Name, "dimension", size)
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		return fmt.Errorf("checking collection %q: %w", schema.Name, err)
	}

	s.logger.Info("creating collection", "collection", schema.Name, "dimension", schema.Dimension)
	_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: schema.Name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(schema.Dimension),
					Distance: toQdrantDistance(schema.Distance),
				},
			},
		},
	})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.AlreadyExists {
			// Lost the create race; the collection exists now.
			return nil
		}
		return fmt.Errorf("creating collection %q: %w", schema.Name, err)
	}
	return nil
}

// Upsert writes one point, idempotently by its numeric ID. The call waits
// for the write to be applied so the caller's checkpoint can safely advance.
func (s *Store) Upsert(ctx context.Context, collection string, point vectorstore.Point) error {
	wait := true
	_, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id: &qdrant.PointId{
					PointIdOptions: &qdrant.PointId_Num{Num: uint64(point.ID)},
				},
				Vectors: &qdrant.Vectors{
					VectorsOptions: &qdrant.Vectors_Vector{
						Vector: &qdrant.Vector{Data: point.Vector},
					},
				},
				Payload: toQdrantPayload(point.Payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upserting point %d into %q: %w", point.ID, collection, err)
	}
	return nil
}

// QueryTopK returns the k nearest points, ordered by descending score.
func (s *Store) QueryTopK(ctx context.Context, collection string, vector []float32, k int) ([]vectorstore.ScoredPoint, error) {
	resp, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			return nil, fmt.Errorf("%w: %q", vectorstore.ErrCollectionNotFound, collection)
		}
		return nil, fmt.Errorf("searching %q: %w", collection, err)
	}

	results := make([]vectorstore.ScoredPoint, 0, len(resp.GetResult()))
	for _, hit := range resp.GetResult() {
		results = append(results, vectorstore.ScoredPoint{
			ID:      core.PMID(hit.GetId().GetNum()),
			Score:   hit.GetScore(),
			Payload: fromQdrantPayload(hit.GetPayload()),
		})
	}
	return results, nil
}

// Close closes the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func toQdrantDistance(d vectorstore.Distance) qdrant.Distance {
	switch d {
	case vectorstore.DistanceEuclid:
		return qdrant.Distance_Euclid
	case vectorstore.DistanceDot:
		return qdrant.Distance_Dot
	default:
		return qdrant.Distance_Cosine
	}
}
