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


package mock

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/pubvec/core"
	"github.com/poiesic/pubvec/vectorstore"
)

// MockStore is an in-memory vectorstore.Store for testing. It enforces the
// same schema and dimension rules as a real backend and exposes its contents
// for assertions.
type MockStore struct {
	mu          sync.Mutex
	collections map[string]*collection
	upsertCount int

	// UpsertFunc, when set, replaces the default Upsert behavior. Useful for
	// injecting write failures.
	UpsertFunc func(ctx context.Context, collectionName string, point vectorstore.Point) error
}

type collection struct {
	schema vectorstore.CollectionSchema
	points map[core.PMID]vectorstore.Point
}

var _ vectorstore.Store = (*MockStore)(nil)

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		collections: make(map[string]*collection),
	}
}

func (m *MockStore) EnsureCollection(_ context.Context, schema vectorstore.CollectionSchema) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[schema.Name]
	if ok {
		if existing.schema.Dimension != schema.Dimension {
			return fmt.Errorf("%w: collection %q has dimension %d, model declares %d",
				core.ErrSchemaConflict, schema.Name, existing.schema.Dimension, schema.Dimension)
		}
		return nil
	}

	m.collections[schema.Name] = &collection{
		schema: schema,
		points: make(map[core.PMID]vectorstore.Point),
	}
	return nil
}

func (m *MockStore) Upsert(ctx context.Context, collectionName string, point vectorstore.Point) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, collectionName, point)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collectionName]
	if !ok {
		return fmt.Errorf("%w: %q", vectorstore.ErrCollectionNotFound, collectionName)
	}
	if len(point.Vector) != col.schema.Dimension {
		return fmt.Errorf("%w: vector has %d dimensions, collection %q expects %d",
			core.ErrDimensionMismatch, len(point.Vector), collectionName, col.schema.Dimension)
	}

	col.points[point.ID] = point
	m.upsertCount++
	return nil
}

func (m *MockStore) QueryTopK(_ context.Context, collectionName string, vector []float32, k int) ([]vectorstore.ScoredPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collectionName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vectorstore.ErrCollectionNotFound, collectionName)
	}

	scored := make([]vectorstore.ScoredPoint, 0, len(col.points))
	for _, p := range col.points {
		scored = append(scored, vectorstore.ScoredPoint{
			ID:      p.ID,
			Score:   cosineSimilarity(vector, p.Vector),
			Payload: p.Payload,
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func (m *MockStore) Close() error {
	return nil
}

// PointCount returns the number of distinct points in a collection.
func (m *MockStore) PointCount(collectionName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collectionName]
	if !ok {
		return 0
	}
	return len(col.points)
}

// Point returns the stored point for a PMID, if present.
func (m *MockStore) Point(collectionName string, id core.PMID) (vectorstore.Point, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collectionName]
	if !ok {
		return vectorstore.Point{}, false
	}
	p, ok := col.points[id]
	return p, ok
}

// UpsertCount returns the total number of successful upserts across all
// collections, counting rewrites of the same PMID.
func (m *MockStore) UpsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCount
}

// Collections returns the names of all created collections.
func (m *MockStore) Collections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
