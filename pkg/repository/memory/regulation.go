package memory

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

type regulationRepository struct {
	mu     sync.RWMutex
	chunks map[model.RegulationChunkID]*model.RegulationChunk
}

func newRegulationRepository() *regulationRepository {
	return &regulationRepository{
		chunks: make(map[model.RegulationChunkID]*model.RegulationChunk),
	}
}

// copyChunk creates a deep copy of a regulation chunk
func copyChunk(c *model.RegulationChunk) *model.RegulationChunk {
	copied := *c
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return &copied
}

func (r *regulationRepository) SaveMany(ctx context.Context, chunks []*model.RegulationChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, c := range chunks {
		if c.ID == "" {
			return goerr.New("regulation chunk has no ID", goerr.V("source", c.Source), goerr.V("index", c.Index))
		}
		saved := copyChunk(c)
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = now
		}
		r.chunks[saved.ID] = saved
	}
	return nil
}

func (r *regulationRepository) FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredRegulationChunk, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.ScoredRegulationChunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		if len(c.Embedding) != len(embedding) {
			continue
		}
		results = append(results, &model.ScoredRegulationChunk{
			Chunk:      copyChunk(c),
			Similarity: cosineSimilarity(embedding, c.Embedding),
		})
	}

	slices.SortFunc(results, func(a, b *model.ScoredRegulationChunk) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return compareChunk(a.Chunk, b.Chunk)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *regulationRepository) FindByArticle(ctx context.Context, article string) ([]*model.RegulationChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.RegulationChunk
	for _, c := range r.chunks {
		if c.Meta.Article == article {
			result = append(result, copyChunk(c))
		}
	}
	slices.SortFunc(result, compareChunk)
	return result, nil
}

func (r *regulationRepository) Count(ctx context.Context, source string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	for _, c := range r.chunks {
		if c.Source == source {
			n++
		}
	}
	return n, nil
}

func (r *regulationRepository) DeleteBySource(ctx context.Context, source string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int
	for id, c := range r.chunks {
		if c.Source == source {
			delete(r.chunks, id)
			deleted++
		}
	}
	return deleted, nil
}

func compareChunk(a, b *model.RegulationChunk) int {
	if a.Source != b.Source {
		if a.Source < b.Source {
			return -1
		}
		return 1
	}
	return a.Index - b.Index
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
