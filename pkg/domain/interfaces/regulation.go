package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// RegulationRepository stores embedded regulation chunks for retrieval
type RegulationRepository interface {
	// SaveMany upserts chunks by ID
	SaveMany(ctx context.Context, chunks []*model.RegulationChunk) error

	// FindByEmbedding returns up to limit chunks nearest to embedding by
	// cosine similarity, most similar first
	FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredRegulationChunk, error)

	// FindByArticle returns chunks tagged with the article, e.g. "5(1)"
	FindByArticle(ctx context.Context, article string) ([]*model.RegulationChunk, error)

	// Count returns the number of chunks stored for source
	Count(ctx context.Context, source string) (int, error)

	// DeleteBySource deletes all chunks of source and returns how many were deleted
	DeleteBySource(ctx context.Context, source string) (int, error)
}
