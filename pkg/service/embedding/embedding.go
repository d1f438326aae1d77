package embedding

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

const DefaultBatchSize = 32

// Service turns texts into embedding vectors through an LLM client
type Service struct {
	llmClient gollem.LLMClient
	dimension int
	batchSize int
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithDimension sets the embedding dimension, model.EmbeddingDimension by default
func WithDimension(dimension int) Option {
	return func(s *Service) {
		s.dimension = dimension
	}
}

// WithBatchSize sets how many texts are sent per request
func WithBatchSize(size int) Option {
	return func(s *Service) {
		s.batchSize = size
	}
}

func New(llmClient gollem.LLMClient, opts ...Option) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	s := &Service{
		llmClient: llmClient,
		dimension: model.EmbeddingDimension,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.dimension <= 0 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", s.dimension))
	}
	if s.batchSize <= 0 {
		return nil, goerr.New("batch size must be positive", goerr.V("batchSize", s.batchSize))
	}
	return s, nil
}

// Dimension returns the configured vector dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// Embed returns one vector per text, in input order
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		batch := texts[start:end]

		logging.From(ctx).Debug("generating embeddings", "from", start, "count", len(batch))
		embeddings, err := s.llmClient.GenerateEmbedding(ctx, s.dimension, batch)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate embeddings", goerr.V("from", start), goerr.V("count", len(batch)))
		}
		if len(embeddings) != len(batch) {
			return nil, goerr.New("embedding count mismatch",
				goerr.V("expected", len(batch)),
				goerr.V("actual", len(embeddings)))
		}

		for _, e := range embeddings {
			result = append(result, toFloat32(e))
		}
	}

	return result, nil
}

// EmbedOne returns the vector of a single text
func (s *Service) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
