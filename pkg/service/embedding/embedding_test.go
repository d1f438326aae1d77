package embedding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/service/embedding"
)

type recorder struct {
	batches    [][]string
	dimensions []int
}

func newMockClient(rec *recorder) *mockLLMClient {
	return &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			if rec != nil {
				rec.batches = append(rec.batches, input)
				rec.dimensions = append(rec.dimensions, dimension)
			}
			out := make([][]float64, len(input))
			for i := range input {
				v := make([]float64, dimension)
				v[0] = float64(len(input[i]))
				out[i] = v
			}
			return out, nil
		},
	}
}

func TestEmbedBatches(t *testing.T) {
	rec := &recorder{}
	svc, err := embedding.New(newMockClient(rec), embedding.WithDimension(4), embedding.WithBatchSize(2))
	gt.NoError(t, err).Required()

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := svc.Embed(context.Background(), texts)
	gt.NoError(t, err).Required()

	gt.Array(t, vectors).Length(5).Required()
	for i, v := range vectors {
		gt.Array(t, v).Length(4)
		gt.Value(t, v[0]).Equal(float32(len(texts[i])))
	}

	gt.Array(t, rec.batches).Length(3).Required()
	gt.Array(t, rec.batches[0]).Length(2)
	gt.Array(t, rec.batches[2]).Length(1)
	gt.Value(t, rec.dimensions[0]).Equal(4)
}

func TestEmbedEmpty(t *testing.T) {
	rec := &recorder{}
	svc, err := embedding.New(newMockClient(rec))
	gt.NoError(t, err).Required()

	vectors, err := svc.Embed(context.Background(), nil)
	gt.NoError(t, err).Required()
	gt.Array(t, vectors).Length(0)
	gt.Array(t, rec.batches).Length(0)
}

func TestEmbedCountMismatch(t *testing.T) {
	client := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return [][]float64{{0.1}}, nil
		},
	}
	svc, err := embedding.New(client)
	gt.NoError(t, err).Required()

	_, err = svc.Embed(context.Background(), []string{"a", "b"})
	gt.Value(t, err).NotNil()
}

func TestEmbedClientError(t *testing.T) {
	client := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return nil, errors.New("quota exceeded")
		},
	}
	svc, err := embedding.New(client)
	gt.NoError(t, err).Required()

	_, err = svc.EmbedOne(context.Background(), "a")
	gt.Value(t, err).NotNil()
}

func TestNewValidation(t *testing.T) {
	_, err := embedding.New(nil)
	gt.Value(t, err).NotNil()

	_, err = embedding.New(newMockClient(nil), embedding.WithBatchSize(0))
	gt.Value(t, err).NotNil()

	_, err = embedding.New(newMockClient(nil), embedding.WithDimension(-1))
	gt.Value(t, err).NotNil()
}
