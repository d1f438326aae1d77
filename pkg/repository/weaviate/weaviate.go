// Package weaviate stores regulation chunks in a Weaviate vector database.
// It only implements interfaces.RegulationRepository; assessments stay in the
// main repository.
package weaviate

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// DefaultClassName is the Weaviate class holding regulation chunks
const DefaultClassName = "RegulationChunk"

type RegulationStore struct {
	client    *weaviate.Client
	className string
}

var _ interfaces.RegulationRepository = &RegulationStore{}

type Option func(*RegulationStore)

// WithClassName overrides the class name, used to isolate test runs
func WithClassName(name string) Option {
	return func(s *RegulationStore) {
		s.className = name
	}
}

// New connects to the Weaviate instance at rawURL, e.g. http://localhost:8080
func New(rawURL string, opts ...Option) (*RegulationStore, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, goerr.New("invalid weaviate URL", goerr.V("url", rawURL))
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsed.Host,
		Scheme: parsed.Scheme,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create weaviate client", goerr.V("url", rawURL))
	}

	s := &RegulationStore{
		client:    client,
		className: DefaultClassName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *RegulationStore) schema() *models.Class {
	filterable := true
	return &models.Class{
		Class:       s.className,
		Description: "A chunk of regulation text with its structural metadata.",
		Vectorizer:  "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
		Properties: []*models.Property{
			{Name: "text", DataType: []string{"text"}, Tokenization: "word"},
			{Name: "source", DataType: []string{"text"}, IndexFilterable: &filterable, Tokenization: "field"},
			{Name: "chunkIndex", DataType: []string{"int"}, IndexFilterable: &filterable},
			{Name: "article", DataType: []string{"text"}, IndexFilterable: &filterable, Tokenization: "field"},
			{Name: "isRecital", DataType: []string{"boolean"}},
			{Name: "isAnnex", DataType: []string{"boolean"}},
			{Name: "annex", DataType: []string{"text"}, Tokenization: "field"},
			{Name: "sectionTitle", DataType: []string{"text"}},
			{Name: "createdAt", DataType: []string{"number"}},
		},
	}
}

// EnsureSchema creates the class if it does not exist yet
func (s *RegulationStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.client.Schema().ClassGetter().WithClassName(s.className).Do(ctx); err == nil {
		return nil
	}

	logging.From(ctx).Info("creating weaviate class", "class", s.className)
	if err := s.client.Schema().ClassCreator().WithClass(s.schema()).Do(ctx); err != nil {
		return goerr.Wrap(err, "failed to create weaviate class", goerr.V("class", s.className))
	}
	return nil
}

// DropSchema deletes the class and all its objects
func (s *RegulationStore) DropSchema(ctx context.Context) error {
	if err := s.client.Schema().ClassDeleter().WithClassName(s.className).Do(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete weaviate class", goerr.V("class", s.className))
	}
	return nil
}

func (s *RegulationStore) SaveMany(ctx context.Context, chunks []*model.RegulationChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	now := time.Now().UTC()
	objects := make([]*models.Object, len(chunks))
	for i, c := range chunks {
		if c.ID == "" {
			return goerr.New("regulation chunk has no ID", goerr.V("source", c.Source), goerr.V("index", c.Index))
		}
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		objects[i] = &models.Object{
			Class:  s.className,
			ID:     strfmt.UUID(c.ID),
			Vector: c.Embedding,
			Properties: map[string]interface{}{
				"text":         c.Text,
				"source":       c.Source,
				"chunkIndex":   c.Index,
				"article":      c.Meta.Article,
				"isRecital":    c.Meta.IsRecital,
				"isAnnex":      c.Meta.IsAnnex,
				"annex":        c.Meta.Annex,
				"sectionTitle": c.Meta.SectionTitle,
				"createdAt":    createdAt.UnixMilli(),
			},
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to import regulation chunks", goerr.V("count", len(chunks)))
	}

	for _, item := range resp {
		if item.Result != nil && item.Result.Errors != nil && len(item.Result.Errors.Error) > 0 {
			return goerr.New("weaviate rejected regulation chunk",
				goerr.V("id", item.ID),
				goerr.V("error", item.Result.Errors.Error[0].Message))
		}
	}
	return nil
}

var chunkFields = []graphql.Field{
	{Name: "text"},
	{Name: "source"},
	{Name: "chunkIndex"},
	{Name: "article"},
	{Name: "isRecital"},
	{Name: "isAnnex"},
	{Name: "annex"},
	{Name: "sectionTitle"},
	{Name: "createdAt"},
}

type chunkObject struct {
	Text         string  `json:"text"`
	Source       string  `json:"source"`
	ChunkIndex   int     `json:"chunkIndex"`
	Article      string  `json:"article"`
	IsRecital    bool    `json:"isRecital"`
	IsAnnex      bool    `json:"isAnnex"`
	Annex        string  `json:"annex"`
	SectionTitle string  `json:"sectionTitle"`
	CreatedAt    float64 `json:"createdAt"`
	Additional   struct {
		ID       string   `json:"id"`
		Distance *float64 `json:"distance"`
	} `json:"_additional"`
}

func (o *chunkObject) toModel() *model.RegulationChunk {
	return &model.RegulationChunk{
		ID:     model.RegulationChunkID(o.Additional.ID),
		Source: o.Source,
		Index:  o.ChunkIndex,
		Text:   o.Text,
		Meta: model.RegulationMeta{
			Article:      o.Article,
			IsRecital:    o.IsRecital,
			IsAnnex:      o.IsAnnex,
			Annex:        o.Annex,
			SectionTitle: o.SectionTitle,
		},
		CreatedAt: time.UnixMilli(int64(o.CreatedAt)).UTC(),
	}
}

// parseGet decodes the dynamic GraphQL response of a Get query
func (s *RegulationStore) parseGet(resp *models.GraphQLResponse) ([]chunkObject, error) {
	if resp == nil {
		return nil, goerr.New("nil GraphQL response")
	}
	if len(resp.Errors) > 0 {
		return nil, goerr.New("weaviate query failed", goerr.V("error", resp.Errors[0].Message))
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal GraphQL response")
	}

	var parsed struct {
		Get map[string][]chunkObject `json:"Get"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal GraphQL response")
	}
	return parsed.Get[s.className], nil
}

func (s *RegulationStore) FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredRegulationChunk, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(embedding)
	fields := append(slices.Clone(chunkFields), graphql.Field{
		Name:   "_additional",
		Fields: []graphql.Field{{Name: "id"}, {Name: "distance"}},
	})

	resp, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search regulation chunks")
	}

	objects, err := s.parseGet(resp)
	if err != nil {
		return nil, err
	}

	results := make([]*model.ScoredRegulationChunk, 0, len(objects))
	for i := range objects {
		var distance float64
		if objects[i].Additional.Distance != nil {
			distance = *objects[i].Additional.Distance
		}
		results = append(results, &model.ScoredRegulationChunk{
			Chunk:      objects[i].toModel(),
			Similarity: 1 - distance,
		})
	}
	return results, nil
}

func (s *RegulationStore) FindByArticle(ctx context.Context, article string) ([]*model.RegulationChunk, error) {
	where := filters.Where().
		WithPath([]string{"article"}).
		WithOperator(filters.Equal).
		WithValueString(article)

	fields := append(slices.Clone(chunkFields), graphql.Field{
		Name:   "_additional",
		Fields: []graphql.Field{{Name: "id"}},
	})

	resp, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query regulation chunks", goerr.V("article", article))
	}

	objects, err := s.parseGet(resp)
	if err != nil {
		return nil, err
	}

	chunks := make([]*model.RegulationChunk, 0, len(objects))
	for i := range objects {
		chunks = append(chunks, objects[i].toModel())
	}
	return chunks, nil
}

func (s *RegulationStore) Count(ctx context.Context, source string) (int, error) {
	where := filters.Where().
		WithPath([]string{"source"}).
		WithOperator(filters.Equal).
		WithValueString(source)

	resp, err := s.client.GraphQL().Aggregate().
		WithClassName(s.className).
		WithWhere(where).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count regulation chunks", goerr.V("source", source))
	}
	if len(resp.Errors) > 0 {
		return 0, goerr.New("weaviate aggregate failed", goerr.V("error", resp.Errors[0].Message))
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to marshal aggregate response")
	}
	var parsed struct {
		Aggregate map[string][]struct {
			Meta struct {
				Count int `json:"count"`
			} `json:"meta"`
		} `json:"Aggregate"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, goerr.Wrap(err, "failed to unmarshal aggregate response")
	}

	groups := parsed.Aggregate[s.className]
	if len(groups) == 0 {
		return 0, nil
	}
	return groups[0].Meta.Count, nil
}

func (s *RegulationStore) DeleteBySource(ctx context.Context, source string) (int, error) {
	where := filters.Where().
		WithPath([]string{"source"}).
		WithOperator(filters.Equal).
		WithValueString(source)

	resp, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(s.className).
		WithOutput("minimal").
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to delete regulation chunks", goerr.V("source", source))
	}

	if resp == nil || resp.Results == nil {
		return 0, nil
	}
	if resp.Results.Failed > 0 {
		return int(resp.Results.Successful), goerr.New("some regulation chunks were not deleted",
			goerr.V("source", source),
			goerr.V("failed", resp.Results.Failed))
	}
	return int(resp.Results.Successful), nil
}
