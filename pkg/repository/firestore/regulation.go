package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"google.golang.org/api/iterator"
)

const distanceField = "VectorDistance"

// regulationDoc is the Firestore document representation of
// model.RegulationChunk. Embedding is stored as firestore.Vector32 so that
// FindNearest vector search works.
type regulationDoc struct {
	ID           model.RegulationChunkID `firestore:"ID"`
	Source       string                  `firestore:"Source"`
	Index        int                     `firestore:"Index"`
	Text         string                  `firestore:"Text"`
	Article      string                  `firestore:"Article"`
	IsRecital    bool                    `firestore:"IsRecital"`
	IsAnnex      bool                    `firestore:"IsAnnex"`
	Annex        string                  `firestore:"Annex"`
	SectionTitle string                  `firestore:"SectionTitle"`
	Embedding    firestore.Vector32      `firestore:"Embedding,omitempty"`
	CreatedAt    time.Time               `firestore:"CreatedAt"`
}

func toRegulationDoc(c *model.RegulationChunk) *regulationDoc {
	doc := &regulationDoc{
		ID:           c.ID,
		Source:       c.Source,
		Index:        c.Index,
		Text:         c.Text,
		Article:      c.Meta.Article,
		IsRecital:    c.Meta.IsRecital,
		IsAnnex:      c.Meta.IsAnnex,
		Annex:        c.Meta.Annex,
		SectionTitle: c.Meta.SectionTitle,
		CreatedAt:    c.CreatedAt,
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func fromRegulationDoc(d *regulationDoc) *model.RegulationChunk {
	c := &model.RegulationChunk{
		ID:     d.ID,
		Source: d.Source,
		Index:  d.Index,
		Text:   d.Text,
		Meta: model.RegulationMeta{
			Article:      d.Article,
			IsRecital:    d.IsRecital,
			IsAnnex:      d.IsAnnex,
			Annex:        d.Annex,
			SectionTitle: d.SectionTitle,
		},
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

func docToRegulationChunk(doc *firestore.DocumentSnapshot) (*model.RegulationChunk, error) {
	var d regulationDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromRegulationDoc(&d), nil
}

type regulationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRegulationRepository(client *firestore.Client) *regulationRepository {
	return &regulationRepository{
		client: client,
	}
}

func (r *regulationRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionRegulationChunks)
}

func (r *regulationRepository) SaveMany(ctx context.Context, chunks []*model.RegulationChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	now := time.Now().UTC()
	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(chunks))
	for _, c := range chunks {
		if c.ID == "" {
			bw.End()
			return goerr.New("regulation chunk has no ID", goerr.V("source", c.Source), goerr.V("index", c.Index))
		}
		doc := toRegulationDoc(c)
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		job, err := bw.Set(r.collection().Doc(string(c.ID)), doc)
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue regulation chunk", goerr.V("id", c.ID))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to save regulation chunk", goerr.V("id", chunks[i].ID))
		}
	}
	return nil
}

func (r *regulationRepository) FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredRegulationChunk, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	vq := r.collection().
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine,
			&firestore.FindNearestOptions{DistanceResultField: distanceField})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	results := make([]*model.ScoredRegulationChunk, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		c, err := docToRegulationChunk(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal regulation chunk from vector search")
		}

		var distance float64
		if v, ok := doc.Data()[distanceField].(float64); ok {
			distance = v
		}

		results = append(results, &model.ScoredRegulationChunk{
			Chunk:      c,
			Similarity: 1 - distance,
		})
	}

	return results, nil
}

func (r *regulationRepository) FindByArticle(ctx context.Context, article string) ([]*model.RegulationChunk, error) {
	iter := r.collection().
		Where("Article", "==", article).
		Documents(ctx)
	defer iter.Stop()

	chunks := make([]*model.RegulationChunk, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate regulation chunks", goerr.V("article", article))
		}

		c, err := docToRegulationChunk(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal regulation chunk")
		}
		chunks = append(chunks, c)
	}

	return chunks, nil
}

func (r *regulationRepository) Count(ctx context.Context, source string) (int, error) {
	q := r.collection().Where("Source", "==", source)
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count regulation chunks", goerr.V("source", source))
	}

	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count result", goerr.V("source", source))
	}
	return int(v.GetIntegerValue()), nil
}

func (r *regulationRepository) DeleteBySource(ctx context.Context, source string) (int, error) {
	iter := r.collection().
		Where("Source", "==", source).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return 0, goerr.Wrap(err, "failed to iterate regulation chunks", goerr.V("source", source))
		}

		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return 0, goerr.Wrap(err, "failed to enqueue regulation chunk deletion", goerr.V("id", doc.Ref.ID))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return 0, goerr.Wrap(err, "failed to delete regulation chunk", goerr.V("source", source))
		}
	}
	return len(jobs), nil
}
