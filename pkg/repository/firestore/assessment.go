package firestore

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// assessmentDoc keeps the query fields as columns and the nested assessment
// as a JSON payload
type assessmentDoc struct {
	ID           model.AssessmentID `firestore:"ID"`
	SystemName   string             `firestore:"SystemName"`
	Category     string             `firestore:"Category"`
	OverallScore float64            `firestore:"OverallScore"`
	Payload      string             `firestore:"Payload"`
	CreatedAt    time.Time          `firestore:"CreatedAt"`
}

func toAssessmentDoc(a *model.Assessment) (*assessmentDoc, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal assessment", goerr.V("id", a.ID))
	}
	return &assessmentDoc{
		ID:           a.ID,
		SystemName:   a.SystemName,
		Category:     a.Category().String(),
		OverallScore: a.OverallScore,
		Payload:      string(raw),
		CreatedAt:    a.CreatedAt,
	}, nil
}

func docToAssessment(doc *firestore.DocumentSnapshot) (*model.Assessment, error) {
	var d assessmentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	var a model.Assessment
	if err := json.Unmarshal([]byte(d.Payload), &a); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment payload", goerr.V("id", d.ID))
	}
	return &a, nil
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{
		client: client,
	}
}

func (r *assessmentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionAssessments)
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	created := *assessment
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	doc, err := toAssessmentDoc(&created)
	if err != nil {
		return nil, err
	}

	if _, err := r.collection().Doc(string(created.ID)).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	a, err := docToAssessment(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}
	return a, nil
}

func (r *assessmentRepository) List(ctx context.Context, limit int) ([]*model.Assessment, error) {
	query := r.collection().OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	assessments := make([]*model.Assessment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		a, err := docToAssessment(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment")
		}
		assessments = append(assessments, a)
	}

	return assessments, nil
}
