package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[model.AssessmentID]*model.Assessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[model.AssessmentID]*model.Assessment),
	}
}

// copyAssessment deep-copies through JSON. Assessments are nested and
// rarely written, so a field-by-field copy is not worth maintaining.
func copyAssessment(a *model.Assessment) (*model.Assessment, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal assessment", goerr.V("id", a.ID))
	}
	var copied model.Assessment
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", a.ID))
	}
	return &copied, nil
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created, err := copyAssessment(assessment)
	if err != nil {
		return nil, err
	}
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.assessments[created.ID] = created
	return copyAssessment(created)
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}
	return copyAssessment(a)
}

func (r *assessmentRepository) List(ctx context.Context, limit int) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.Assessment, 0, len(r.assessments))
	for _, a := range r.assessments {
		all = append(all, a)
	}
	slices.SortFunc(all, func(a, b *model.Assessment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	result := make([]*model.Assessment, 0, len(all))
	for _, a := range all {
		copied, err := copyAssessment(a)
		if err != nil {
			return nil, err
		}
		result = append(result, copied)
	}
	return result, nil
}
