package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/firestore"
	"github.com/secmon-lab/themis/pkg/repository/memory"
)

func newAssessment(name string, createdAt time.Time) *model.Assessment {
	return &model.Assessment{
		SystemName: name,
		Sources:    []string{name + ".md"},
		Classification: &model.ClassificationResult{
			Category: types.RiskCategoryHighRisk,
			Scores: model.NewScoreBreakdown(map[types.RiskCategory]float64{
				types.RiskCategoryHighRisk:   21,
				types.RiskCategoryProhibited: 5,
			}),
			Matches: []model.IndicatorMatch{
				{Category: types.RiskCategoryHighRisk, Pattern: `\bmediscan\b`, Weight: 8, Excerpt: "MediScan"},
			},
		},
		OverallScore: 0.65,
		Areas: []model.AreaAssessment{
			{
				Area:    types.ComplianceAreaHumanOversight,
				Score:   0.4,
				Summary: "sign-off exists but is not logged",
				Gaps: []model.Gap{
					{Area: types.ComplianceAreaHumanOversight, Description: "no audit log of sign-off", Severity: types.SeverityMedium},
				},
			},
		},
		Recommendations: []model.Recommendation{
			{Area: types.ComplianceAreaHumanOversight, Text: "log every sign-off", Priority: types.PriorityMedium},
		},
		CreatedAt: createdAt,
	}
}

func runAssessmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and Get returns it", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		name := fmt.Sprintf("system-%d", time.Now().UnixNano())

		created, err := repo.Assessment().Create(ctx, newAssessment(name, time.Time{}))
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.AssessmentID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		got, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.SystemName).Equal(name)
		gt.Value(t, got.Category()).Equal(types.RiskCategoryHighRisk)
		gt.Value(t, got.Classification.Scores.Score(types.RiskCategoryHighRisk)).Equal(21.0)
		gt.Value(t, got.Classification.Scores.Score(types.RiskCategoryMinimalRisk)).Equal(0.0)
		gt.Array(t, got.Classification.Matches).Length(1)
		gt.Array(t, got.Gaps()).Length(1)
		gt.Value(t, got.Gaps()[0].Severity).Equal(types.SeverityMedium)
		gt.Array(t, got.Recommendations).Length(1)
	})

	t.Run("Get returns ErrNotFound for missing ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Get(ctx, model.NewAssessmentID())
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("List returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Second)

		for i := range 3 {
			_, err := repo.Assessment().Create(ctx, newAssessment(fmt.Sprintf("list-%d", i), base.Add(time.Duration(i)*time.Minute)))
			gt.NoError(t, err).Required()
		}

		list, err := repo.Assessment().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].SystemName).Equal("list-2")
		gt.Value(t, list[1].SystemName).Equal("list-1")
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryAssessmentRepository(t *testing.T) {
	runAssessmentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreAssessmentRepository(t *testing.T) {
	runAssessmentRepositoryTest(t, newFirestoreRepository)
}
