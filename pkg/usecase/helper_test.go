package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/service/compliance"
	"github.com/secmon-lab/themis/pkg/service/report"
	"github.com/secmon-lab/themis/pkg/usecase"
	goslack "github.com/slack-go/slack"
)

const (
	highRiskText   = "MediScan supports radiologists reading MRI studies."
	prohibitedText = "CitizenRank operates a social credit system that assigns each citizen score."
	limitedText    = "ServiceBot is a chatbot answering customer queries."
	minimalText    = "ShopSmart is a product recommendation engine."
	unknownText    = "A tool that sorts photographs by colour."
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755)).Required()
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644)).Required()
	return path
}

func newClassifier(t *testing.T, opts ...classifier.Option) *classifier.Classifier {
	t.Helper()
	cls, err := classifier.New(nil, opts...)
	gt.NoError(t, err).Required()
	return cls
}

// fakeEmbedder maps every text onto the same unit vector and records the texts
type fakeEmbedder struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.texts = append(f.texts, texts...)

	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = unitVector()
	}
	return out, nil
}

func (f *fakeEmbedder) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func unitVector() []float32 {
	v := make([]float32, model.EmbeddingDimension)
	v[0] = 1
	return v
}

// fakeCompliance returns deterministic analysis results
type fakeCompliance struct {
	mu sync.Mutex

	scores  map[types.ComplianceArea]float64
	areaErr error

	areaInputs        []compliance.AreaInput
	prohibitionInputs []compliance.ProhibitionInput
	recommendInputs   []compliance.RecommendInput
	suggestCalls      int
}

func (f *fakeCompliance) AnalyzeArea(ctx context.Context, input compliance.AreaInput) (*model.AreaAssessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.areaInputs = append(f.areaInputs, input)
	if f.areaErr != nil {
		return nil, f.areaErr
	}

	score, ok := f.scores[input.Area]
	if !ok {
		score = 0.9
	}
	result := &model.AreaAssessment{Area: input.Area, Score: score, Summary: "ok"}
	if score < compliance.GapThreshold {
		result.Gaps = []model.Gap{{Area: input.Area, Description: "missing " + input.Area.String(), Severity: types.SeverityFromScore(score)}}
	}
	return result, nil
}

func (f *fakeCompliance) AnalyzeProhibition(ctx context.Context, input compliance.ProhibitionInput) (*model.ProhibitionAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prohibitionInputs = append(f.prohibitionInputs, input)
	return &model.ProhibitionAnalysis{SocialScoring: true, Articles: []string{compliance.ArticleSocialScoring}}, nil
}

func (f *fakeCompliance) Recommend(ctx context.Context, input compliance.RecommendInput) ([]model.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recommendInputs = append(f.recommendInputs, input)
	if len(input.Gaps) == 0 {
		return nil, nil
	}
	return []model.Recommendation{{Area: input.Area, Text: "fix " + input.Area.String(), Priority: types.PriorityMedium}}, nil
}

func (f *fakeCompliance) SuggestCategory(ctx context.Context, documentation string) (*model.CategorySuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls++
	return &model.CategorySuggestion{Category: types.RiskCategoryMinimalRisk, Rationale: "internal tool"}, nil
}

type fakeReporter struct {
	written []model.AssessmentID
}

func (f *fakeReporter) Write(ctx context.Context, a *model.Assessment) (*report.Result, error) {
	f.written = append(f.written, a.ID)
	return &report.Result{Files: []string{string(a.ID) + ".txt"}}, nil
}

type fakeNotifier struct {
	notified []model.AssessmentID
	err      error
}

func (f *fakeNotifier) PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, text string) (string, error) {
	return "1.0", nil
}

func (f *fakeNotifier) NotifyAssessment(ctx context.Context, a *model.Assessment) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, a.ID)
	return nil
}

func newTestUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	return usecase.New(repo, newClassifier(t), opts...), repo
}
