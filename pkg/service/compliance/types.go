package compliance

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Service defines LLM-backed compliance analysis of AI system documentation
type Service interface {
	// AnalyzeArea scores the documentation against one compliance area using
	// the retrieved regulation context
	AnalyzeArea(ctx context.Context, input AreaInput) (*model.AreaAssessment, error)

	// AnalyzeProhibition judges Article 5 practices of a prohibited system
	AnalyzeProhibition(ctx context.Context, input ProhibitionInput) (*model.ProhibitionAnalysis, error)

	// Recommend proposes remediation for the gaps of one area
	Recommend(ctx context.Context, input RecommendInput) ([]model.Recommendation, error)

	// SuggestCategory asks for an advisory risk category opinion
	SuggestCategory(ctx context.Context, documentation string) (*model.CategorySuggestion, error)
}

// AreaInput is the input of AnalyzeArea
type AreaInput struct {
	Area          types.ComplianceArea
	Category      types.RiskCategory
	Documentation string
	Context       []*model.ScoredRegulationChunk
}

// ProhibitionInput is the input of AnalyzeProhibition
type ProhibitionInput struct {
	Documentation string
	Matches       []model.IndicatorMatch // classifier evidence
}

// RecommendInput is the input of Recommend
type RecommendInput struct {
	Area     types.ComplianceArea
	Category types.RiskCategory
	Gaps     []model.Gap
}

type areaResponse struct {
	Score    float64  `json:"score"`
	Summary  string   `json:"summary"`
	Findings []string `json:"findings"`
	Gaps     []string `json:"gaps"`
}

type prohibitionResponse struct {
	SocialScoring            bool   `json:"social_scoring"`
	SocialScoringExplanation string `json:"social_scoring_explanation"`
	Manipulation             bool   `json:"manipulation"`
	ManipulationExplanation  string `json:"manipulation_explanation"`
}

type recommendResponse struct {
	Recommendations []string `json:"recommendations"`
}

type suggestResponse struct {
	Category  string `json:"category"`
	Rationale string `json:"rationale"`
}
