package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// AssessmentID is a UUID-based identifier for Assessment
type AssessmentID string

// NewAssessmentID generates a new UUID v4 AssessmentID
func NewAssessmentID() AssessmentID {
	return AssessmentID(uuid.New().String())
}

// Gap is a shortfall against a compliance area
type Gap struct {
	Area        types.ComplianceArea `json:"area"`
	Description string               `json:"description"`
	Severity    types.Severity       `json:"severity"`
}

// Recommendation is a remediation step for a compliance area
type Recommendation struct {
	Area     types.ComplianceArea `json:"area"`
	Text     string               `json:"text"`
	Priority types.Priority       `json:"priority"`
}

// AreaAssessment is the analysis result of one compliance area
type AreaAssessment struct {
	Area     types.ComplianceArea `json:"area"`
	Score    float64              `json:"score"`
	Summary  string               `json:"summary"`
	Findings []string             `json:"findings,omitempty"`
	Gaps     []Gap                `json:"gaps,omitempty"`
	Articles []string             `json:"articles,omitempty"` // Articles of the retrieved regulation context
}

// ProhibitionAnalysis is the Article 5 judgement of a prohibited system
type ProhibitionAnalysis struct {
	SocialScoring            bool     `json:"social_scoring"`
	SocialScoringExplanation string   `json:"social_scoring_explanation,omitempty"`
	Manipulation             bool     `json:"manipulation"`
	ManipulationExplanation  string   `json:"manipulation_explanation,omitempty"`
	Articles                 []string `json:"articles,omitempty"`
}

// CategorySuggestion is an advisory LLM opinion on the risk category. It is
// recorded next to the classifier result and never replaces it.
type CategorySuggestion struct {
	Category  types.RiskCategory `json:"category"`
	Rationale string             `json:"rationale"`
}

// Assessment is a complete compliance assessment of one AI system
type Assessment struct {
	ID              AssessmentID          `json:"id"`
	SystemName      string                `json:"system_name"`
	Sources         []string              `json:"sources"`
	Classification  *ClassificationResult `json:"classification"`
	Suggestion      *CategorySuggestion   `json:"suggestion,omitempty"`
	OverallScore    float64               `json:"overall_score"`
	Areas           []AreaAssessment      `json:"areas,omitempty"`
	Recommendations []Recommendation      `json:"recommendations,omitempty"`
	Prohibition     *ProhibitionAnalysis  `json:"prohibition,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// Category returns the classified risk category, unknown when absent
func (a *Assessment) Category() types.RiskCategory {
	if a == nil || a.Classification == nil {
		return types.RiskCategoryUnknown
	}
	return a.Classification.Category
}

// Gaps returns the gaps of all areas in area order
func (a *Assessment) Gaps() []Gap {
	var gaps []Gap
	for _, area := range a.Areas {
		gaps = append(gaps, area.Gaps...)
	}
	return gaps
}

// ComplianceLevel is the headline verdict derived from category and score
func (a *Assessment) ComplianceLevel() string {
	switch a.Category() {
	case types.RiskCategoryProhibited:
		return "Prohibited Use"
	case types.RiskCategoryUnknown:
		return "Undetermined"
	}
	switch {
	case a.OverallScore >= 0.8:
		return "Highly Compliant"
	case a.OverallScore >= 0.6:
		return "Moderately Compliant"
	default:
		return "Significant Gaps"
	}
}
