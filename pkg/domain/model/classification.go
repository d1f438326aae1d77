package model

import (
	"encoding/json"
	"maps"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ScoreBreakdown maps each scored risk category to its accumulated indicator
// weight. It is built once per classification and cannot be modified.
type ScoreBreakdown struct {
	scores map[types.RiskCategory]float64
}

// NewScoreBreakdown copies scores into a new breakdown. Every scored category
// is present in the result, missing ones with zero.
func NewScoreBreakdown(scores map[types.RiskCategory]float64) ScoreBreakdown {
	b := ScoreBreakdown{scores: make(map[types.RiskCategory]float64, len(types.ScoredRiskCategories()))}
	for _, c := range types.ScoredRiskCategories() {
		b.scores[c] = 0
	}
	for c, s := range scores {
		b.scores[c] = s
	}
	return b
}

// Score returns the score of the category, zero if it was not scored
func (b ScoreBreakdown) Score(category types.RiskCategory) float64 {
	return b.scores[category]
}

// Map returns a copy of all scores
func (b ScoreBreakdown) Map() map[types.RiskCategory]float64 {
	return maps.Clone(b.scores)
}

// IsZero reports whether no indicator contributed to any category
func (b ScoreBreakdown) IsZero() bool {
	for _, s := range b.scores {
		if s != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both breakdowns hold the same scores
func (b ScoreBreakdown) Equal(other ScoreBreakdown) bool {
	return maps.Equal(b.scores, other.scores)
}

func (b ScoreBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.scores)
}

func (b *ScoreBreakdown) UnmarshalJSON(data []byte) error {
	var scores map[types.RiskCategory]float64
	if err := json.Unmarshal(data, &scores); err != nil {
		return err
	}
	*b = NewScoreBreakdown(scores)
	return nil
}

// IndicatorMatch records one indicator found in a document
type IndicatorMatch struct {
	Category types.RiskCategory       `json:"category"`
	Pattern  string                   `json:"pattern"`
	Weight   float64                  `json:"weight"`
	Excerpt  string                   `json:"excerpt"`
	Practice types.ProhibitedPractice `json:"practice,omitempty"`
}

// ClassificationResult is the outcome of classifying one document
type ClassificationResult struct {
	Category types.RiskCategory `json:"category"`
	Scores   ScoreBreakdown     `json:"scores"`
	Matches  []IndicatorMatch   `json:"matches"`

	// Overridden is set when a fixture hint forced Category. Scores and
	// Matches are still the computed values.
	Overridden bool               `json:"overridden,omitempty"`
	Hint       types.RiskCategory `json:"hint,omitempty"`
}

// MatchesFor returns the matches of a single category
func (r *ClassificationResult) MatchesFor(category types.RiskCategory) []IndicatorMatch {
	var out []IndicatorMatch
	for _, m := range r.Matches {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}
