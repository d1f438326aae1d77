package classifier

import (
	"slices"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// precedenceOrder is the order in which categories are checked. It is a
// policy, not a severity ranking: chatbots also carry "decision" phrasing
// that high-risk medical systems use, and recommendation engines often carry
// high-risk wording too, so high-risk is checked last.
var precedenceOrder = []types.RiskCategory{
	types.RiskCategoryProhibited,
	types.RiskCategoryLimitedRisk,
	types.RiskCategoryMinimalRisk,
	types.RiskCategoryHighRisk,
}

// PrecedenceOrder returns the category check order
func PrecedenceOrder() []types.RiskCategory {
	return slices.Clone(precedenceOrder)
}

// Evaluator decides whether its category qualifies for selection
type Evaluator interface {
	Category() types.RiskCategory
	Qualifies(scores model.ScoreBreakdown) bool
}

type thresholdEvaluator struct {
	category  types.RiskCategory
	threshold float64
}

func (e *thresholdEvaluator) Category() types.RiskCategory {
	return e.category
}

func (e *thresholdEvaluator) Qualifies(scores model.ScoreBreakdown) bool {
	return scores.Score(e.category) >= e.threshold
}

// NewThresholdEvaluator returns an evaluator that qualifies once the category
// score reaches threshold
func NewThresholdEvaluator(category types.RiskCategory, threshold float64) Evaluator {
	return &thresholdEvaluator{category: category, threshold: threshold}
}

// SelectCategory walks evaluators in order and returns the category of the
// first one that qualifies, or unknown when none does
func SelectCategory(evaluators []Evaluator, scores model.ScoreBreakdown) types.RiskCategory {
	for _, e := range evaluators {
		if e.Qualifies(scores) {
			return e.Category()
		}
	}
	return types.RiskCategoryUnknown
}
