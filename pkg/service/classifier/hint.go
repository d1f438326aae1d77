package classifier

import (
	"path/filepath"
	"strings"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

var fixtureHints = map[string]types.RiskCategory{
	"social_scoring_system":         types.RiskCategoryProhibited,
	"medical_diagnosis_system":      types.RiskCategoryHighRisk,
	"customer_service_chatbot":      types.RiskCategoryLimitedRisk,
	"product_recommendation_engine": types.RiskCategoryMinimalRisk,
}

// FixtureHint derives an expected category from a fixture path: first from
// the parent directory name, then from the well-known fixture file names. A
// file under a category directory always takes that directory's category.
func FixtureHint(path string) (types.RiskCategory, bool) {
	dir := strings.ToLower(filepath.Base(filepath.Dir(path)))
	if c, err := types.ParseRiskCategory(dir); err == nil {
		return c, true
	}

	base := strings.ToLower(filepath.Base(path))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if c, ok := fixtureHints[name]; ok {
		return c, true
	}
	return "", false
}
