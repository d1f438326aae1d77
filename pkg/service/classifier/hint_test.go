package classifier_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/classifier"
)

func TestFixtureHint(t *testing.T) {
	testCases := []struct {
		path   string
		expect types.RiskCategory
		ok     bool
	}{
		{path: "docs/social_scoring_system.md", expect: types.RiskCategoryProhibited, ok: true},
		{path: "medical_diagnosis_system.pdf", expect: types.RiskCategoryHighRisk, ok: true},
		{path: "x/Customer_Service_Chatbot.txt", expect: types.RiskCategoryLimitedRisk, ok: true},
		{path: "product_recommendation_engine.md", expect: types.RiskCategoryMinimalRisk, ok: true},
		{path: "fixtures/high-risk/credit_scoring.md", expect: types.RiskCategoryHighRisk, ok: true},
		{path: "fixtures/unknown/notes.md", expect: types.RiskCategoryUnknown, ok: true},
		{path: "fixtures/minimal-risk/social_scoring_system.md", expect: types.RiskCategoryMinimalRisk, ok: true},
		{path: "fixtures/unknown/social_scoring_system.md", expect: types.RiskCategoryUnknown, ok: true},
		{path: "fixtures/misc/social_scoring_system.md", expect: types.RiskCategoryProhibited, ok: true},
		{path: "fixtures/misc/notes.md", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := classifier.FixtureHint(tc.path)
			gt.Value(t, ok).Equal(tc.ok)
			gt.Value(t, got).Equal(tc.expect)
		})
	}
}
