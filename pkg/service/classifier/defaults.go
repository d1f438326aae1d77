package classifier

import (
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Default thresholds. They were tuned against the fixture documents under
// testdata/fixtures and are expected to be recalibrated through an indicator
// config file rather than edited here.
const (
	DefaultProhibitedThreshold  = 15.0
	DefaultLimitedRiskThreshold = 10.0
	DefaultMinimalRiskThreshold = 10.0
	DefaultHighRiskThreshold    = 10.0
)

// DefaultConfig returns a fresh copy of the built-in indicator tables
func DefaultConfig() *config.ClassifierConfig {
	return &config.ClassifierConfig{
		Tables: []config.IndicatorTable{
			{
				Category:  types.RiskCategoryProhibited,
				Threshold: DefaultProhibitedThreshold,
				Indicators: []config.Indicator{
					{Pattern: `\bsocial\s+credit\s+system`, Weight: 10, Practice: types.PracticeSocialScoring},
					{Pattern: `\bsocial\s+scoring\s+system`, Weight: 10, Practice: types.PracticeSocialScoring},
					{Pattern: `\bcitizen\s*score`, Weight: 8, Practice: types.PracticeSocialScoring},
					{Pattern: `\bcitizen\s*rank`, Weight: 8, Practice: types.PracticeSocialScoring},
					{Pattern: `\bevaluat\w*\s+citizens.{0,100}?behaviou?r`, Weight: 7, Practice: types.PracticeSocialScoring},
					{Pattern: `\brates?\s+citizens\s+based\s+on`, Weight: 7, Practice: types.PracticeSocialScoring},
					{Pattern: `\bsocial\s+behaviou?r.{0,100}?score`, Weight: 7, Practice: types.PracticeSocialScoring},
					{Pattern: `\bscore.{0,100}?public\s+services`, Weight: 6, Practice: types.PracticeSocialScoring},
					{Pattern: `\bnumerical\s+score.{0,100}?citizen`, Weight: 6, Practice: types.PracticeSocialScoring},
					{Pattern: `\baccess\s+based\s+on\s+(?:their\s+)?score`, Weight: 5, Practice: types.PracticeSocialScoring},
					{Pattern: `\bbehaviou?r(?:al)?\s+score`, Weight: 5, Practice: types.PracticeSocialScoring},
					{Pattern: `\btravel\s+restrictions?.{0,100}?score`, Weight: 8, Practice: types.PracticeSocialScoring},
					{Pattern: `\bsubliminal\s+techniques?`, Weight: 8, Practice: types.PracticeManipulation},
					{Pattern: `\bexploit\w*\s+(?:the\s+)?vulnerabilit`, Weight: 8, Practice: types.PracticeManipulation},
					{Pattern: `\buntargeted\s+scraping\s+of\s+facial\s+images`, Weight: 10},
				},
			},
			{
				Category:  types.RiskCategoryLimitedRisk,
				Threshold: DefaultLimitedRiskThreshold,
				Indicators: []config.Indicator{
					{Pattern: `\bchatbot`, Weight: 5},
					{Pattern: `\bcustomer\s+(?:service|support)\s+(?:ai|assistant|agent|bot)\b`, Weight: 6},
					{Pattern: `\bservicebot\b`, Weight: 7},
					{Pattern: `\bconversation(?:al)?\s+ai\b`, Weight: 5},
					{Pattern: `\bvirtual\s+assistant`, Weight: 5},
					{Pattern: `\bcustomer\s+interactions?\b`, Weight: 4},
					{Pattern: `\bsupport\s+tickets?\b`, Weight: 4},
					{Pattern: `\bcustomer\s+quer(?:y|ies)\b`, Weight: 4},
					{Pattern: `\bhelp\s*desk\s+automation`, Weight: 5},
					{Pattern: `\binteracting\s+with\s+(?:an\s+)?(?:ai|automated\s+system)\b`, Weight: 5},
					{Pattern: `\bemotion\s+recognition`, Weight: 6},
					{Pattern: `\bdeep\s*fakes?\b`, Weight: 6},
				},
			},
			{
				Category:  types.RiskCategoryMinimalRisk,
				Threshold: DefaultMinimalRiskThreshold,
				Indicators: []config.Indicator{
					{Pattern: `\bproduct\s+recommendation\s+engine`, Weight: 5},
					{Pattern: `\be-?commerce\s+recommendations?`, Weight: 5},
					{Pattern: `\bonline\s+shopping\s+recommendations?`, Weight: 4},
					{Pattern: `\bproduct\s+suggestions?`, Weight: 3},
					{Pattern: `\brecommends?\s+products`, Weight: 4},
					{Pattern: `\bshopping\s+experience`, Weight: 2},
					{Pattern: `\bshopsmart\b`, Weight: 6},
					{Pattern: `\bpersonali[sz]ed\s+recommendations?`, Weight: 3},
					{Pattern: `\byou\s+might\s+(?:also\s+)?like\b`, Weight: 4},
					{Pattern: `\bcustomers\s+who\s+bought\s+this`, Weight: 5},
					{Pattern: `\bspam\s+filter`, Weight: 6},
				},
			},
			{
				Category:  types.RiskCategoryHighRisk,
				Threshold: DefaultHighRiskThreshold,
				Indicators: []config.Indicator{
					{Pattern: `\bmedical\s+diagnosis`, Weight: 8},
					{Pattern: `\bmediscan\b`, Weight: 8},
					{Pattern: `\bhealthcare\s+decisions?`, Weight: 7},
					{Pattern: `\bdiagnostic\s+support\s+(?:system|tool)`, Weight: 7},
					{Pattern: `\bmedical\s+image\s+analysis`, Weight: 7},
					{Pattern: `\bpatient\s+data\b`, Weight: 6},
					{Pattern: `\bclinical\s+decisions?`, Weight: 6},
					{Pattern: `\bmri\b`, Weight: 5},
					{Pattern: `\bct\s+scans?\b`, Weight: 5},
					{Pattern: `\bx-rays?\b`, Weight: 5},
					{Pattern: `\bradiologists?\b`, Weight: 6},
					{Pattern: `\bpathologists?\b`, Weight: 6},
					{Pattern: `\bmedical\s+specialists?\b`, Weight: 6},
					{Pattern: `\bcredit\s*worthiness`, Weight: 7},
					{Pattern: `\b(?:recruitment|hiring)\s+decisions?`, Weight: 7},
					{Pattern: `\bremote\s+biometric\s+identification`, Weight: 7},
					{Pattern: `\bcritical\s+infrastructure`, Weight: 6},
				},
			},
		},
	}
}
