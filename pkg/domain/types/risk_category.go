package types

import "github.com/m-mizutani/goerr/v2"

// RiskCategory is an EU AI Act risk tier assigned to an AI system, plus unknown
type RiskCategory string

const (
	RiskCategoryProhibited  RiskCategory = "prohibited"
	RiskCategoryHighRisk    RiskCategory = "high-risk"
	RiskCategoryLimitedRisk RiskCategory = "limited-risk"
	RiskCategoryMinimalRisk RiskCategory = "minimal-risk"
	RiskCategoryUnknown     RiskCategory = "unknown"
)

// AllRiskCategories returns every valid category, unknown last
func AllRiskCategories() []RiskCategory {
	return []RiskCategory{
		RiskCategoryProhibited,
		RiskCategoryHighRisk,
		RiskCategoryLimitedRisk,
		RiskCategoryMinimalRisk,
		RiskCategoryUnknown,
	}
}

// ScoredRiskCategories returns the categories that own indicator tables.
// unknown is the fallback outcome and is never scored.
func ScoredRiskCategories() []RiskCategory {
	return []RiskCategory{
		RiskCategoryProhibited,
		RiskCategoryHighRisk,
		RiskCategoryLimitedRisk,
		RiskCategoryMinimalRisk,
	}
}

// IsValid checks if the category is one of the enumerated values
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskCategoryProhibited,
		RiskCategoryHighRisk,
		RiskCategoryLimitedRisk,
		RiskCategoryMinimalRisk,
		RiskCategoryUnknown:
		return true
	default:
		return false
	}
}

// Validate returns an error if the category is not one of the enumerated values
func (c RiskCategory) Validate() error {
	if !c.IsValid() {
		return goerr.New("invalid risk category", goerr.V("category", string(c)))
	}
	return nil
}

// String returns the string representation of the category
func (c RiskCategory) String() string {
	return string(c)
}

// DisplayName returns the label used in reports, e.g. "High-Risk"
func (c RiskCategory) DisplayName() string {
	switch c {
	case RiskCategoryProhibited:
		return "Prohibited"
	case RiskCategoryHighRisk:
		return "High-Risk"
	case RiskCategoryLimitedRisk:
		return "Limited-Risk"
	case RiskCategoryMinimalRisk:
		return "Minimal-Risk"
	default:
		return "Undetermined"
	}
}

// ParseRiskCategory parses a string into a RiskCategory
func ParseRiskCategory(s string) (RiskCategory, error) {
	c := RiskCategory(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}
