package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ComplianceArea is a requirement area assessed for non-prohibited systems
type ComplianceArea string

const (
	ComplianceAreaRiskAssessment      ComplianceArea = "risk_assessment"
	ComplianceAreaDataGovernance      ComplianceArea = "data_governance"
	ComplianceAreaTechnicalRobustness ComplianceArea = "technical_robustness"
	ComplianceAreaTransparency        ComplianceArea = "transparency"
	ComplianceAreaHumanOversight      ComplianceArea = "human_oversight"
	ComplianceAreaAccountability      ComplianceArea = "accountability"
)

// AllComplianceAreas returns the areas in report order
func AllComplianceAreas() []ComplianceArea {
	return []ComplianceArea{
		ComplianceAreaRiskAssessment,
		ComplianceAreaDataGovernance,
		ComplianceAreaTechnicalRobustness,
		ComplianceAreaTransparency,
		ComplianceAreaHumanOversight,
		ComplianceAreaAccountability,
	}
}

// Validate checks if the area is known
func (a ComplianceArea) Validate() error {
	for _, known := range AllComplianceAreas() {
		if a == known {
			return nil
		}
	}
	return goerr.New("invalid compliance area", goerr.V("area", string(a)))
}

// String returns the string representation of the area
func (a ComplianceArea) String() string {
	return string(a)
}

// DisplayName converts "human_oversight" into "Human Oversight"
func (a ComplianceArea) DisplayName() string {
	words := strings.Split(string(a), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
