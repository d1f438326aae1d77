package config

import "github.com/secmon-lab/themis/pkg/domain/types"

// Indicator is a weighted evidence pattern. Pattern is a regular expression
// matched case-insensitively; plain phrases are valid patterns. Practice is
// only set on prohibited indicators.
type Indicator struct {
	Pattern  string
	Weight   float64
	Practice types.ProhibitedPractice
}

// IndicatorTable holds the indicators of one risk category and the score
// the category must reach to be selected
type IndicatorTable struct {
	Category   types.RiskCategory
	Threshold  float64
	Indicators []Indicator
}

// ClassifierConfig holds all indicator tables
type ClassifierConfig struct {
	Tables []IndicatorTable
}

// Table returns the table for the category
func (c *ClassifierConfig) Table(category types.RiskCategory) (*IndicatorTable, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Tables {
		if c.Tables[i].Category == category {
			return &c.Tables[i], true
		}
	}
	return nil, false
}
