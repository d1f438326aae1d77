package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const timeLayout = "2006-01-02 15:04:05"

// UnknownCategorySummary is shown when no risk category cleared its threshold
const UnknownCategorySummary = "The risk category could not be determined; manual review recommended."

var categorySummaries = map[types.RiskCategory]string{
	types.RiskCategoryProhibited: "This AI system falls under the PROHIBITED category in the EU AI Act (Article 5). " +
		"Systems in this category cannot be legally deployed within the EU. " +
		"See the prohibition analysis section for the specific prohibitions that apply and the necessary changes.",
	types.RiskCategoryHighRisk: "As a high-risk AI system (Article 6 and Annex III), this application is subject to the strictest " +
		"requirements under the EU AI Act, including risk management, data governance, technical documentation, " +
		"record-keeping, transparency, human oversight, accuracy and robustness (Articles 9 to 15).",
	types.RiskCategoryLimitedRisk: "As a limited-risk AI system with specific transparency obligations (Article 50), this application " +
		"must ensure users are aware when they are interacting with AI, and must comply with the labelling " +
		"requirements for generated or manipulated content.",
	types.RiskCategoryMinimalRisk: "As a minimal-risk AI system, this application has limited obligations under the EU AI Act, " +
		"but should still maintain appropriate documentation and risk management practices.",
}

// Summary returns the category-specific boilerplate paragraph
func Summary(category types.RiskCategory) string {
	if s, ok := categorySummaries[category]; ok {
		return s
	}
	return UnknownCategorySummary
}

type view struct {
	SystemName      string
	GeneratedAt     string
	SystemType      string
	ScorePercent    string
	ComplianceLevel string
	Summary         string
	Classification  classificationView
	Areas           []areaView
	Gaps            []gapView
	Recommendations []recommendationView
	Prohibition     *model.ProhibitionAnalysis
	Sources         []string
}

type classificationView struct {
	Category   string
	Overridden bool
	Hint       string
	Scores     []scoreView
	Matches    []matchView
	Suggestion *suggestionView
}

type scoreView struct {
	Category  string
	Score     string
	Threshold string
	Selected  bool
	NearMiss  bool
}

type matchView struct {
	Category string
	Excerpt  string
	Weight   string
}

type suggestionView struct {
	Category  string
	Rationale string
}

type areaView struct {
	Name    string
	Percent string
}

type gapView struct {
	Area        string
	Severity    string
	Description string
}

type recommendationView struct {
	Area     string
	Priority string
	Text     string
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func newView(a *model.Assessment, thresholds map[types.RiskCategory]float64, now time.Time) *view {
	category := a.Category()

	v := &view{
		SystemName:      a.SystemName,
		GeneratedAt:     now.Format(timeLayout),
		SystemType:      category.DisplayName(),
		ScorePercent:    percent(a.OverallScore),
		ComplianceLevel: a.ComplianceLevel(),
		Summary:         Summary(category),
		Sources:         a.Sources,
	}
	if v.SystemName == "" {
		v.SystemName = "Unnamed AI System"
	}

	v.Classification = classificationView{Category: category.DisplayName()}
	if c := a.Classification; c != nil {
		v.Classification.Overridden = c.Overridden
		v.Classification.Hint = c.Hint.String()

		// Every scored category is listed so that near misses stay visible
		for _, cat := range types.ScoredRiskCategories() {
			score := c.Scores.Score(cat)
			row := scoreView{
				Category: cat.DisplayName(),
				Score:    number(score),
				Selected: cat == category,
			}
			if thr, ok := thresholds[cat]; ok {
				row.Threshold = number(thr)
			}
			row.NearMiss = !row.Selected && score > 0
			v.Classification.Scores = append(v.Classification.Scores, row)
		}

		for _, m := range c.Matches {
			v.Classification.Matches = append(v.Classification.Matches, matchView{
				Category: m.Category.DisplayName(),
				Excerpt:  m.Excerpt,
				Weight:   number(m.Weight),
			})
		}
	}

	if s := a.Suggestion; s != nil {
		v.Classification.Suggestion = &suggestionView{
			Category:  s.Category.DisplayName(),
			Rationale: s.Rationale,
		}
	}

	for _, area := range a.Areas {
		v.Areas = append(v.Areas, areaView{
			Name:    area.Area.DisplayName(),
			Percent: percent(area.Score),
		})
	}

	for _, g := range a.Gaps() {
		v.Gaps = append(v.Gaps, gapView{
			Area:        g.Area.DisplayName(),
			Severity:    g.Severity.String(),
			Description: g.Description,
		})
	}

	for _, r := range a.Recommendations {
		area := "General"
		if r.Area != "" {
			area = r.Area.DisplayName()
		}
		v.Recommendations = append(v.Recommendations, recommendationView{
			Area:     area,
			Priority: r.Priority.String(),
			Text:     r.Text,
		})
	}

	if category == types.RiskCategoryProhibited {
		v.Prohibition = a.Prohibition
	}

	return v
}
