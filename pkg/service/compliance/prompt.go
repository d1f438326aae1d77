package compliance

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const areaSystemPrompt = `You are an expert EU AI Act compliance analyst.
Assess how well the documented AI system meets the requirements of one compliance area.

## Instructions:

1. Use the EU AI Act excerpts as the reference for the requirements.
2. Base every finding on evidence from the system documentation.
3. Assign a compliance score from 0.0 (non-compliant) to 1.0 (fully compliant).
4. List each missing or insufficient measure as a separate gap, one sentence each.
5. If the documentation is silent on a requirement, treat it as a gap.
`

const prohibitionSystemPrompt = `You are an expert EU AI Act compliance analyst.
Decide whether the documented AI system engages in practices prohibited by Article 5 of the EU AI Act.

## Instructions:

1. social_scoring: the system evaluates or classifies natural persons over time based on social behaviour
   or personal characteristics, leading to detrimental or unfavourable treatment (Article 5(1)(c)).
2. manipulation: the system deploys subliminal, manipulative or deceptive techniques, or exploits
   vulnerabilities due to age, disability or a specific social or economic situation (Article 5(1)(a) and (b)).
3. Explain each decision with evidence from the documentation.
`

const recommendSystemPrompt = `You are an expert EU AI Act compliance consultant.
Propose specific, actionable measures that close the listed compliance gaps.
Return between 1 and 3 recommendations, each a single sentence starting with a verb.
`

const suggestSystemPrompt = `You are an expert EU AI Act compliance analyst.
Classify the documented AI system into one EU AI Act risk category:
prohibited (Article 5), high-risk (Article 6 and Annex III), limited-risk (Article 50 transparency obligations),
or minimal-risk. Answer "unknown" when the documentation is insufficient.
`

func buildAreaPrompt(input AreaInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Compliance area: %s\n\n", input.Area.DisplayName())
	fmt.Fprintf(&sb, "The system has been classified as %s.\n\n", input.Category.DisplayName())

	sb.WriteString("## EU AI Act context:\n\n")
	if len(input.Context) == 0 {
		sb.WriteString("(no regulation excerpts available, rely on your knowledge of the EU AI Act)\n\n")
	}
	for _, c := range input.Context {
		if c == nil || c.Chunk == nil {
			continue
		}
		if c.Chunk.Meta.Article != "" {
			fmt.Fprintf(&sb, "### Article %s\n", c.Chunk.Meta.Article)
		}
		sb.WriteString(c.Chunk.Text)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## System documentation:\n\n")
	sb.WriteString(input.Documentation)
	sb.WriteString("\n")

	return sb.String()
}

func buildProhibitionPrompt(input ProhibitionInput) string {
	var sb strings.Builder

	if len(input.Matches) > 0 {
		sb.WriteString("## Indicators found by keyword screening:\n\n")
		for _, m := range input.Matches {
			fmt.Fprintf(&sb, "- [%s] %q\n", m.Category, m.Excerpt)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## System documentation:\n\n")
	sb.WriteString(input.Documentation)
	sb.WriteString("\n")

	return sb.String()
}

func buildRecommendPrompt(input RecommendInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Compliance gaps of a %s AI system in the %s area:\n\n",
		input.Category.DisplayName(), input.Area.DisplayName())
	for _, g := range input.Gaps {
		fmt.Fprintf(&sb, "- (%s) %s\n", g.Severity, g.Description)
	}

	return sb.String()
}

func buildSuggestPrompt(documentation string) string {
	return "## System documentation:\n\n" + documentation + "\n"
}

func areaSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ComplianceAreaAssessment",
		Description: "Assessment of one compliance area",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"score": {
				Type:        gollem.TypeNumber,
				Description: "Compliance score from 0.0 (non-compliant) to 1.0 (fully compliant)",
				Required:    true,
			},
			"summary": {
				Type:        gollem.TypeString,
				Description: "Two or three sentence summary of the assessment",
				Required:    true,
			},
			"findings": {
				Type:        gollem.TypeArray,
				Description: "Evidence-based findings",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
			"gaps": {
				Type:        gollem.TypeArray,
				Description: "Missing or insufficient measures, one sentence each",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
		},
	}
}

func prohibitionSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ProhibitedPracticeAssessment",
		Description: "Article 5 prohibited practice assessment",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"social_scoring": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the system performs social scoring",
				Required:    true,
			},
			"social_scoring_explanation": {
				Type:        gollem.TypeString,
				Description: "Evidence for the social scoring decision",
				Required:    true,
			},
			"manipulation": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the system manipulates or exploits vulnerabilities",
				Required:    true,
			},
			"manipulation_explanation": {
				Type:        gollem.TypeString,
				Description: "Evidence for the manipulation decision",
				Required:    true,
			},
		},
	}
}

func recommendSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ComplianceRecommendations",
		Description: "Recommendations that close compliance gaps",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"recommendations": {
				Type:        gollem.TypeArray,
				Description: "One to three actionable recommendations",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
		},
	}
}

func suggestSchema() *gollem.Parameter {
	categories := make([]string, 0, len(types.AllRiskCategories()))
	for _, c := range types.AllRiskCategories() {
		categories = append(categories, c.String())
	}
	categoryDesc := "Risk category, one of: " + strings.Join(categories, ", ")

	return &gollem.Parameter{
		Title:       "RiskCategorySuggestion",
		Description: "Advisory EU AI Act risk category",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"category": {
				Type:        gollem.TypeString,
				Description: categoryDesc,
				Enum:        categories,
				Required:    true,
			},
			"rationale": {
				Type:        gollem.TypeString,
				Description: "Reasoning citing the documentation",
				Required:    true,
			},
		},
	}
}
