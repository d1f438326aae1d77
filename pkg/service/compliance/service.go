package compliance

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

const (
	// GapThreshold is the area score below which gaps are recorded
	GapThreshold = 0.7

	// MaxRecommendations per area
	MaxRecommendations = 3

	ArticleSocialScoring = "5(1)(c)"
	ArticleManipulation  = "5(1)(a)"

	// ProhibitedRecommendation is the fixed advice for prohibited systems
	ProhibitedRecommendation = "This AI system falls under prohibited uses in the EU AI Act. " +
		"It should not be deployed in the EU without significant redesign to remove the prohibited elements."

	socialScoringDescription = "The system appears to be designed for social scoring and evaluation of natural persons " +
		"over a period of time based on social behavior or known or predicted personal or personality characteristics."
	manipulationDescription = "The system appears to deploy subliminal techniques beyond a person's consciousness or " +
		"exploit vulnerabilities due to age, disability, or a specific social or economic situation."
)

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new compliance Service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// generate runs one JSON-mode session and decodes the first text into out
func (c *client) generate(ctx context.Context, systemPrompt, userPrompt string, schema *gollem.Parameter, out any) error {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		return goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return goerr.New("empty LLM response", goerr.V("schema", schema.Title))
	}

	if err := json.Unmarshal([]byte(resp.Texts[0]), out); err != nil {
		return goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}
	return nil
}

func (c *client) AnalyzeArea(ctx context.Context, input AreaInput) (*model.AreaAssessment, error) {
	if err := input.Area.Validate(); err != nil {
		return nil, err
	}

	var resp areaResponse
	if err := c.generate(ctx, areaSystemPrompt, buildAreaPrompt(input), areaSchema(), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to analyze compliance area", goerr.V("area", input.Area))
	}

	score := clamp(resp.Score)
	result := &model.AreaAssessment{
		Area:     input.Area,
		Score:    score,
		Summary:  strings.TrimSpace(resp.Summary),
		Findings: nonEmpty(resp.Findings),
		Articles: contextArticles(input.Context),
	}

	if score < GapThreshold {
		severity := types.SeverityFromScore(score)
		for _, g := range nonEmpty(resp.Gaps) {
			result.Gaps = append(result.Gaps, model.Gap{
				Area:        input.Area,
				Description: g,
				Severity:    severity,
			})
		}
	}

	logging.From(ctx).Debug("compliance area analyzed",
		"area", input.Area,
		"score", score,
		"gaps", len(result.Gaps))
	return result, nil
}

func (c *client) AnalyzeProhibition(ctx context.Context, input ProhibitionInput) (*model.ProhibitionAnalysis, error) {
	var resp prohibitionResponse
	if err := c.generate(ctx, prohibitionSystemPrompt, buildProhibitionPrompt(input), prohibitionSchema(), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to analyze prohibited practices")
	}

	result := &model.ProhibitionAnalysis{
		SocialScoring:            resp.SocialScoring,
		SocialScoringExplanation: strings.TrimSpace(resp.SocialScoringExplanation),
		Manipulation:             resp.Manipulation,
		ManipulationExplanation:  strings.TrimSpace(resp.ManipulationExplanation),
	}

	// Direct indicator evidence outweighs the model's judgement
	for _, m := range input.Matches {
		if m.Category != types.RiskCategoryProhibited {
			continue
		}
		switch m.Practice {
		case types.PracticeSocialScoring:
			if !result.SocialScoring {
				logging.From(ctx).Info("social scoring forced by classifier evidence", "pattern", m.Pattern)
			}
			result.SocialScoring = true
		case types.PracticeManipulation:
			if !result.Manipulation {
				logging.From(ctx).Info("manipulation forced by classifier evidence", "pattern", m.Pattern)
			}
			result.Manipulation = true
		}
	}

	if result.SocialScoring {
		if result.SocialScoringExplanation == "" {
			result.SocialScoringExplanation = socialScoringDescription
		}
		result.Articles = append(result.Articles, ArticleSocialScoring)
	}
	if result.Manipulation {
		if result.ManipulationExplanation == "" {
			result.ManipulationExplanation = manipulationDescription
		}
		result.Articles = append(result.Articles, ArticleManipulation)
	}

	return result, nil
}

func (c *client) Recommend(ctx context.Context, input RecommendInput) ([]model.Recommendation, error) {
	if len(input.Gaps) == 0 {
		return nil, nil
	}

	var resp recommendResponse
	if err := c.generate(ctx, recommendSystemPrompt, buildRecommendPrompt(input), recommendSchema(), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to generate recommendations", goerr.V("area", input.Area))
	}

	priority := types.PriorityMedium
	if slices.ContainsFunc(input.Gaps, func(g model.Gap) bool { return g.Severity == types.SeverityHigh }) {
		priority = types.PriorityHigh
	}

	texts := nonEmpty(resp.Recommendations)
	if len(texts) > MaxRecommendations {
		texts = texts[:MaxRecommendations]
	}

	recs := make([]model.Recommendation, 0, len(texts))
	for _, text := range texts {
		recs = append(recs, model.Recommendation{
			Area:     input.Area,
			Text:     text,
			Priority: priority,
		})
	}
	return recs, nil
}

func (c *client) SuggestCategory(ctx context.Context, documentation string) (*model.CategorySuggestion, error) {
	var resp suggestResponse
	if err := c.generate(ctx, suggestSystemPrompt, buildSuggestPrompt(documentation), suggestSchema(), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to suggest risk category")
	}

	category, err := types.ParseRiskCategory(strings.ToLower(strings.TrimSpace(resp.Category)))
	if err != nil {
		logging.From(ctx).Warn("LLM suggested an undefined category", "category", resp.Category)
		category = types.RiskCategoryUnknown
	}

	return &model.CategorySuggestion{
		Category:  category,
		Rationale: strings.TrimSpace(resp.Rationale),
	}, nil
}

func clamp(score float64) float64 {
	return max(0, min(1, score))
}

func nonEmpty(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func contextArticles(chunks []*model.ScoredRegulationChunk) []string {
	var articles []string
	for _, c := range chunks {
		if c == nil || c.Chunk == nil || c.Chunk.Meta.Article == "" {
			continue
		}
		if !slices.Contains(articles, c.Chunk.Meta.Article) {
			articles = append(articles, c.Chunk.Meta.Article)
		}
	}
	return articles
}
