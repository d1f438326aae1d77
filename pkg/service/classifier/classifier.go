package classifier

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const maxExcerptRunes = 120

type compiledIndicator struct {
	pattern  string
	weight   float64
	practice types.ProhibitedPractice
	re       *regexp.Regexp
}

type compiledTable struct {
	category   types.RiskCategory
	threshold  float64
	indicators []compiledIndicator
}

// Classifier assigns an EU AI Act risk category to document text. It holds
// only compiled, read-only tables and is safe for concurrent use.
type Classifier struct {
	tables        []compiledTable
	evaluators    []Evaluator
	allowOverride bool
}

// Option configures a Classifier
type Option func(*Classifier)

// WithFixtureOverride permits hint-based category override. Only fixture
// harnesses enable it.
func WithFixtureOverride() Option {
	return func(c *Classifier) {
		c.allowOverride = true
	}
}

// ClassifyOption configures a single Classify call
type ClassifyOption func(*classifyOptions)

type classifyOptions struct {
	hint types.RiskCategory
}

// WithHint forces the result category to hint. The classifier must have been
// built with WithFixtureOverride.
func WithHint(hint types.RiskCategory) ClassifyOption {
	return func(o *classifyOptions) {
		o.hint = hint
	}
}

// New compiles cfg into a Classifier. A nil cfg selects DefaultConfig.
func New(cfg *config.ClassifierConfig, opts ...Option) (*Classifier, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}

	for _, category := range types.ScoredRiskCategories() {
		table, ok := cfg.Table(category)
		if !ok {
			continue
		}
		ct := compiledTable{
			category:   table.Category,
			threshold:  table.Threshold,
			indicators: make([]compiledIndicator, 0, len(table.Indicators)),
		}
		for _, ind := range table.Indicators {
			// Validate has already compiled every pattern
			re := regexp.MustCompile(caseInsensitive(ind.Pattern))
			ct.indicators = append(ct.indicators, compiledIndicator{
				pattern:  ind.Pattern,
				weight:   ind.Weight,
				practice: ind.Practice,
				re:       re,
			})
		}
		c.tables = append(c.tables, ct)
	}

	for _, category := range precedenceOrder {
		table, ok := cfg.Table(category)
		if !ok {
			continue
		}
		c.evaluators = append(c.evaluators, NewThresholdEvaluator(category, table.Threshold))
	}

	return c, nil
}

// Validate checks indicator tables without building a classifier
func Validate(cfg *config.ClassifierConfig) error {
	if cfg == nil || len(cfg.Tables) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "no indicator tables")
	}

	seen := make(map[types.RiskCategory]struct{}, len(cfg.Tables))
	for _, table := range cfg.Tables {
		if err := table.Category.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid table category", goerr.V("category", table.Category))
		}
		if table.Category == types.RiskCategoryUnknown {
			return goerr.Wrap(ErrInvalidConfig, "unknown category cannot be scored")
		}
		if _, dup := seen[table.Category]; dup {
			return goerr.Wrap(ErrInvalidConfig, "duplicated table category", goerr.V("category", table.Category))
		}
		seen[table.Category] = struct{}{}

		if table.Threshold <= 0 {
			return goerr.Wrap(ErrInvalidConfig, "threshold must be positive",
				goerr.V("category", table.Category),
				goerr.V("threshold", table.Threshold))
		}
		for _, ind := range table.Indicators {
			if ind.Pattern == "" {
				return goerr.Wrap(ErrInvalidConfig, "empty indicator pattern", goerr.V("category", table.Category))
			}
			if ind.Weight <= 0 {
				return goerr.Wrap(ErrInvalidConfig, "indicator weight must be positive",
					goerr.V("category", table.Category),
					goerr.V("pattern", ind.Pattern),
					goerr.V("weight", ind.Weight))
			}
			if err := ind.Practice.Validate(); err != nil {
				return goerr.Wrap(ErrInvalidConfig, "invalid indicator practice",
					goerr.V("category", table.Category),
					goerr.V("pattern", ind.Pattern),
					goerr.V("practice", ind.Practice))
			}
			if ind.Practice != "" && table.Category != types.RiskCategoryProhibited {
				return goerr.Wrap(ErrInvalidConfig, "practice is only allowed on prohibited indicators",
					goerr.V("category", table.Category),
					goerr.V("pattern", ind.Pattern))
			}
			if _, err := regexp.Compile(caseInsensitive(ind.Pattern)); err != nil {
				return goerr.Wrap(ErrInvalidConfig, "failed to compile indicator pattern",
					goerr.V("category", table.Category),
					goerr.V("pattern", ind.Pattern),
					goerr.V("cause", err.Error()))
			}
		}
	}
	return nil
}

// Classify scores text against every table and selects a category by
// precedence. Empty text is classified as unknown.
func (c *Classifier) Classify(text string, opts ...ClassifyOption) (*model.ClassificationResult, error) {
	var o classifyOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.hint != "" {
		if !c.allowOverride {
			return nil, goerr.Wrap(ErrOverrideDisabled, "hint given to classifier without override", goerr.V("hint", o.hint))
		}
		if err := o.hint.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid hint")
		}
	}

	if !utf8.ValidString(text) {
		return nil, goerr.Wrap(ErrInvalidInput, "document text is not valid UTF-8")
	}

	normalized := normalizeSpace(text)

	scores := make(map[types.RiskCategory]float64, len(c.tables))
	var matches []model.IndicatorMatch
	for _, table := range c.tables {
		var total float64
		for _, ind := range table.indicators {
			loc := ind.re.FindStringIndex(normalized)
			if loc == nil {
				continue
			}
			total += ind.weight
			matches = append(matches, model.IndicatorMatch{
				Category: table.category,
				Pattern:  ind.pattern,
				Weight:   ind.weight,
				Excerpt:  excerpt(normalized[loc[0]:loc[1]]),
				Practice: ind.practice,
			})
		}
		scores[table.category] = total
	}

	breakdown := model.NewScoreBreakdown(scores)
	result := &model.ClassificationResult{
		Category: SelectCategory(c.evaluators, breakdown),
		Scores:   breakdown,
		Matches:  matches,
	}

	if o.hint != "" {
		result.Category = o.hint
		result.Overridden = true
		result.Hint = o.hint
	}

	return result, nil
}

// Threshold returns the configured threshold of category
func (c *Classifier) Threshold(category types.RiskCategory) (float64, bool) {
	for _, t := range c.tables {
		if t.category == category {
			return t.threshold, true
		}
	}
	return 0, false
}

func caseInsensitive(pattern string) string {
	return "(?i)" + pattern
}

func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= maxExcerptRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxExcerptRunes]) + "..."
}
