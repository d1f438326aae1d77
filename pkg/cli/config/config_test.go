package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/classifier"
)

const validTOML = `
[[table]]
category = "prohibited"
threshold = 10

  [[table.indicator]]
  pattern = "social credit"
  weight = 10
  practice = "Social_Scoring"

[[table]]
category = "High-Risk"
threshold = 8

  [[table.indicator]]
  pattern = "medical diagnosis"
  weight = 8

  [[table.indicator]]
  pattern = "radiolog(y|ist)"
  weight = 4
`

const validYAML = `
table:
  - category: limited-risk
    threshold: 6
    indicator:
      - pattern: chatbot
        weight: 6
  - category: minimal-risk
    threshold: 4
    indicator:
      - pattern: product recommendation
        weight: 4
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadIndicatorFile(t *testing.T) {
	t.Run("TOML", func(t *testing.T) {
		file, err := config.LoadIndicatorFile(writeConfig(t, "indicators.toml", validTOML))
		gt.NoError(t, err).Required()
		gt.Array(t, file.Tables).Length(2).Required()
		gt.Array(t, file.Tables[1].Indicators).Length(2)

		cfg := file.ToDomainClassifierConfig()
		table, ok := cfg.Table(types.RiskCategoryHighRisk)
		gt.Bool(t, ok).True()
		gt.Number(t, table.Threshold).Equal(8)
		gt.Value(t, table.Indicators[1].Pattern).Equal("radiolog(y|ist)")

		prohibited, ok := cfg.Table(types.RiskCategoryProhibited)
		gt.Bool(t, ok).True()
		gt.Value(t, prohibited.Indicators[0].Practice).Equal(types.PracticeSocialScoring)
	})

	t.Run("YAML", func(t *testing.T) {
		file, err := config.LoadIndicatorFile(writeConfig(t, "indicators.yml", validYAML))
		gt.NoError(t, err).Required()
		gt.Array(t, file.Tables).Length(2).Required()

		cfg := file.ToDomainClassifierConfig()
		table, ok := cfg.Table(types.RiskCategoryLimitedRisk)
		gt.Bool(t, ok).True()
		gt.Number(t, table.Indicators[0].Weight).Equal(6)
	})
}

func TestLoadIndicatorFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{
			name:    "unsupported extension",
			file:    "indicators.json",
			content: `{}`,
			wantErr: config.ErrUnsupportedFormat,
		},
		{
			name:    "broken TOML",
			file:    "indicators.toml",
			content: "[[table]\ncategory =",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "no table",
			file:    "indicators.toml",
			content: "",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "missing category",
			file: "indicators.toml",
			content: `
[[table]]
threshold = 1
  [[table.indicator]]
  pattern = "x"
  weight = 1
`,
			wantErr: config.ErrMissingCategory,
		},
		{
			name: "table without indicator",
			file: "indicators.yaml",
			content: `
table:
  - category: high-risk
    threshold: 1
`,
			wantErr: config.ErrEmptyTable,
		},
		{
			name: "unknown category",
			file: "indicators.toml",
			content: `
[[table]]
category = "unknown"
threshold = 1
  [[table.indicator]]
  pattern = "x"
  weight = 1
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "duplicated category",
			file: "indicators.toml",
			content: `
[[table]]
category = "high-risk"
threshold = 1
  [[table.indicator]]
  pattern = "x"
  weight = 1

[[table]]
category = "high-risk"
threshold = 1
  [[table.indicator]]
  pattern = "y"
  weight = 1
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "broken pattern",
			file: "indicators.toml",
			content: `
[[table]]
category = "high-risk"
threshold = 1
  [[table.indicator]]
  pattern = "(unclosed"
  weight = 1
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "non positive weight",
			file: "indicators.toml",
			content: `
[[table]]
category = "high-risk"
threshold = 1
  [[table.indicator]]
  pattern = "x"
  weight = 0
`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadIndicatorFile(writeConfig(t, tt.file, tt.content))
			gt.Error(t, err).Is(tt.wantErr)
		})
	}

	t.Run("classifier validation error is kept in the chain", func(t *testing.T) {
		_, err := config.LoadIndicatorFile(writeConfig(t, "indicators.toml", `
[[table]]
category = "high-risk"
threshold = -1
  [[table.indicator]]
  pattern = "x"
  weight = 1
`))
		gt.Error(t, err).Is(config.ErrInvalidConfig)
		gt.Error(t, err).Is(classifier.ErrInvalidConfig)
	})

	t.Run("unknown practice", func(t *testing.T) {
		_, err := config.LoadIndicatorFile(writeConfig(t, "indicators.toml", `
[[table]]
category = "prohibited"
threshold = 1
  [[table.indicator]]
  pattern = "x"
  weight = 1
  practice = "biometric"
`))
		gt.Error(t, err).Is(classifier.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadIndicatorFile(filepath.Join(t.TempDir(), "none.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}

func TestClassifierConfigure(t *testing.T) {
	t.Run("built-in indicators", func(t *testing.T) {
		cls, err := config.NewClassifierForTest("", false).Configure()
		gt.NoError(t, err).Required()

		result, err := cls.Classify("The platform operates a social credit system that assigns each citizen score.")
		gt.NoError(t, err).Required()
		gt.Value(t, result.Category).Equal(types.RiskCategoryProhibited)
	})

	t.Run("indicator file", func(t *testing.T) {
		path := writeConfig(t, "indicators.toml", validTOML)
		cls, err := config.NewClassifierForTest(path, false).Configure()
		gt.NoError(t, err).Required()

		result, err := cls.Classify("A medical diagnosis assistant.")
		gt.NoError(t, err).Required()
		gt.Value(t, result.Category).Equal(types.RiskCategoryHighRisk)

		_, ok := cls.Threshold(types.RiskCategoryLimitedRisk)
		gt.Bool(t, ok).False()
	})

	t.Run("override flag enables hints", func(t *testing.T) {
		cfg := config.NewClassifierForTest("", true)
		gt.Bool(t, cfg.AllowOverride()).True()
		_, err := cfg.Configure()
		gt.NoError(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := writeConfig(t, "indicators.toml", "")
		_, err := config.NewClassifierForTest(path, false).Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}
