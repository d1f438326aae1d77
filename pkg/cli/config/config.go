package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"gopkg.in/yaml.v3"
)

// IndicatorFile represents an indicator configuration file
type IndicatorFile struct {
	Tables []IndicatorTable `toml:"table" yaml:"table"`
}

// IndicatorTable represents the indicators of one risk category
type IndicatorTable struct {
	Category   string      `toml:"category" yaml:"category"`
	Threshold  float64     `toml:"threshold" yaml:"threshold"`
	Indicators []Indicator `toml:"indicator" yaml:"indicator"`
}

// Indicator represents a weighted pattern
type Indicator struct {
	Pattern  string  `toml:"pattern" yaml:"pattern"`
	Weight   float64 `toml:"weight" yaml:"weight"`
	Practice string  `toml:"practice,omitempty" yaml:"practice,omitempty"`
}

// Validate checks if the IndicatorFile is valid
func (f *IndicatorFile) Validate() error {
	if len(f.Tables) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "no indicator table defined")
	}
	for i, table := range f.Tables {
		if table.Category == "" {
			return goerr.Wrap(ErrMissingCategory, "table has no category", goerr.V(TableIndexKey, i))
		}
		if len(table.Indicators) == 0 {
			return goerr.Wrap(ErrEmptyTable, "table has no indicator",
				goerr.V(TableIndexKey, i),
				goerr.V(CategoryKey, table.Category))
		}
	}

	if err := classifier.Validate(f.ToDomainClassifierConfig()); err != nil {
		return goerr.Wrap(errors.Join(ErrInvalidConfig, err), "indicator tables are not usable")
	}
	return nil
}

// ToDomainClassifierConfig converts IndicatorFile to domain ClassifierConfig
func (f *IndicatorFile) ToDomainClassifierConfig() *domainConfig.ClassifierConfig {
	tables := make([]domainConfig.IndicatorTable, len(f.Tables))
	for i, t := range f.Tables {
		indicators := make([]domainConfig.Indicator, len(t.Indicators))
		for j, ind := range t.Indicators {
			indicators[j] = domainConfig.Indicator{
				Pattern:  ind.Pattern,
				Weight:   ind.Weight,
				Practice: types.ProhibitedPractice(strings.ToLower(strings.TrimSpace(ind.Practice))),
			}
		}
		tables[i] = domainConfig.IndicatorTable{
			Category:   types.RiskCategory(strings.ToLower(strings.TrimSpace(t.Category))),
			Threshold:  t.Threshold,
			Indicators: indicators,
		}
	}
	return &domainConfig.ClassifierConfig{Tables: tables}
}

// LoadIndicatorFile loads indicator tables from a TOML or YAML file, chosen
// by extension
func LoadIndicatorFile(path string) (*IndicatorFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "indicator file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read indicator file", goerr.V(ConfigPathKey, path))
	}

	var file IndicatorFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML indicator file",
				goerr.V(ConfigPathKey, path),
				goerr.V("cause", err.Error()))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse YAML indicator file",
				goerr.V(ConfigPathKey, path),
				goerr.V("cause", err.Error()))
		}
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "indicator file must be .toml, .yaml or .yml", goerr.V(ConfigPathKey, path))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "indicator file validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}
