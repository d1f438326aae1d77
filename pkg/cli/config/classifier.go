package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/urfave/cli/v3"
)

// Classifier holds configuration of the risk classifier
type Classifier struct {
	indicatorPath string
	allowOverride bool
}

// Flags returns CLI flags for classifier configuration
func (x *Classifier) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "indicator-config",
			Usage:       "Path to indicator tables (.toml, .yaml). Built-in tables are used if omitted",
			Category:    "Classifier",
			Sources:     cli.EnvVars("THEMIS_INDICATOR_CONFIG"),
			Destination: &x.indicatorPath,
		},
	}
}

// OverrideFlag returns the flag enabling fixture hint override. Only the
// suite command registers it.
func (x *Classifier) OverrideFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "allow-override",
		Usage:       "Let fixture directory names override the detected category",
		Category:    "Classifier",
		Sources:     cli.EnvVars("THEMIS_ALLOW_OVERRIDE"),
		Destination: &x.allowOverride,
	}
}

// IndicatorPath returns the configured indicator file path
func (x *Classifier) IndicatorPath() string {
	return x.indicatorPath
}

// AllowOverride reports whether fixture hint override is enabled
func (x *Classifier) AllowOverride() bool {
	return x.allowOverride
}

func (x Classifier) LogValue() slog.Value {
	source := "builtin"
	if x.indicatorPath != "" {
		source = x.indicatorPath
	}
	return slog.GroupValue(
		slog.String("indicators", source),
		slog.Bool("allow_override", x.allowOverride),
	)
}

// Configure builds the classifier from the indicator file or the built-in
// tables
func (x *Classifier) Configure() (*classifier.Classifier, error) {
	var opts []classifier.Option
	if x.allowOverride {
		opts = append(opts, classifier.WithFixtureOverride())
	}

	if x.indicatorPath == "" {
		cls, err := classifier.New(nil, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build classifier with built-in indicators")
		}
		return cls, nil
	}

	file, err := LoadIndicatorFile(x.indicatorPath)
	if err != nil {
		return nil, err
	}

	cls, err := classifier.New(file.ToDomainClassifierConfig(), opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build classifier", goerr.V(ConfigPathKey, x.indicatorPath))
	}
	return cls, nil
}
