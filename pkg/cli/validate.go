package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var clsCfg config.Classifier

	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate an indicator file and print its tables",
		ArgsUsage: "[indicator file]",
		Flags:     clsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			path := c.Args().First()
			if path == "" {
				path = clsCfg.IndicatorPath()
			}

			w := c.Root().Writer
			if path == "" {
				cfg := classifier.DefaultConfig()
				if err := classifier.Validate(cfg); err != nil {
					return goerr.Wrap(err, "built-in indicator tables are invalid")
				}
				logger.Info("No indicator file given, validated built-in tables")
				printTables(w, cfg)
				return nil
			}

			file, err := config.LoadIndicatorFile(path)
			if err != nil {
				return goerr.Wrap(err, "indicator file validation failed")
			}

			logger.Info("Indicator file validation passed",
				"path", path,
				"table_count", len(file.Tables),
			)
			printTables(w, file.ToDomainClassifierConfig())
			return nil
		},
	}
}
