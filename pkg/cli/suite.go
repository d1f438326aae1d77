package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// ErrSuiteFailed is returned when at least one fixture is misclassified
var ErrSuiteFailed = goerr.New("fixture suite failed")

func cmdSuite() *cli.Command {
	var clsCfg config.Classifier
	var jsonOutput bool

	var flags []cli.Flag
	flags = append(flags, clsCfg.Flags()...)
	flags = append(flags, clsCfg.OverrideFlag())
	flags = append(flags, &cli.BoolFlag{
		Name:        "json",
		Usage:       "Print the suite result as JSON",
		Destination: &jsonOutput,
	})

	return &cli.Command{
		Name:      "suite",
		Aliases:   []string{"s"},
		Usage:     "Classify fixture documents grouped in <category>/ directories and compare",
		ArgsUsage: "<fixture directory>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := c.Args().First()
			if dir == "" {
				return goerr.Wrap(usecase.ErrNoInput, "fixture directory is required")
			}

			cls, err := clsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure classifier")
			}

			uc := usecase.NewSuiteUseCase(usecase.NewClassifyUseCase(cls, document.NewLoader(), usecase.DefaultConcurrency))
			result, err := uc.Run(ctx, usecase.SuiteInput{
				Dir:           dir,
				AllowOverride: clsCfg.AllowOverride(),
			})
			if err != nil {
				return goerr.Wrap(err, "suite failed to run", goerr.V("dir", dir))
			}

			w := c.Root().Writer
			if jsonOutput {
				if err := writeJSON(w, result); err != nil {
					return err
				}
			} else {
				printSuite(w, result)
			}

			if !result.OK() {
				return goerr.Wrap(ErrSuiteFailed, "misclassified fixtures",
					goerr.V("passed", result.Passed),
					goerr.V("failed", result.Failed))
			}
			return nil
		},
	}
}
