package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// expandPaths replaces directories in args by the supported files under them
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to access input", goerr.V("path", arg))
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := document.ListFiles(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	if len(paths) == 0 {
		return nil, goerr.Wrap(usecase.ErrNoInput, "no supported document in arguments", goerr.V("args", args))
	}
	return paths, nil
}

func cmdClassify() *cli.Command {
	var clsCfg config.Classifier
	var jsonOutput bool
	var concurrency int

	var flags []cli.Flag
	flags = append(flags, clsCfg.Flags()...)
	flags = append(flags, clsCfg.OverrideFlag())
	flags = append(flags,
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print results as JSON",
			Destination: &jsonOutput,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of documents loaded in parallel",
			Value:       usecase.DefaultConcurrency,
			Sources:     cli.EnvVars("THEMIS_CONCURRENCY"),
			Destination: &concurrency,
		},
	)

	return &cli.Command{
		Name:      "classify",
		Aliases:   []string{"c"},
		Usage:     "Classify AI system documentation into an EU AI Act risk category",
		ArgsUsage: "<file or directory>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			paths, err := expandPaths(c.Args().Slice())
			if err != nil {
				return err
			}

			cls, err := clsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure classifier")
			}

			uc := usecase.NewClassifyUseCase(cls, document.NewLoader(), concurrency)
			results, err := uc.ClassifyFiles(ctx, paths, clsCfg.AllowOverride())
			if err != nil {
				return goerr.Wrap(err, "classification failed")
			}

			w := c.Root().Writer
			if jsonOutput {
				return writeJSON(w, results)
			}
			th := thresholds(cls)
			for _, fc := range results {
				printClassification(w, fc, th)
			}
			return nil
		},
	}
}
