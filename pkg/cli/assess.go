package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var rtCfg runtimeConfig
	var systemName string
	var outputDir string
	var topK int
	var jsonOutput bool

	flags := rtCfg.Flags()
	flags = append(flags,
		&cli.StringFlag{
			Name:        "system-name",
			Aliases:     []string{"n"},
			Usage:       "Name of the assessed AI system",
			Destination: &systemName,
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory the reports are written to",
			Value:       "reports",
			Sources:     cli.EnvVars("THEMIS_OUTPUT_DIR"),
			Destination: &outputDir,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Regulation chunks retrieved per compliance area",
			Value:       usecase.DefaultTopK,
			Sources:     cli.EnvVars("THEMIS_TOP_K"),
			Destination: &topK,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the assessment as JSON",
			Destination: &jsonOutput,
		},
	)

	return &cli.Command{
		Name:      "assess",
		Aliases:   []string{"a"},
		Usage:     "Classify documentation and assess EU AI Act compliance",
		ArgsUsage: "<file or directory>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			paths, err := expandPaths(c.Args().Slice())
			if err != nil {
				return err
			}
			if outputDir == "" {
				return goerr.New("--output-dir must not be empty")
			}

			rt, err := rtCfg.build(ctx, outputDir)
			if err != nil {
				return err
			}
			defer rt.Close()

			out, err := rt.uc.Assess.Assess(ctx, usecase.AssessInput{
				SystemName: systemName,
				Paths:      paths,
				TopK:       topK,
			})
			if err != nil {
				return goerr.Wrap(err, "assessment failed")
			}

			w := c.Root().Writer
			if jsonOutput {
				return writeJSON(w, out.Assessment)
			}
			printAssessment(w, out)
			return nil
		},
	}
}
