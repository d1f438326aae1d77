package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdIngest() *cli.Command {
	var rtCfg runtimeConfig
	var source string
	var force bool

	flags := rtCfg.Flags()
	flags = append(flags,
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Source name of the regulation. Defaults to the file name; only valid with a single file",
			Destination: &source,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Replace chunks already stored for the source",
			Destination: &force,
		},
	)

	return &cli.Command{
		Name:      "ingest",
		Aliases:   []string{"i"},
		Usage:     "Chunk, embed and store regulation documents for retrieval",
		ArgsUsage: "<regulation file>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			paths, err := expandPaths(c.Args().Slice())
			if err != nil {
				return err
			}
			if source != "" && len(paths) > 1 {
				return goerr.New("--source can only be used with a single file", goerr.V("files", len(paths)))
			}

			rt, err := rtCfg.build(ctx, "")
			if err != nil {
				return err
			}
			defer rt.Close()

			w := c.Root().Writer
			for _, path := range paths {
				result, err := rt.uc.Ingest.IngestRegulation(ctx, usecase.IngestInput{
					Path:   path,
					Source: source,
					Force:  force,
				})
				if err != nil {
					return goerr.Wrap(err, "failed to ingest regulation", goerr.V("path", path))
				}

				if result.Skipped {
					fmt.Fprintf(w, "%s: already ingested, skipped (use --force to replace)\n", result.Source)
					continue
				}
				fmt.Fprintf(w, "%s: %d chunks stored", result.Source, result.Chunks)
				if result.Deleted > 0 {
					fmt.Fprintf(w, ", %d replaced", result.Deleted)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
