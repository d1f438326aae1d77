package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/repository/weaviate"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Weaviate holds configuration of the optional Weaviate regulation store
type Weaviate struct {
	url       string
	className string
}

// Flags returns CLI flags for Weaviate configuration
func (x *Weaviate) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "weaviate-url",
			Usage:       "Weaviate URL, e.g. http://localhost:8080. Regulation chunks are stored in the repository if omitted",
			Category:    "Weaviate",
			Sources:     cli.EnvVars("THEMIS_WEAVIATE_URL"),
			Destination: &x.url,
		},
		&cli.StringFlag{
			Name:        "weaviate-class",
			Usage:       "Weaviate class holding regulation chunks",
			Value:       weaviate.DefaultClassName,
			Category:    "Weaviate",
			Sources:     cli.EnvVars("THEMIS_WEAVIATE_CLASS"),
			Destination: &x.className,
		},
	}
}

func (x Weaviate) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.url),
		slog.String("class", x.className),
	)
}

// Configure connects to Weaviate and ensures the class exists. Returns nil if
// no URL is configured.
func (x *Weaviate) Configure(ctx context.Context) (interfaces.RegulationRepository, error) {
	if x.url == "" {
		return nil, nil
	}

	var opts []weaviate.Option
	if x.className != "" {
		opts = append(opts, weaviate.WithClassName(x.className))
	}
	store, err := weaviate.New(x.url, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize weaviate store")
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to prepare weaviate schema", goerr.V("url", x.url))
	}

	logging.Default().Info("Using Weaviate regulation store", "url", x.url, "class", x.className)
	return store, nil
}
