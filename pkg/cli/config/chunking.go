package config

import (
	"log/slog"

	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/urfave/cli/v3"
)

// Chunking holds regulation chunking parameters
type Chunking struct {
	size    int
	overlap int
}

// Flags returns CLI flags for chunking configuration
func (x *Chunking) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "chunk-size",
			Usage:       "Maximum characters per regulation chunk",
			Value:       document.DefaultChunkSize,
			Category:    "Chunking",
			Sources:     cli.EnvVars("THEMIS_CHUNK_SIZE"),
			Destination: &x.size,
		},
		&cli.IntFlag{
			Name:        "chunk-overlap",
			Usage:       "Characters shared by consecutive chunks",
			Value:       document.DefaultChunkOverlap,
			Category:    "Chunking",
			Sources:     cli.EnvVars("THEMIS_CHUNK_OVERLAP"),
			Destination: &x.overlap,
		},
	}
}

func (x Chunking) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("size", x.size),
		slog.Int("overlap", x.overlap),
	)
}

// Configure builds the chunker
func (x *Chunking) Configure() (*document.Chunker, error) {
	return document.NewChunker(x.size, x.overlap)
}
