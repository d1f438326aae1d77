package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrNoInput             = goerr.New("no input documents")
	ErrEmbeddingDisabled   = goerr.New("embedding is not configured")
	ErrRegulationStoreNone = goerr.New("regulation store is not configured")
)
