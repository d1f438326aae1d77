package usecase

import (
	"context"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// IngestUseCase loads regulation documents into the regulation store
type IngestUseCase struct {
	store    interfaces.RegulationRepository
	loader   *document.Loader
	chunker  *document.Chunker
	embedder Embedder
}

func NewIngestUseCase(store interfaces.RegulationRepository, loader *document.Loader, chunker *document.Chunker, embedder Embedder) *IngestUseCase {
	return &IngestUseCase{
		store:    store,
		loader:   loader,
		chunker:  chunker,
		embedder: embedder,
	}
}

// IngestInput holds the options of IngestRegulation
type IngestInput struct {
	Path   string
	Source string // Defaults to the base name of Path
	Force  bool   // Replace chunks already stored for Source
}

// IngestResult reports what IngestRegulation did
type IngestResult struct {
	Source  string `json:"source"`
	Skipped bool   `json:"skipped"`
	Deleted int    `json:"deleted"`
	Chunks  int    `json:"chunks"`
}

// IngestRegulation chunks, embeds and stores a regulation document. A source
// that already has chunks is skipped unless Force is set, in which case the
// old chunks are kept until the new ones have been embedded.
func (uc *IngestUseCase) IngestRegulation(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if input.Path == "" {
		return nil, goerr.Wrap(ErrNoInput, "regulation path is required")
	}
	if uc.store == nil {
		return nil, ErrRegulationStoreNone
	}
	if uc.embedder == nil {
		return nil, ErrEmbeddingDisabled
	}

	source := input.Source
	if source == "" {
		source = filepath.Base(input.Path)
	}
	result := &IngestResult{Source: source}
	logger := logging.From(ctx).With("source", source)

	existing, err := uc.store.Count(ctx, source)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count existing chunks", goerr.V("source", source))
	}
	if existing > 0 {
		if !input.Force {
			logger.Info("regulation already ingested, skipping", "chunks", existing)
			result.Skipped = true
			result.Chunks = existing
			return result, nil
		}
	}

	doc, err := uc.loader.Load(ctx, input.Path)
	if err != nil {
		return nil, err
	}

	chunker := uc.chunker
	if chunker == nil {
		chunker, err = document.NewChunker(document.DefaultChunkSize, document.DefaultChunkOverlap)
		if err != nil {
			return nil, err
		}
	}

	pieces, err := chunker.Split(doc)
	if err != nil {
		return nil, err
	}
	if len(pieces) == 0 {
		return nil, goerr.New("regulation document has no text", goerr.V("path", input.Path))
	}

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed regulation chunks", goerr.V("source", source))
	}

	now := time.Now().UTC()
	chunks := make([]*model.RegulationChunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = &model.RegulationChunk{
			ID:        model.NewRegulationChunkID(source, p.Index),
			Source:    source,
			Index:     p.Index,
			Text:      p.Text,
			Meta:      document.ExtractRegulationMeta(p.Text),
			Embedding: vectors[i],
			CreatedAt: now,
		}
	}

	// Existing chunks are replaced only once the new ones are ready
	if existing > 0 {
		deleted, err := uc.store.DeleteBySource(ctx, source)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to delete existing chunks", goerr.V("source", source))
		}
		result.Deleted = deleted
		logger.Info("existing chunks deleted", "deleted", deleted)
	}

	if err := uc.store.SaveMany(ctx, chunks); err != nil {
		return nil, goerr.Wrap(err, "failed to save regulation chunks", goerr.V("source", source))
	}
	result.Chunks = len(chunks)

	logger.Info("regulation ingested", "chunks", len(chunks), "pages", doc.Pages)
	return result, nil
}
