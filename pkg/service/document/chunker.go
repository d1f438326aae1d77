package document

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

var regulationSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits documents into overlapping chunks for embedding
type Chunker struct {
	splitter textsplitter.TextSplitter
}

func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, goerr.New("chunk size must be positive", goerr.V("size", size))
	}
	if overlap < 0 || overlap >= size {
		return nil, goerr.New("chunk overlap must be in [0, size)", goerr.V("size", size), goerr.V("overlap", overlap))
	}

	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(regulationSeparators),
		),
	}, nil
}

// Split returns the chunks of doc, indexed from zero. Source is doc.Path.
func (c *Chunker) Split(doc *model.Document) ([]model.Chunk, error) {
	texts, err := c.splitter.SplitText(doc.Text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to split document", goerr.V("path", doc.Path))
	}

	chunks := make([]model.Chunk, 0, len(texts))
	for _, text := range texts {
		if text == "" {
			continue
		}
		chunks = append(chunks, model.Chunk{
			Source: doc.Path,
			Index:  len(chunks),
			Text:   text,
		})
	}
	return chunks, nil
}
