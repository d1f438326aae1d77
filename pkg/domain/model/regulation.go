package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EmbeddingDimension is the dimension of the embedding vector
// Gemini text-embedding-004 uses 768 dimensions
const EmbeddingDimension = 768

// RegulationChunkID is a UUID-based identifier for RegulationChunk
type RegulationChunkID string

var regulationNamespace = uuid.MustParse("5b2c6f0e-9a1d-4c7e-8f3b-2d6a1e0c4b97")

// NewRegulationChunkID derives a stable ID from the chunk source and its
// position, so that re-ingesting the same regulation overwrites old chunks.
func NewRegulationChunkID(source string, index int) RegulationChunkID {
	return RegulationChunkID(uuid.NewSHA1(regulationNamespace, []byte(source+"#"+strconv.Itoa(index))).String())
}

// RegulationMeta is structural information detected in a regulation chunk
type RegulationMeta struct {
	Article      string // e.g. "5(1)" when the chunk mentions an article
	IsRecital    bool
	IsAnnex      bool
	Annex        string // Roman numeral of the annex
	SectionTitle string // Upper-case heading found in the first lines
}

// RegulationChunk is an embedded piece of regulation text
type RegulationChunk struct {
	ID        RegulationChunkID
	Source    string // Regulation identifier, e.g. "eu_ai_act"
	Index     int
	Text      string
	Meta      RegulationMeta
	Embedding []float32
	CreatedAt time.Time
}

// ScoredRegulationChunk is a retrieval hit with its cosine similarity
type ScoredRegulationChunk struct {
	Chunk      *RegulationChunk
	Similarity float64
}
