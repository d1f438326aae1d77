package usecase

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/service/compliance"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/service/report"
	"github.com/secmon-lab/themis/pkg/service/slack"
)

const (
	// DefaultConcurrency bounds parallel file loading and area analysis
	DefaultConcurrency = 4

	// DefaultTopK is the number of regulation chunks retrieved per area
	DefaultTopK = 5
)

// Embedder turns texts into vectors
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Reporter writes the report files of a finished assessment
type Reporter interface {
	Write(ctx context.Context, assessment *model.Assessment) (*report.Result, error)
}

type UseCases struct {
	repo        interfaces.Repository
	regulation  interfaces.RegulationRepository
	classifier  *classifier.Classifier
	loader      *document.Loader
	chunker     *document.Chunker
	embedder    Embedder
	compliance  compliance.Service
	reporter    Reporter
	notifier    slack.Service
	concurrency int

	Classify *ClassifyUseCase
	Ingest   *IngestUseCase
	Assess   *AssessUseCase
	Suite    *SuiteUseCase
}

type Option func(*UseCases)

// WithRegulationStore replaces the regulation store of the repository
func WithRegulationStore(store interfaces.RegulationRepository) Option {
	return func(uc *UseCases) {
		uc.regulation = store
	}
}

func WithChunker(chunker *document.Chunker) Option {
	return func(uc *UseCases) {
		uc.chunker = chunker
	}
}

func WithEmbedder(embedder Embedder) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

// WithCompliance enables LLM compliance analysis. Without it assessments
// are classification-only.
func WithCompliance(svc compliance.Service) Option {
	return func(uc *UseCases) {
		uc.compliance = svc
	}
}

func WithReporter(reporter Reporter) Option {
	return func(uc *UseCases) {
		uc.reporter = reporter
	}
}

func WithNotifier(notifier slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithConcurrency(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

func New(repo interfaces.Repository, cls *classifier.Classifier, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		classifier:  cls,
		loader:      document.NewLoader(),
		concurrency: DefaultConcurrency,
	}
	if repo != nil {
		uc.regulation = repo.Regulation()
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Classify = NewClassifyUseCase(uc.classifier, uc.loader, uc.concurrency)
	uc.Ingest = NewIngestUseCase(uc.regulation, uc.loader, uc.chunker, uc.embedder)
	uc.Assess = &AssessUseCase{
		repo:        repo,
		regulation:  uc.regulation,
		classifier:  uc.classifier,
		loader:      uc.loader,
		embedder:    uc.embedder,
		compliance:  uc.compliance,
		reporter:    uc.reporter,
		notifier:    uc.notifier,
		concurrency: uc.concurrency,
	}
	uc.Suite = NewSuiteUseCase(uc.Classify)

	return uc
}

// Repository returns the repository the use cases were built with
func (uc *UseCases) Repository() interfaces.Repository {
	return uc.repo
}
