package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// ClassifyUseCase assigns risk categories to documents
type ClassifyUseCase struct {
	classifier  *classifier.Classifier
	loader      *document.Loader
	concurrency int
}

func NewClassifyUseCase(cls *classifier.Classifier, loader *document.Loader, concurrency int) *ClassifyUseCase {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &ClassifyUseCase{
		classifier:  cls,
		loader:      loader,
		concurrency: concurrency,
	}
}

// FileClassification is the classification of one file
type FileClassification struct {
	Path   string                      `json:"path"`
	Result *model.ClassificationResult `json:"result"`
}

// ClassifyFiles loads and classifies the files concurrently. Results are in
// input order. With hintsEnabled, fixture hints derived from each path are
// passed to the classifier, which must then allow overrides.
func (uc *ClassifyUseCase) ClassifyFiles(ctx context.Context, paths []string, hintsEnabled bool) ([]FileClassification, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	results := make([]FileClassification, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.concurrency)

	for i, path := range paths {
		eg.Go(func() error {
			doc, err := uc.loader.Load(ctx, path)
			if err != nil {
				return err
			}

			var opts []classifier.ClassifyOption
			if hintsEnabled {
				if hint, ok := classifier.FixtureHint(path); ok {
					opts = append(opts, classifier.WithHint(hint))
				}
			}

			result, err := uc.classifier.Classify(doc.Text, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to classify document", goerr.V("path", path))
			}

			logging.From(ctx).Debug("document classified",
				"path", path,
				"category", result.Category,
				"overridden", result.Overridden)

			results[i] = FileClassification{Path: path, Result: result}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ClassifyText classifies raw text. Text without any indicator yields the
// unknown category, not an error.
func (uc *ClassifyUseCase) ClassifyText(ctx context.Context, text string) (*model.ClassificationResult, error) {
	result, err := uc.classifier.Classify(text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify text")
	}

	logging.From(ctx).Debug("text classified", "category", result.Category, "matches", len(result.Matches))
	return result, nil
}
