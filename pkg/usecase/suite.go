package usecase

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

var suiteFormats = []string{document.FormatMarkdown, document.FormatText, document.FormatPDF}

// SuiteUseCase classifies a directory of labelled fixtures
type SuiteUseCase struct {
	classify *ClassifyUseCase
}

func NewSuiteUseCase(classify *ClassifyUseCase) *SuiteUseCase {
	return &SuiteUseCase{classify: classify}
}

// SuiteInput holds the options of Run
type SuiteInput struct {
	Dir           string
	AllowOverride bool // Apply fixture hints; the classifier must allow overrides
}

// SuiteCase is the outcome of one fixture
type SuiteCase struct {
	Path       string               `json:"path"`
	Expected   types.RiskCategory   `json:"expected"`
	Detected   types.RiskCategory   `json:"detected"`
	Overridden bool                 `json:"overridden"`
	Passed     bool                 `json:"passed"`
	Scores     model.ScoreBreakdown `json:"scores"`
}

// SuiteResult is the outcome of a suite run
type SuiteResult struct {
	Cases  []SuiteCase                     `json:"cases"`
	Groups map[types.RiskCategory][]string `json:"groups"`
	Passed int                             `json:"passed"`
	Failed int                             `json:"failed"`
}

// OK reports whether every fixture was classified as expected
func (r *SuiteResult) OK() bool {
	return r.Failed == 0
}

// Run discovers fixtures under Dir, classifies each and compares the result
// with the category named by the fixture's parent directory. Fixtures outside
// a category directory are expected to be unknown.
func (uc *SuiteUseCase) Run(ctx context.Context, input SuiteInput) (*SuiteResult, error) {
	files, err := discoverFixtures(input.Dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, goerr.Wrap(ErrNoInput, "no fixture found", goerr.V("dir", input.Dir))
	}

	classified, err := uc.classify.ClassifyFiles(ctx, files, input.AllowOverride)
	if err != nil {
		return nil, err
	}

	result := &SuiteResult{Groups: make(map[types.RiskCategory][]string)}
	for _, fc := range classified {
		c := SuiteCase{
			Path:       fc.Path,
			Expected:   expectedCategory(fc.Path),
			Detected:   fc.Result.Category,
			Overridden: fc.Result.Overridden,
			Scores:     fc.Result.Scores,
		}
		c.Passed = c.Expected == c.Detected
		if c.Passed {
			result.Passed++
		} else {
			result.Failed++
			logging.From(ctx).Warn("fixture misclassified",
				"path", c.Path,
				"expected", c.Expected,
				"detected", c.Detected)
		}

		result.Groups[c.Detected] = append(result.Groups[c.Detected], c.Path)
		result.Cases = append(result.Cases, c)
	}

	logging.From(ctx).Info("suite finished", "passed", result.Passed, "failed", result.Failed)
	return result, nil
}

func discoverFixtures(dir string) ([]string, error) {
	all, err := document.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, path := range all {
		if slices.Contains(suiteFormats, document.Format(path)) {
			files = append(files, path)
		}
	}
	return files, nil
}

func expectedCategory(path string) types.RiskCategory {
	dir := strings.ToLower(filepath.Base(filepath.Dir(path)))
	if c, err := types.ParseRiskCategory(dir); err == nil {
		return c
	}
	return types.RiskCategoryUnknown
}
