package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/service/compliance"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/service/report"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// maxDocumentationRunes caps the documentation sent to the LLM
const maxDocumentationRunes = 60000

// AssessUseCase runs the full compliance assessment of an AI system
type AssessUseCase struct {
	repo        interfaces.Repository
	regulation  interfaces.RegulationRepository
	classifier  *classifier.Classifier
	loader      *document.Loader
	embedder    Embedder
	compliance  compliance.Service
	reporter    Reporter
	notifier    slack.Service
	concurrency int
}

// AssessInput holds the documentation of the assessed system
type AssessInput struct {
	ID         model.AssessmentID // Generated when empty
	SystemName string
	Paths      []string          // Files loaded from disk
	Documents  []*model.Document // Documents already in memory
	TopK       int               // Regulation chunks per area, DefaultTopK when zero
}

// AssessOutput is the stored assessment and the files written for it
type AssessOutput struct {
	Assessment *model.Assessment
	Report     *report.Result
}

// Assess classifies the documentation, analyzes compliance when an LLM is
// configured, then persists, reports and notifies the result
func (uc *AssessUseCase) Assess(ctx context.Context, input AssessInput) (*AssessOutput, error) {
	if len(input.Paths) == 0 && len(input.Documents) == 0 {
		return nil, goerr.Wrap(ErrNoInput, "no documentation to assess")
	}

	docs, err := uc.loadDocuments(ctx, input)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(docs))
	sources := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.Text)
		sources = append(sources, doc.Path)
	}
	documentation := strings.Join(texts, "\n\n")

	classification, err := uc.classifier.Classify(documentation)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify documentation")
	}

	assessment := &model.Assessment{
		ID:             input.ID,
		SystemName:     input.SystemName,
		Sources:        sources,
		Classification: classification,
		CreatedAt:      time.Now().UTC(),
	}
	if assessment.ID == "" {
		assessment.ID = model.NewAssessmentID()
	}
	if assessment.SystemName == "" {
		assessment.SystemName = "Unnamed AI System"
	}

	logger := logging.From(ctx).With("assessment_id", assessment.ID, "system", assessment.SystemName)
	ctx = logging.With(ctx, logger)
	logger.Info("documentation classified",
		"category", classification.Category,
		"documents", len(docs))

	llmDoc := truncateRunes(documentation, maxDocumentationRunes)
	switch {
	case uc.compliance == nil:
		logger.Warn("no LLM configured, assessment is classification-only")

	case classification.Category == types.RiskCategoryProhibited:
		if err := uc.assessProhibited(ctx, assessment, llmDoc); err != nil {
			return nil, err
		}

	default:
		topK := input.TopK
		if topK <= 0 {
			topK = DefaultTopK
		}
		if err := uc.assessAreas(ctx, assessment, llmDoc, topK); err != nil {
			return nil, err
		}
	}

	output := &AssessOutput{Assessment: assessment}

	if uc.repo != nil {
		created, err := uc.repo.Assessment().Create(ctx, assessment)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to save assessment")
		}
		output.Assessment = created
	}

	if uc.reporter != nil {
		result, err := uc.reporter.Write(ctx, output.Assessment)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to write report")
		}
		output.Report = result
	}

	if uc.notifier != nil {
		if err := uc.notifier.NotifyAssessment(ctx, output.Assessment); err != nil {
			errutil.Handle(ctx, err, "failed to notify assessment")
		}
	}

	logger.Info("assessment completed",
		"category", output.Assessment.Category(),
		"overall_score", output.Assessment.OverallScore,
		"level", output.Assessment.ComplianceLevel())
	return output, nil
}

func (uc *AssessUseCase) loadDocuments(ctx context.Context, input AssessInput) ([]*model.Document, error) {
	docs := make([]*model.Document, 0, len(input.Documents)+len(input.Paths))
	for _, doc := range input.Documents {
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}

	for _, path := range input.Paths {
		doc, err := uc.loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, goerr.Wrap(ErrNoInput, "no documentation to assess")
	}
	return docs, nil
}

// assessProhibited records the Article 5 analysis. Area scores of a
// prohibited system are all zero.
func (uc *AssessUseCase) assessProhibited(ctx context.Context, assessment *model.Assessment, documentation string) error {
	prohibition, err := uc.compliance.AnalyzeProhibition(ctx, compliance.ProhibitionInput{
		Documentation: documentation,
		Matches:       assessment.Classification.MatchesFor(types.RiskCategoryProhibited),
	})
	if err != nil {
		return err
	}

	assessment.Prohibition = prohibition
	assessment.OverallScore = 0
	for _, area := range types.AllComplianceAreas() {
		assessment.Areas = append(assessment.Areas, model.AreaAssessment{
			Area:    area,
			Score:   0,
			Summary: "Not assessed: the system falls under prohibited practices.",
		})
	}
	assessment.Recommendations = []model.Recommendation{
		{Text: compliance.ProhibitedRecommendation, Priority: types.PriorityHigh},
	}
	return nil
}

type areaResult struct {
	assessment      *model.AreaAssessment
	recommendations []model.Recommendation
}

func (uc *AssessUseCase) assessAreas(ctx context.Context, assessment *model.Assessment, documentation string, topK int) error {
	category := assessment.Category()

	if category == types.RiskCategoryUnknown {
		suggestion, err := uc.compliance.SuggestCategory(ctx, documentation)
		if err != nil {
			errutil.Handle(ctx, err, "failed to get advisory category")
		} else {
			assessment.Suggestion = suggestion
		}
	}

	areas := types.AllComplianceAreas()
	results := make([]areaResult, len(areas))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.concurrency)

	for i, area := range areas {
		eg.Go(func() error {
			regulation, err := uc.retrieve(egCtx, RetrievalQuery(area, category), topK)
			if err != nil {
				return err
			}

			analyzed, err := uc.compliance.AnalyzeArea(egCtx, compliance.AreaInput{
				Area:          area,
				Category:      category,
				Documentation: documentation,
				Context:       regulation,
			})
			if err != nil {
				return err
			}

			recs, err := uc.compliance.Recommend(egCtx, compliance.RecommendInput{
				Area:     area,
				Category: category,
				Gaps:     analyzed.Gaps,
			})
			if err != nil {
				return err
			}

			results[i] = areaResult{assessment: analyzed, recommendations: recs}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return goerr.Wrap(err, "failed to assess compliance areas")
	}

	var total float64
	for _, r := range results {
		assessment.Areas = append(assessment.Areas, *r.assessment)
		assessment.Recommendations = append(assessment.Recommendations, r.recommendations...)
		total += r.assessment.Score
	}
	assessment.OverallScore = total / float64(len(results))
	return nil
}

// retrieve returns the regulation chunks nearest to query. Without an
// embedder or a regulation store the analysis runs without context.
func (uc *AssessUseCase) retrieve(ctx context.Context, query string, topK int) ([]*model.ScoredRegulationChunk, error) {
	if uc.embedder == nil || uc.regulation == nil {
		return nil, nil
	}

	vectors, err := uc.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed retrieval query", goerr.V("query", query))
	}
	if len(vectors) != 1 {
		return nil, goerr.New("unexpected embedding count", goerr.V("count", len(vectors)))
	}

	found, err := uc.regulation.FindByEmbedding(ctx, vectors[0], topK)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve regulation context", goerr.V("query", query))
	}

	logging.From(ctx).Debug("regulation context retrieved", "query", query, "hits", len(found))
	return found, nil
}

// RetrievalQuery builds the similarity search query of a compliance area
func RetrievalQuery(area types.ComplianceArea, category types.RiskCategory) string {
	name := strings.ToLower(area.DisplayName())
	if category == types.RiskCategoryUnknown {
		return fmt.Sprintf("%s requirements for AI systems", name)
	}
	return fmt.Sprintf("%s requirements for %s AI systems", name, category)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
