package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/service/document"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	// maxRequestBytes bounds request bodies carrying documentation
	maxRequestBytes = 4 << 20
)

type classifyRequest struct {
	Text string `json:"text"`
}

type createAssessmentRequest struct {
	SystemName string `json:"system_name"`
	Text       string `json:"text"`
}

type createAssessmentResponse struct {
	ID     model.AssessmentID `json:"id"`
	Status string             `json:"status"`
}

type listAssessmentsResponse struct {
	Assessments []*model.Assessment `json:"assessments"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}

func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	// Empty text is a valid document and classifies as unknown
	result, err := s.uc.Classify.ClassifyText(r.Context(), req.Text)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, classifier.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) listAssessmentsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errutil.HandleHTTP(r.Context(), w, goerr.New("limit must be a positive integer", goerr.V("limit", v)), http.StatusBadRequest)
			return
		}
		limit = min(n, maxListLimit)
	}

	assessments, err := s.uc.Repository().Assessment().List(r.Context(), limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if assessments == nil {
		assessments = []*model.Assessment{}
	}
	writeJSON(w, r, http.StatusOK, listAssessmentsResponse{Assessments: assessments})
}

func (s *Server) getAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	id := model.AssessmentID(chi.URLParam(r, "id"))

	assessment, err := s.uc.Repository().Assessment().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, assessment)
}

// createAssessmentHandler accepts documentation and assesses it in the
// background. The assessment is readable by ID once finished.
func (s *Server) createAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentRequest
	if err := decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	text := document.Normalize(req.Text)
	if text == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("text is required"), http.StatusBadRequest)
		return
	}

	input := usecase.AssessInput{
		ID:         model.NewAssessmentID(),
		SystemName: strings.TrimSpace(req.SystemName),
		Documents: []*model.Document{
			{Path: "request", Format: document.FormatText, Text: text, Pages: 1},
		},
		TopK: s.topK,
	}

	ctx := logging.With(r.Context(), logging.From(r.Context()).With("assessment_id", input.ID))
	s.dispatcher.Dispatch(ctx, func(ctx context.Context) error {
		_, err := s.uc.Assess.Assess(ctx, input)
		return err
	})

	writeJSON(w, r, http.StatusAccepted, createAssessmentResponse{ID: input.ID, Status: "accepted"})
}
