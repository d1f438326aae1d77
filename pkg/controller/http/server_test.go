package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/async"
)

const highRiskText = "MediScan supports radiologists reading MRI studies."

type testServer struct {
	server     *httpctrl.Server
	dispatcher *async.Dispatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cls, err := classifier.New(nil)
	gt.NoError(t, err).Required()

	dispatcher := async.NewDispatcher()
	srv, err := httpctrl.New(usecase.New(memory.New(), cls), httpctrl.WithDispatcher(dispatcher))
	gt.NoError(t, err).Required()

	return &testServer{server: srv, dispatcher: dispatcher}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains(`"ok"`)
	gt.String(t, w.Header().Get("Content-Type")).Contains("application/json")
}

func TestClassify(t *testing.T) {
	ts := newTestServer(t)

	t.Run("classifies text", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/v1/classify", map[string]string{"text": highRiskText})
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var result model.ClassificationResult
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &result)).Required()
		gt.Value(t, result.Category).Equal(types.RiskCategoryHighRisk)
		gt.Bool(t, len(result.Matches) > 0).True()
	})

	t.Run("text without indicator is unknown", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/v1/classify", map[string]string{"text": "A tool that sorts photographs by colour."})
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var result model.ClassificationResult
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &result)).Required()
		gt.Value(t, result.Category).Equal(types.RiskCategoryUnknown)
	})

	t.Run("empty text is unknown with zero scores", func(t *testing.T) {
		for _, text := range []string{"", "  \n\t "} {
			w := ts.do(t, http.MethodPost, "/api/v1/classify", map[string]string{"text": text})
			gt.Value(t, w.Code).Equal(http.StatusOK)

			var result model.ClassificationResult
			gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &result)).Required()
			gt.Value(t, result.Category).Equal(types.RiskCategoryUnknown)
			gt.Bool(t, result.Scores.IsZero()).True()
			gt.Array(t, result.Matches).Length(0)
		}
	})

	t.Run("broken body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		ts.server.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestAssessments(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/assessments", map[string]string{
		"system_name": "MediScan",
		"text":        highRiskText,
	})
	gt.Value(t, w.Code).Equal(http.StatusAccepted)

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &created)).Required()
	gt.String(t, created.ID).NotEqual("")
	gt.Value(t, created.Status).Equal("accepted")

	gt.NoError(t, ts.dispatcher.Wait(t.Context())).Required()

	t.Run("get", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/assessments/"+created.ID, nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var a model.Assessment
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &a)).Required()
		gt.Value(t, string(a.ID)).Equal(created.ID)
		gt.Value(t, a.SystemName).Equal("MediScan")
		gt.Value(t, a.Category()).Equal(types.RiskCategoryHighRisk)
	})

	t.Run("list", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/assessments?limit=5", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var resp struct {
			Assessments []model.Assessment `json:"assessments"`
		}
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
		gt.Array(t, resp.Assessments).Length(1)
	})

	t.Run("not found", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/assessments/no-such-id", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("invalid limit", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/assessments?limit=zero", nil)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("empty text", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/v1/assessments", map[string]string{"system_name": "Empty"})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestListEmpty(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/v1/assessments", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains(`"assessments":[]`)
}
