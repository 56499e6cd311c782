package api

import (
	"github.com/brandon99-hub/Medibridge2/pipeline"
	"github.com/brandon99-hub/Medibridge2/types"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fixedPipeline(outcome pipeline.Outcome) pipeline.Pipeline {
	return func(request pipeline.Request) <-chan pipeline.Outcome {
		ch := make(chan pipeline.Outcome, 1)
		ch <- outcome
		close(ch)
		return ch
	}
}

func TestHealth(t *testing.T) {
	handlers := &Handlers{}
	rec := httptest.NewRecorder()
	handlers.Health(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyzeRejectsGet(t *testing.T) {
	handlers := &Handlers{Pipeline: fixedPipeline(pipeline.Outcome{})}
	rec := httptest.NewRecorder()
	handlers.Analyze(rec, httptest.NewRequest("GET", "/analyze", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeEmptyRequest(t *testing.T) {
	handlers := &Handlers{Pipeline: fixedPipeline(pipeline.Outcome{Err: pipeline.ErrEmptyRequest})}
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"diagnosis": "", "prescription": "", "treatment": ""}`)
	handlers.Analyze(rec, httptest.NewRequest("POST", "/analyze", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, "No text provided.", response["detail"])
}

func TestAnalyzeInternalError(t *testing.T) {
	handlers := &Handlers{Pipeline: fixedPipeline(pipeline.Outcome{Err: errors.New("extractor down")})}
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"diagnosis": "cholera"}`)
	handlers.Analyze(rec, httptest.NewRequest("POST", "/analyze", body))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalyzeSuccess(t *testing.T) {
	code := "FA01"
	desc := "Fracture"
	result := types.AnalyzeResult{
		Entities: []types.ResolvedEntity{
			{Text: "fracture", Label: "DISEASE", Code: &code, Description: &desc, Confidence: 1.0},
		},
		Codes: []types.CodeResult{
			{Entity: "fracture", Code: code, Description: &desc, Confidence: 1.0},
		},
	}
	handlers := &Handlers{Pipeline: fixedPipeline(pipeline.Outcome{Result: &result})}
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"diagnosis": "fracture of femur"}`)
	handlers.Analyze(rec, httptest.NewRequest("POST", "/analyze", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded types.AnalyzeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.Entities, 1)
	require.Len(t, decoded.Codes, 1)
	require.Equal(t, "FA01", decoded.Codes[0].Code)
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	handlers := &Handlers{Pipeline: fixedPipeline(pipeline.Outcome{})}
	rec := httptest.NewRecorder()
	handlers.Analyze(rec, httptest.NewRequest("POST", "/analyze", strings.NewReader("{not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
