package api

import (
	"github.com/brandon99-hub/Medibridge2/pipeline"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type Handlers struct {
	Pipeline pipeline.Pipeline
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Health is a side-effect-free readiness signal. The dictionary and extractor
// are loaded before the listener starts, so reaching this handler means ready.
func (handlers *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (handlers *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != "POST" {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	msg, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var request pipeline.Request
	if len(msg) > 0 {
		if err := json.Unmarshal(msg, &request); err != nil {
			logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not parse request body")
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	request.Tid = "rest_api"

	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	outcome := <-handlers.Pipeline(request)

	switch {
	case errors.Is(outcome.Err, pipeline.ErrEmptyRequest):
		logger.Info().Int("status", http.StatusBadRequest).Msg("Request contained no text")
		writeError(w, http.StatusBadRequest, "No text provided.")
		return
	case outcome.Err != nil:
		logger.Err(outcome.Err).Int("status", http.StatusInternalServerError).Msg("Pipeline failed")
		writeError(w, http.StatusInternalServerError, outcome.Err.Error())
		return
	}

	body, err := json.Marshal(outcome.Result)
	if err != nil {
		logger.Err(err).Int("status", http.StatusInternalServerError).Msg("Failed to marshal response")
		writeError(w, http.StatusInternalServerError, "failed to marshal response")
		return
	}
	_, _ = w.Write(body)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	body, _ := json.Marshal(errorResponse{Detail: detail})
	_, _ = w.Write(body)
}
