package nlp

import (
	"bytes"
	"github.com/brandon99-hub/Medibridge2/logger"
	"github.com/brandon99-hub/Medibridge2/types"
	"context"
	"encoding/json"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"io"
	"net/http"
	"time"
)

// Extractor is the boundary to the NER collaborator: text in, labeled spans
// out. The production implementation talks to the scispaCy sidecar; tests
// plug in deterministic stubs.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]types.ExtractedEntity, error)
}

type Config struct {
	Model          string `envconfig:"MEDNLP_NER_MODEL" default:"en_core_sci_sm"`
	URL            string `envconfig:"MEDNLP_NER_URL" default:"http://localhost:8001"`
	TimeoutSeconds int    `envconfig:"MEDNLP_NER_TIMEOUT" default:"30"`
}

// RemoteExtractor calls the NER sidecar service over HTTP.
type RemoteExtractor struct {
	config     Config
	httpClient *http.Client
}

type extractRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type extractResponse struct {
	Entities []types.ExtractedEntity `json:"entities"`
}

// NewRemoteExtractor reads the environment and verifies the sidecar has the
// selected model loaded. An unreachable sidecar or unknown model is a startup
// failure; the service must not begin serving without its extractor.
func NewRemoteExtractor() (*RemoteExtractor, error) {
	mnlpLogger := logger.NewLogger("NER client")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		mnlpLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	extractor := RemoteExtractor{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
	if err := extractor.probeModel(); err != nil {
		mnlpLogger.Error().Err(err).
			Str("model", config.Model).
			Str("url", config.URL).
			Msg("NER model is not available")
		return nil, err
	}
	mnlpLogger.Info().Str("model", config.Model).Msg("NER model is ready")
	return &extractor, nil
}

func (extractor *RemoteExtractor) probeModel() error {
	url := fmt.Sprintf("%s/models/%s", extractor.config.URL, extractor.config.Model)
	resp, err := extractor.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to probe NER model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("NER sidecar returned status %d for model %q", resp.StatusCode, extractor.config.Model)
	}
	return nil
}

func (extractor *RemoteExtractor) Extract(ctx context.Context, text string) ([]types.ExtractedEntity, error) {
	body, err := json.Marshal(extractRequest{
		Model: extractor.config.Model,
		Text:  text,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/extract", extractor.config.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := extractor.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NER request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("NER sidecar returned status %d: %s", resp.StatusCode, msg)
	}

	var extracted extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extracted); err != nil {
		return nil, fmt.Errorf("failed to decode NER response: %w", err)
	}
	return extracted.Entities, nil
}
