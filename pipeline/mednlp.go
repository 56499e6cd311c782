package pipeline

import (
	"github.com/brandon99-hub/Medibridge2/logger"
	"github.com/brandon99-hub/Medibridge2/nlp"
	"github.com/brandon99-hub/Medibridge2/taxonomy"
	"github.com/brandon99-hub/Medibridge2/types"
	"github.com/brandon99-hub/Medibridge2/utils"
	"context"
	"fmt"
	"github.com/rs/zerolog"
)

// Outcome is the terminal value of one request. Err is ErrEmptyRequest for a
// client fault and anything else for an internal failure; the two must stay
// distinguishable for the transports.
type Outcome struct {
	Result *types.AnalyzeResult
	Err    error
}

type Pipeline func(request Request) <-chan Outcome

// NewMedNLP wires the extractor and the shared dictionary into the analyze
// pipeline. The table is read-only after load, so every in-flight request can
// query it concurrently. Extractor failures are fatal for their own request
// only and are never retried here.
func NewMedNLP(extractor nlp.Extractor, table taxonomy.Table) Pipeline {
	mnlpLogger := logger.NewLogger("MedNLP pipeline")

	return func(request Request) <-chan Outcome {
		outcomeChan := make(chan Outcome, 1)
		pplnLog := mnlpLogger.With().Str("tid", request.Tid).Logger()

		go func() {
			defer close(outcomeChan)
			outcomeChan <- runRequest(request, extractor, table, pplnLog)
		}()

		return outcomeChan
	}
}

func runRequest(request Request, extractor nlp.Extractor, table taxonomy.Table, pplnLog zerolog.Logger) (outcome Outcome) {
	defer utils.RecoverWithError(&outcome.Err)

	text := request.CombinedText()
	if text == "" {
		pplnLog.Info().Msg("Request has no text, skipping extraction")
		return Outcome{Err: ErrEmptyRequest}
	}

	pplnLog.Info().Msg("Started analyze pipeline")
	entities, err := extractor.Extract(context.Background(), text)
	if err != nil {
		pplnLog.Err(err).Msg("Entity extraction failed")
		return Outcome{Err: fmt.Errorf("entity extraction failed: %w", err)}
	}

	resolved := make([]types.ResolvedEntity, len(entities))
	for i, entity := range entities {
		resolved[i] = Resolve(entity, table)
	}

	result := NewAnalyzeResult(resolved)
	pplnLog.Info().
		Int("entities", len(result.Entities)).
		Int("codes", len(result.Codes)).
		Msg("Finished analyze pipeline")
	return Outcome{Result: &result}
}
