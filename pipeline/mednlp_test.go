package pipeline

import (
	"github.com/brandon99-hub/Medibridge2/types"
	"context"
	"errors"
	"github.com/stretchr/testify/require"
	"testing"
)

type stubExtractor struct {
	entities []types.ExtractedEntity
	err      error
	calls    int
	lastText string
}

func (stub *stubExtractor) Extract(_ context.Context, text string) ([]types.ExtractedEntity, error) {
	stub.calls++
	stub.lastText = text
	return stub.entities, stub.err
}

func TestPipelineEmptyRequest(t *testing.T) {
	stub := &stubExtractor{}
	ppln := NewMedNLP(stub, testTable)

	outcome := <-ppln(Request{Diagnosis: "", Prescription: "   ", Treatment: ""})

	require.True(t, errors.Is(outcome.Err, ErrEmptyRequest))
	require.Nil(t, outcome.Result)
	require.Equal(t, 0, stub.calls, "extractor must not be called for empty requests")
}

func TestPipelineCombinesFields(t *testing.T) {
	stub := &stubExtractor{}
	ppln := NewMedNLP(stub, testTable)

	outcome := <-ppln(Request{Diagnosis: "cholera", Treatment: "rehydration"})

	require.NoError(t, outcome.Err)
	require.Equal(t, "cholera rehydration", stub.lastText)
}

func TestPipelineResolvesAndAggregates(t *testing.T) {
	stub := &stubExtractor{
		entities: []types.ExtractedEntity{
			{Text: "fracture", Label: "DISEASE"},
			{Text: "Fracture", Label: "DISEASE"},
			{Text: "ibuprofen", Label: "CHEMICAL"},
		},
	}
	ppln := NewMedNLP(stub, testTable)

	outcome := <-ppln(Request{Diagnosis: "fracture", Prescription: "ibuprofen", Tid: "test"})

	require.NoError(t, outcome.Err)
	require.Len(t, outcome.Result.Entities, 3)
	require.Len(t, outcome.Result.Codes, 1)
	require.Equal(t, "fracture", outcome.Result.Codes[0].Entity)
}

func TestPipelineZeroEntitiesIsNotAnError(t *testing.T) {
	stub := &stubExtractor{}
	ppln := NewMedNLP(stub, testTable)

	outcome := <-ppln(Request{Diagnosis: "no findings"})

	require.NoError(t, outcome.Err)
	require.Empty(t, outcome.Result.Entities)
	require.Empty(t, outcome.Result.Codes)
}

func TestPipelineExtractorFailure(t *testing.T) {
	stub := &stubExtractor{err: errors.New("model crashed")}
	ppln := NewMedNLP(stub, testTable)

	outcome := <-ppln(Request{Diagnosis: "cholera"})

	require.Error(t, outcome.Err)
	require.False(t, errors.Is(outcome.Err, ErrEmptyRequest))
	require.Nil(t, outcome.Result)
}

func TestPipelineEmptyTableDegrades(t *testing.T) {
	stub := &stubExtractor{
		entities: []types.ExtractedEntity{{Text: "cholera", Label: "DISEASE"}},
	}
	ppln := NewMedNLP(stub, nil)

	outcome := <-ppln(Request{Diagnosis: "cholera"})

	require.NoError(t, outcome.Err)
	require.Len(t, outcome.Result.Entities, 1)
	require.False(t, outcome.Result.Entities[0].Matched())
	require.Equal(t, 0.0, outcome.Result.Entities[0].Confidence)
	require.Empty(t, outcome.Result.Codes)
}

func TestCombinedText(t *testing.T) {
	cases := []struct {
		request Request
		want    string
	}{
		{Request{}, ""},
		{Request{Diagnosis: "a", Prescription: "b", Treatment: "c"}, "a b c"},
		{Request{Prescription: "b"}, "b"},
		{Request{Diagnosis: "  "}, ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.request.CombinedText())
	}
}
