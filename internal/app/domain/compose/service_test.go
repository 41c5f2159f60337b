package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompleter) ModelName() string { return "fake-model" }

type fakeEnricher struct {
	called bool
}

func (f *fakeEnricher) Enrich(_ context.Context, it *models.StructuredItinerary) *models.StructuredItinerary {
	f.called = true
	for dayIdx := range it.Days {
		for placeIdx := range it.Days[dayIdx].Places {
			it.Days[dayIdx].Places[placeIdx].Status = models.PlaceStatusFound
		}
	}
	return it
}

func validRequest() *GenerateRequest {
	return &GenerateRequest{
		Destination: "Tokyo",
		StartDate:   "2026-04-01",
		TotalDays:   3,
		Interests:   []string{"food", "temples"},
	}
}

func TestGeneratePipeline(t *testing.T) {
	completer := &fakeCompleter{response: tokyoResponse}
	enricher := &fakeEnricher{}
	service := NewService(completer, enricher, nil, nil)

	result, err := service.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, enricher.called)
	require.NotNil(t, result.Itinerary)
	assert.Equal(t, "Tokyo Highlights", result.Itinerary.Title)
	require.Len(t, result.Itinerary.Days, 3)
	assert.Equal(t, models.PlaceStatusFound, result.Itinerary.Days[0].Places[0].Status)

	require.NotNil(t, result.EditorData)
	assert.NotEmpty(t, result.EditorData.Blocks)

	require.NotNil(t, result.Metadata)
	assert.Equal(t, "Tokyo", result.Metadata.Destination)
	assert.Equal(t, 3, result.Metadata.TotalDays)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Tokyo")
	assert.Contains(t, completer.prompts[0], "food")
}

func TestGenerateCompletionFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream unavailable")}
	service := NewService(completer, nil, nil, nil)

	_, err := service.Generate(context.Background(), validRequest())
	assert.ErrorIs(t, err, models.ErrGeneration)
}

func TestGenerateValidation(t *testing.T) {
	service := NewService(&fakeCompleter{response: tokyoResponse}, nil, nil, nil)

	cases := map[string]*GenerateRequest{
		"missing destination": {StartDate: "2026-04-01", TotalDays: 3},
		"zero days":           {Destination: "Tokyo", StartDate: "2026-04-01"},
		"too many days":       {Destination: "Tokyo", StartDate: "2026-04-01", TotalDays: 31},
		"bad start date":      {Destination: "Tokyo", StartDate: "April 1st", TotalDays: 3},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.Generate(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestGenerateWithoutEnricherOrRoutes(t *testing.T) {
	service := NewService(&fakeCompleter{response: tokyoResponse}, nil, nil, nil)

	result, err := service.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Nil(t, result.Directions)
	assert.Equal(t, models.PlaceStatusIdle, result.Itinerary.Days[0].Places[0].Status)
}
