package extractleadmetadata

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/extraction"
	"lead-qualifier/internal/industry"
	"lead-qualifier/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type failingExtractor struct{}

func (failingExtractor) Extract(string, models.IndustryConfig, []string) (models.Metadata, error) {
	return models.Metadata{}, stderrors.New("rules unavailable")
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, DefaultIndustry: models.IndustryRealEstate}
}

func createTestHandler(t *testing.T, extractor extraction.Extractor) *Handler {
	if extractor == nil {
		extractor = extraction.NewEngine(clockwork.NewFakeClockAt(time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)))
	}
	return NewHandler(createTestConfig(), industry.NewRegistry(industry.Defaults()...), extractor, logger.NewTestLogger(t))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		wantFound []string
		check     func(t *testing.T, out *Output)
	}{
		{
			name: "merges over known metadata",
			input: &Input{
				Text:     "Mumbai",
				Metadata: models.Metadata{Budget: models.Float(50)},
			},
			wantFound: []string{"location"},
			check: func(t *testing.T, out *Output) {
				assert.Equal(t, models.String("Mumbai"), out.Metadata.Location)
				assert.Equal(t, models.Float(50), out.Metadata.Budget)
				assert.Nil(t, out.Update.Budget)
			},
		},
		{
			name:      "software fields",
			input:     &Input{Text: "we have 250 employees", IndustryID: models.IndustrySoftware},
			wantFound: []string{"companySize"},
			check: func(t *testing.T, out *Output) {
				assert.Equal(t, models.Int(250), out.Update.CompanySize)
			},
		},
		{
			name:      "nothing found keeps metadata",
			input:     &Input{Text: "hello", Metadata: models.Metadata{Timeline: models.Int(3)}},
			wantFound: []string{},
			check: func(t *testing.T, out *Output) {
				assert.True(t, out.Update.IsEmpty())
				assert.Equal(t, models.Int(3), out.Metadata.Timeline)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := createTestHandler(t, nil).Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, out.Found)
			tt.check(t, out)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	_, err := createTestHandler(t, nil).Execute(context.Background(), &Input{Text: "hi", IndustryID: "aviation"})
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = createTestHandler(t, failingExtractor{}).Execute(context.Background(), &Input{Text: "hi"})
	assert.ErrorIs(t, err, errors.ErrExtraction)
}

// ==========================
// Input decoding
// ==========================

func TestDecodeInput(t *testing.T) {
	input, err := decodeInput([]byte(`{"text":"50L","history":["hi"],"metadata":{"location":"Pune"}}`))
	require.NoError(t, err)
	assert.Equal(t, "50L", input.Text)
	assert.Equal(t, []string{"hi"}, input.History)
	assert.Equal(t, models.String("Pune"), input.Metadata.Location)

	_, err = decodeInput([]byte(`{"history":[]}`))
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = decodeInput([]byte(`not json`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidPayload, errors.AsStandard(err).Code)
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{
		Industries: config.IndustriesConfig{Default: models.IndustrySoftware},
		Workers:    map[string]config.WorkerConfig{TaskType: {Enabled: true, Timeout: 2500}},
	})
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, models.IndustrySoftware, cfg.DefaultIndustry)
}
