package classifylead

import (
	"context"
	"testing"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/industry"
	"lead-qualifier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig(nil)
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), industry.NewRegistry(industry.Defaults()...), logger.NewTestLogger(t))
}

func transcript(userTexts ...string) []models.Message {
	out := []models.Message{{Sender: models.SenderBot, Text: "Hi Asha! Welcome."}}
	for _, text := range userTexts {
		out = append(out,
			models.Message{Sender: models.SenderUser, Text: text},
			models.Message{Sender: models.SenderBot, Text: "Thanks, tell me more."},
		)
	}
	return out
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		input         *Input
		wantStatus    models.LeadStatus
		wantQualified bool
	}{
		{
			name: "qualified real estate lead",
			input: &Input{
				Messages: transcript("hi", "Mumbai", "2bhk", "50L"),
				Metadata: models.Metadata{
					Location:     models.String("Mumbai"),
					PropertyType: models.String("2BHK"),
					Budget:       models.Float(50),
				},
				IndustryID: models.IndustryRealEstate,
			},
			wantStatus:    models.LeadHot,
			wantQualified: true,
		},
		{
			name: "gibberish transcript",
			input: &Input{
				Messages: transcript("as", "12", "xx"),
				Metadata: models.Metadata{Budget: models.Float(50)},
			},
			wantStatus:    models.LeadInvalid,
			wantQualified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := createTestHandler(t).Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantQualified, out.Qualified)
			assert.NotEmpty(t, out.Reasons)
			assert.GreaterOrEqual(t, out.Confidence, 0.0)
			assert.LessOrEqual(t, out.Confidence, 1.0)
		})
	}
}

func TestHandler_Execute_Reasons(t *testing.T) {
	out, err := createTestHandler(t).Execute(context.Background(), &Input{
		Messages: transcript("hi", "Mumbai", "2bhk", "50L"),
		Metadata: models.Metadata{
			Location:     models.String("Mumbai"),
			PropertyType: models.String("2BHK"),
			Budget:       models.Float(50),
		},
		IndustryID: models.IndustryRealEstate,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Clear budget: 50", "Specific location: Mumbai", "Specific property type: 2BHK"}, out.Reasons)
	assert.Equal(t, 1.0, out.Confidence)
}

func TestHandler_Execute_UnknownIndustry(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), &Input{
		Messages:   transcript("hello there"),
		IndustryID: "aviation",
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestHandler_Execute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := createTestHandler(t).Execute(ctx, &Input{Messages: transcript("hello there")})
	assert.Error(t, err)
}

// ==========================
// Input decoding
// ==========================

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name     string
		vars     string
		wantCode errors.ErrorCode
	}{
		{"valid", `{"messages":[{"sender":"user","text":"hi"}],"industryId":"software"}`, ""},
		{"missing messages", `{"industryId":"software"}`, errors.ErrCodeValidation},
		{"unknown sender", `{"messages":[{"sender":"agent","text":"hi"}]}`, errors.ErrCodeValidation},
		{"malformed json", `{"messages":`, errors.ErrCodeInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := decodeInput([]byte(tt.vars))
			if tt.wantCode == "" {
				require.NoError(t, err)
				require.Len(t, input.Messages, 1)
				assert.Equal(t, models.SenderUser, input.Messages[0].Sender)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.AsStandard(err).Code)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg := createTestConfig()
	assert.Equal(t, models.IndustryRealEstate, cfg.DefaultIndustry)
	assert.Positive(t, cfg.Timeout)
}
