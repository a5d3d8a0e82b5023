package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/industry"
	"lead-qualifier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayFixture(t *testing.T) (*industry.Registry, replayOptions) {
	t.Helper()
	cfg = &config.Config{}
	return industry.NewRegistry(industry.Defaults()...), replayOptions{
		TurnInterval: time.Minute,
		Finalize:     true,
		Start:        time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestRunReplay_RealEstate(t *testing.T) {
	registry, opts := replayFixture(t)
	transcript := `{
		"lead": {"name": "Asha", "phone": "9876543210", "industry": "real_estate"},
		"messages": ["hi", "Mumbai", "2bhk", "50L", "3 months", "personal use"]
	}`

	var out bytes.Buffer
	require.NoError(t, runReplay(context.Background(), strings.NewReader(transcript), &out, registry, opts, logger.NewTestLogger(t)))

	var res replayResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, models.IndustryRealEstate, res.Industry)
	assert.Contains(t, res.Greeting, "Asha")
	require.Len(t, res.Turns, 6)
	assert.Equal(t, "Which city or location are you interested in for your property search?", res.Turns[0].Bot)
	require.NotNil(t, res.Turns[3].Classification)
	assert.Nil(t, res.Turns[4].Classification)

	require.NotNil(t, res.Classification)
	assert.Equal(t, models.LeadHot, res.Classification.Status)
	assert.False(t, res.Finalized, "already classified during the turns")
	assert.Equal(t, models.String("Mumbai"), res.Metadata.Location)
}

func TestRunReplay_FinalizesShortTranscript(t *testing.T) {
	registry, opts := replayFixture(t)
	transcript := `{"lead": {"name": "Ravi", "industry": "software", "initialMessage": "hello there"}, "messages": ["we need a CRM"]}`

	var out bytes.Buffer
	require.NoError(t, runReplay(context.Background(), strings.NewReader(transcript), &out, registry, opts, logger.NewTestLogger(t)))

	var res replayResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Len(t, res.Turns, 2)
	assert.Equal(t, "hello there", res.Turns[0].User)
	assert.True(t, res.Finalized)
	require.NotNil(t, res.Classification)
}

func TestRunReplay_Errors(t *testing.T) {
	registry, opts := replayFixture(t)
	log := logger.NewTestLogger(t)

	err := runReplay(context.Background(), strings.NewReader("{"), &bytes.Buffer{}, registry, opts, log)
	assert.Error(t, err)

	err = runReplay(context.Background(), strings.NewReader(`{"lead": {"name": ""}}`), &bytes.Buffer{}, registry, opts, log)
	assert.Error(t, err)

	err = runReplay(context.Background(), strings.NewReader(`{"lead": {"name": "A", "industry": "aviation"}}`), &bytes.Buffer{}, registry, opts, log)
	assert.Error(t, err)
}
