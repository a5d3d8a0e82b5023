package classification

import (
	"testing"

	"lead-qualifier/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	realEstate = models.IndustryConfig{ID: models.IndustryRealEstate}
	software   = models.IndustryConfig{ID: models.IndustrySoftware}
)

func transcript(userTexts ...string) []models.Message {
	var out []models.Message
	for _, t := range userTexts {
		out = append(out,
			models.Message{Sender: models.SenderUser, Text: t},
			models.Message{Sender: models.SenderBot, Text: "ok, tell me more"},
		)
	}
	return out
}

// ==========================
// Invalid short-circuit
// ==========================

func TestClassify_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		messages    []models.Message
		wantReasons []string
	}{
		{
			name:        "gibberish transcript",
			messages:    transcript("as", "12", "xx"),
			wantReasons: []string{ReasonGibberish, ReasonNonMeaningful},
		},
		{
			name:        "test token",
			messages:    transcript("testing this thing out", "I want a big house in Pune"),
			wantReasons: []string{ReasonGibberish},
		},
		{
			name: "unresponsive",
			messages: []models.Message{
				{Sender: models.SenderBot, Text: "hello"},
				{Sender: models.SenderUser, Text: "I am looking for a flat"},
				{Sender: models.SenderBot, Text: "where?"},
				{Sender: models.SenderBot, Text: "still there?"},
				{Sender: models.SenderBot, Text: "ping"},
			},
			wantReasons: []string{ReasonUnresponsive},
		},
		{
			name:        "short replies only",
			messages:    transcript("okay", "yes", "sure"),
			wantReasons: []string{ReasonGibberish, ReasonNonMeaningful},
		},
		{
			name:        "short non-latin replies",
			messages:    transcript("हाँ", "नहीं"),
			wantReasons: []string{ReasonNonMeaningful},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.messages, models.Metadata{Budget: models.Float(50)}, realEstate)
			assert.Equal(t, models.LeadInvalid, got.Status)
			assert.Equal(t, 0.90, got.Confidence)
			assert.Equal(t, tt.wantReasons, got.Reasons)
		})
	}
}

func TestIsGibberish(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"a", true},
		{"é", true},
		{"as", true},
		{"xyz", true},
		{"12345", true},
		{"asdf asdf", true},
		{"QWERTY", true},
		{"123 main street", true},
		{"hi", false},
		{"Hey", false},
		{"Mumbai", false},
		{"50L", false},
		{"2bhk", false},
		{"मुंबई", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, isGibberish(tt.text))
		})
	}
}

// ==========================
// Scoring
// ==========================

func TestClassify_RealEstateHot(t *testing.T) {
	meta := models.Metadata{
		Location:     models.String("Mumbai"),
		PropertyType: models.String("2BHK"),
		Budget:       models.Float(50),
		Timeline:     models.Int(3),
		Purpose:      models.String(models.PurposePersonal),
	}
	got := Classify(transcript("hi", "Mumbai", "2bhk", "50L", "3 months", "personal use"), meta, realEstate)

	assert.Equal(t, models.LeadHot, got.Status)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, []string{
		"Clear budget: 50",
		"Specific location: Mumbai",
		"Urgent timeline: 3 months",
		"Clear purpose: personal use",
		"Specific property type: 2BHK",
	}, got.Reasons)
}

func TestRealEstateLocationSignal_CountsCharacters(t *testing.T) {
	located := realEstateHot[1]
	tests := []struct {
		location string
		want     bool
	}{
		{"Pune", true},
		{"पुणे", true},
		{"Goa", false},
		{"Åre", false},
		{"Not Sure", false},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			in := Input{Metadata: models.Metadata{Location: models.String(tt.location)}}
			assert.True(t, located.Applies(in))
			assert.Equal(t, tt.want, located.Satisfied(in))
		})
	}
}

func TestClassify_IsDeterministic(t *testing.T) {
	meta := models.Metadata{Budget: models.Float(20), Timeline: models.Int(2), DecisionMaker: models.Bool(true)}
	msgs := transcript("we need a CRM for sales", "budget is around 20 lakh", "within two months ideally")

	first := Classify(msgs, meta, software)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(msgs, meta, software))
	}
	assert.Equal(t, models.LeadHot, first.Status)
}

func TestClassify_ThresholdFailsToCold(t *testing.T) {
	// hot 3/5, cold 1/5
	meta := models.Metadata{
		Location:     models.String("Pune"),
		PropertyType: models.String("Villa"),
		Budget:       models.Float(90),
		Timeline:     models.Int(12),
		Intent:       models.String(models.IntentBrowsing),
	}
	msgs := transcript("we are exploring villas in pune", "our budget is about 90 lakhs", "maybe sometime next year or so")

	got := Classify(msgs, meta, realEstate)
	assert.Equal(t, models.LeadCold, got.Status)
	assert.Equal(t, 0.2, got.Confidence)
	assert.Equal(t, []string{"Just browsing, no clear intent"}, got.Reasons)
}

func TestClassify_NoSignalsIsColdWithEmptyReasons(t *testing.T) {
	meta := models.Metadata{Location: models.String("Pune"), Budget: models.Float(10)}
	got := Classify(transcript("looking for something nice"), meta, models.IndustryConfig{ID: "insurance"})

	assert.Equal(t, models.LeadCold, got.Status)
	assert.Equal(t, 0.0, got.Confidence)
	assert.NotNil(t, got.Reasons)
	assert.Empty(t, got.Reasons)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		hot        Score
		cold       Score
		wantStatus models.LeadStatus
		wantConf   float64
	}{
		{"hot wins", Score{Value: 0.8, Reasons: []string{"h"}}, Score{Value: 0.2}, models.LeadHot, 0.8},
		{"tie goes cold", Score{Value: 0.7}, Score{Value: 0.7, Reasons: []string{"c"}}, models.LeadCold, 0.7},
		{"below threshold", Score{Value: 0.6}, Score{Value: 0.2}, models.LeadCold, 0.2},
		{"cold wins", Score{Value: 0.3}, Score{Value: 0.5}, models.LeadCold, 0.5},
		{"rounded", Score{Value: 2.0 / 3.0}, Score{Value: 1.0 / 3.0}, models.LeadHot, 0.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.hot, tt.cold)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.NotNil(t, got.Reasons)
		})
	}
}

func TestColdSignals_Engagement(t *testing.T) {
	in := Input{UserTexts: []string{"yes please", "ok", "a longer reply with many words"}}
	assert.False(t, mostlyShort(in))

	in.UserTexts = append(in.UserTexts, "sure", "fine")
	assert.True(t, mostlyShort(in))
}
