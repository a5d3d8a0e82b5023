package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_MergeIsMonotonic(t *testing.T) {
	updates := []Metadata{
		{Location: String("Mumbai")},
		{},
		{PropertyType: String("2BHK")},
		{Budget: Float(50)},
		{Location: nil, Budget: nil},
		{Timeline: Int(3)},
		{Purpose: String(PurposePersonal)},
		{},
	}

	var m Metadata
	for i, u := range updates {
		before := m
		m = m.Merge(u)

		// every field known before the update stays known afterwards
		if before.Location != nil {
			require.NotNil(t, m.Location, "update %d erased location", i)
		}
		if before.Budget != nil {
			require.NotNil(t, m.Budget, "update %d erased budget", i)
		}
		if before.PropertyType != nil {
			require.NotNil(t, m.PropertyType, "update %d erased property type", i)
		}
	}

	assert.Equal(t, "Mumbai", *m.Location)
	assert.Equal(t, "2BHK", *m.PropertyType)
	assert.Equal(t, 50.0, *m.Budget)
	assert.Equal(t, 3, *m.Timeline)
	assert.Equal(t, PurposePersonal, *m.Purpose)
}

func TestMetadata_MergeLatestNonNullWins(t *testing.T) {
	m := Metadata{Intent: String(IntentBrowsing), Budget: Float(20)}
	m = m.Merge(Metadata{Intent: String(IntentBuy)})

	assert.Equal(t, IntentBuy, *m.Intent)
	assert.Equal(t, 20.0, *m.Budget)
}

func TestMetadata_MergeDoesNotAlias(t *testing.T) {
	update := Metadata{Location: String("Pune")}
	m := Metadata{}.Merge(update)

	*update.Location = "Delhi"
	assert.Equal(t, "Pune", *m.Location)
}

func TestMetadata_IsEmpty(t *testing.T) {
	assert.True(t, Metadata{}.IsEmpty())
	assert.False(t, Metadata{DecisionMaker: Bool(false)}.IsEmpty())
}

func TestConversation_MarkClassifiedOnce(t *testing.T) {
	c := &Conversation{ID: "c1", Status: StatusActive}

	first := ClassificationResult{Status: LeadHot, Confidence: 1, Reasons: []string{"Clear budget: 50"}}
	require.True(t, c.MarkClassified(first))

	second := ClassificationResult{Status: LeadCold, Confidence: 0.5}
	assert.False(t, c.MarkClassified(second))
	assert.Equal(t, StatusClassified, c.Status)
	assert.Equal(t, LeadHot, c.Classification.Status)
}

func TestConversation_CloneIsDeep(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &Conversation{ID: "c1", Status: StatusActive, StartTime: now}
	c.AppendMessage("m1", SenderUser, "hello there", now)
	c.MergeMetadata(Metadata{Location: String("Pune")})

	clone := c.Clone()
	clone.AppendMessage("m2", SenderBot, "hi", now)
	*clone.Metadata.Location = "Delhi"

	assert.Len(t, c.Messages, 1)
	assert.Equal(t, "Pune", *c.Metadata.Location)
	assert.Equal(t, 1, c.UserMessageCount())
	assert.Equal(t, []string{"hello there"}, c.UserTexts())
}

func TestNewClassificationRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &Conversation{
		ID:       "c1",
		Lead:     Lead{Name: "Asha", Phone: "+919820012345", Source: "Direct"},
		Industry: IndustryConfig{ID: IndustryRealEstate},
		Status:   StatusActive,
	}
	c.AppendMessage("m1", SenderUser, "Mumbai", now)

	_, ok := NewClassificationRecord(c, now)
	assert.False(t, ok)

	c.MarkClassified(ClassificationResult{Status: LeadCold, Confidence: 0.67, Reasons: []string{"No clear budget provided"}})
	record, ok := NewClassificationRecord(c, now.Add(time.Minute))
	require.True(t, ok)

	assert.Equal(t, "c1", record.ID)
	assert.Equal(t, IndustryRealEstate, record.IndustryID)
	assert.Equal(t, LeadCold, record.Status)
	assert.Equal(t, 0.67, record.Confidence)
	require.Len(t, record.Transcript, 1)
	assert.Equal(t, SenderUser, record.Transcript[0].Sender)
}
