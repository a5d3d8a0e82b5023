package models

import "time"

type LeadStatus string

const (
	LeadHot     LeadStatus = "Hot"
	LeadCold    LeadStatus = "Cold"
	LeadInvalid LeadStatus = "Invalid"
)

type ClassificationResult struct {
	Status     LeadStatus `json:"status"`
	Confidence float64    `json:"confidence"`
	Reasons    []string   `json:"reasons"`
}

func (r ClassificationResult) Clone() ClassificationResult {
	out := r
	out.Reasons = append(make([]string, 0, len(r.Reasons)), r.Reasons...)
	return out
}

type TranscriptEntry struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ClassificationRecord is the write-once snapshot appended to the ledger when a
// conversation is finalized. ID is the conversation id.
type ClassificationRecord struct {
	ID         string            `json:"id" db:"id"`
	Timestamp  time.Time         `json:"timestamp" db:"recorded_at"`
	Lead       Lead              `json:"lead" db:"lead"`
	IndustryID string            `json:"industry" db:"industry_id"`
	Status     LeadStatus        `json:"status" db:"status"`
	Confidence float64           `json:"confidence" db:"confidence"`
	Reasons    []string          `json:"reasons" db:"reasons"`
	Metadata   Metadata          `json:"metadata" db:"metadata"`
	Transcript []TranscriptEntry `json:"transcript" db:"transcript"`
}

// NewClassificationRecord snapshots a classified conversation. It returns false
// when the conversation has no classification yet.
func NewClassificationRecord(c *Conversation, at time.Time) (ClassificationRecord, bool) {
	if c.Classification == nil {
		return ClassificationRecord{}, false
	}
	result := c.Classification.Clone()

	transcript := make([]TranscriptEntry, 0, len(c.Messages))
	for _, m := range c.Messages {
		transcript = append(transcript, TranscriptEntry{Sender: m.Sender, Text: m.Text, Timestamp: m.Timestamp})
	}

	return ClassificationRecord{
		ID:         c.ID,
		Timestamp:  at,
		Lead:       c.Lead,
		IndustryID: c.Industry.ID,
		Status:     result.Status,
		Confidence: result.Confidence,
		Reasons:    result.Reasons,
		Metadata:   c.Metadata.Clone(),
		Transcript: transcript,
	}, true
}
