package extractleadmetadata

import "lead-qualifier/internal/models"

type Input struct {
	Text       string          `json:"text"`
	IndustryID string          `json:"industryId"`
	History    []string        `json:"history"`
	Metadata   models.Metadata `json:"metadata"`
}

// Output carries the merged metadata and the fields found in this text alone.
type Output struct {
	Metadata models.Metadata `json:"metadata"`
	Update   models.Metadata `json:"update"`
	Found    []string        `json:"found"`
}

const inputSchema = `{
	"type": "object",
	"required": ["text"],
	"properties": {
		"text": {"type": "string", "maxLength": 2000},
		"industryId": {"type": "string"},
		"history": {"type": "array", "items": {"type": "string"}},
		"metadata": {"type": "object"}
	}
}`
