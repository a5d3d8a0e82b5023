package classifylead

import "lead-qualifier/internal/models"

type Input struct {
	Messages   []models.Message `json:"messages"`
	Metadata   models.Metadata  `json:"metadata"`
	IndustryID string           `json:"industryId"`
}

type Output struct {
	Status     models.LeadStatus `json:"status"`
	Confidence float64           `json:"confidence"`
	Reasons    []string          `json:"reasons"`
	Qualified  bool              `json:"qualified"`
}

const inputSchema = `{
	"type": "object",
	"required": ["messages"],
	"properties": {
		"messages": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["sender", "text"],
				"properties": {
					"sender": {"enum": ["user", "bot"]},
					"text": {"type": "string"}
				}
			}
		},
		"metadata": {"type": "object"},
		"industryId": {"type": "string"}
	}
}`
