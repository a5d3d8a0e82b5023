// Package extraction turns a single user utterance into a partial metadata
// update. Every rule is a pure function of the text, the user history and the
// reference time, so identical inputs always give identical updates.
package extraction

import (
	"strings"
	"time"

	"lead-qualifier/internal/models"

	"github.com/jonboulle/clockwork"
)

// Extractor is what the conversation service calls once per user turn.
type Extractor interface {
	Extract(text string, industry models.IndustryConfig, history []string) (models.Metadata, error)
}

// Engine binds Extract to a clock for the calendar-relative timeline rules.
type Engine struct {
	clock clockwork.Clock
}

func NewEngine(clock clockwork.Clock) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{clock: clock}
}

func (e *Engine) Extract(text string, industry models.IndustryConfig, history []string) (models.Metadata, error) {
	return Extract(text, industry, history, e.clock.Now()), nil
}

type input struct {
	raw     string
	text    string // lowercased, trimmed
	history []string
	now     time.Time
}

type fieldRule struct {
	field string
	apply func(in input, out *models.Metadata)
}

var (
	intentField       = fieldRule{"intent", func(in input, out *models.Metadata) { out.Intent = extractIntent(in.text, in.history) }}
	budgetField       = fieldRule{"budget", func(in input, out *models.Metadata) { out.Budget = extractBudget(in.text) }}
	timelineField     = fieldRule{"timeline", func(in input, out *models.Metadata) { out.Timeline = extractTimeline(in.text, in.now) }}
	locationField     = fieldRule{"location", func(in input, out *models.Metadata) { out.Location = extractLocation(in.raw, in.text) }}
	propertyTypeField = fieldRule{"propertyType", func(in input, out *models.Metadata) { out.PropertyType = extractPropertyType(in.text) }}
	purposeField      = fieldRule{"purpose", func(in input, out *models.Metadata) { out.Purpose = extractPurpose(in.text) }}
	companySizeField  = fieldRule{"companySize", func(in input, out *models.Metadata) { out.CompanySize = extractCompanySize(in.text) }}
	decisionField     = fieldRule{"decisionMaker", func(in input, out *models.Metadata) { out.DecisionMaker = extractDecisionMaker(in.text) }}
)

var industryFields = []struct {
	industryID string
	rules      []fieldRule
}{
	{models.IndustryRealEstate, []fieldRule{intentField, budgetField, timelineField, locationField, propertyTypeField, purposeField}},
	{models.IndustrySoftware, []fieldRule{intentField, budgetField, timelineField, companySizeField, decisionField}},
}

var genericFields = []fieldRule{intentField, budgetField, timelineField, locationField}

func rulesFor(industryID string) []fieldRule {
	for _, entry := range industryFields {
		if entry.industryID == industryID {
			return entry.rules
		}
	}
	return genericFields
}

// Fields lists the metadata fields extracted for an industry, in rule order.
func Fields(industryID string) []string {
	rules := rulesFor(industryID)
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.field)
	}
	return out
}

// Extract derives the partial update for latestText. history holds the earlier
// user utterances and only feeds the intent keyword fallback.
func Extract(latestText string, industry models.IndustryConfig, history []string, now time.Time) models.Metadata {
	in := input{
		raw:     strings.TrimSpace(latestText),
		text:    normalize(latestText),
		history: history,
		now:     now,
	}

	var out models.Metadata
	if in.text == "" {
		return out
	}
	for _, rule := range rulesFor(industry.ID) {
		rule.apply(in, &out)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
