package conversation

import (
	"time"

	"lead-qualifier/internal/models"
)

const (
	minUserMessages          = 4
	minGenericUserMessages   = 3
	DefaultGenericMinimumAge = 5 * time.Minute
)

type readinessRule struct {
	industryID string
	ready      func(conv *models.Conversation, now time.Time, minAge time.Duration) bool
}

var readinessRules = []readinessRule{
	{models.IndustryRealEstate, func(c *models.Conversation, _ time.Time, _ time.Duration) bool {
		m := c.Metadata
		return (m.HasLocation() || m.HasBudget()) && (m.HasTimeline() || m.HasPropertyType())
	}},
	{models.IndustrySoftware, func(c *models.Conversation, _ time.Time, _ time.Duration) bool {
		return c.Metadata.HasBudget() && c.Metadata.HasTimeline()
	}},
}

func genericReady(c *models.Conversation, now time.Time, minAge time.Duration) bool {
	return c.UserMessageCount() >= minGenericUserMessages && c.Age(now) > minAge
}

// Trigger decides when an active conversation has enough to be classified.
type Trigger struct {
	GenericMinimumAge time.Duration
}

// ShouldClassify is false for anything not active, so re-evaluating a
// classified conversation is a no-op.
func (t Trigger) ShouldClassify(conv *models.Conversation, now time.Time) bool {
	if conv.Status != models.StatusActive || conv.UserMessageCount() < minUserMessages {
		return false
	}

	minAge := t.GenericMinimumAge
	if minAge <= 0 {
		minAge = DefaultGenericMinimumAge
	}
	for _, r := range readinessRules {
		if r.industryID == conv.Industry.ID {
			return r.ready(conv, now, minAge)
		}
	}
	return genericReady(conv, now, minAge)
}

func ShouldClassify(conv *models.Conversation, now time.Time) bool {
	return Trigger{}.ShouldClassify(conv, now)
}
