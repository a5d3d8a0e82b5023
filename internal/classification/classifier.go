// Package classification turns a transcript and its metadata into a Hot, Cold
// or Invalid verdict. It does no I/O and keeps no state.
package classification

import (
	"math"

	"lead-qualifier/internal/models"
)

const hotThreshold = 0.6

// Classify scores a conversation. The invalid checks run first and, when any
// fires, no scoring happens.
func Classify(messages []models.Message, metadata models.Metadata, industry models.IndustryConfig) models.ClassificationResult {
	userTexts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Sender == models.SenderUser {
			userTexts = append(userTexts, m.Text)
		}
	}

	if reasons := invalidReasons(userTexts, len(messages)); len(reasons) > 0 {
		return models.ClassificationResult{
			Status:     models.LeadInvalid,
			Confidence: invalidConfidence,
			Reasons:    reasons,
		}
	}

	in := Input{Metadata: metadata, UserTexts: userTexts}
	hot := evaluate(hotSignalsFor(industry.ID), in)
	cold := evaluate(coldSignals, in)
	return Decide(hot, cold)
}

// Decide picks Hot only when hot strictly beats cold and clears the threshold.
// Ties go to Cold.
func Decide(hot, cold Score) models.ClassificationResult {
	winner, status := cold, models.LeadCold
	if hot.Value > cold.Value && hot.Value > hotThreshold {
		winner, status = hot, models.LeadHot
	}

	reasons := winner.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return models.ClassificationResult{
		Status:     status,
		Confidence: math.Round(winner.Value*100) / 100,
		Reasons:    reasons,
	}
}
