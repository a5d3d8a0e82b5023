package classification

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"lead-qualifier/internal/models"
)

// Signal contributes to a score only when it applies. Satisfied signals add
// their reason.
type Signal struct {
	Applies   func(in Input) bool
	Satisfied func(in Input) bool
	Reason    func(in Input) string
}

// Input is the read-only view the signals evaluate.
type Input struct {
	Metadata  models.Metadata
	UserTexts []string
}

type Score struct {
	Value   float64
	Reasons []string
}

func evaluate(signals []Signal, in Input) Score {
	applicable, satisfied := 0, 0
	reasons := []string{}
	for _, s := range signals {
		if !s.Applies(in) {
			continue
		}
		applicable++
		if s.Satisfied(in) {
			satisfied++
			reasons = append(reasons, s.Reason(in))
		}
	}
	if applicable == 0 {
		return Score{Reasons: reasons}
	}
	return Score{Value: float64(satisfied) / float64(applicable), Reasons: reasons}
}

func always(Input) bool { return true }

func reason(s string) func(Input) string {
	return func(Input) string { return s }
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	hasBudget   = func(in Input) bool { return in.Metadata.HasBudget() }
	hasTimeline = func(in Input) bool { return in.Metadata.HasTimeline() }
	hasIntent   = func(in Input) bool { return in.Metadata.HasIntent() }

	budgetPositive = func(in Input) bool { return *in.Metadata.Budget > 0 }
)

var realEstateHot = []Signal{
	{
		Applies:   hasBudget,
		Satisfied: budgetPositive,
		Reason:    func(in Input) string { return "Clear budget: " + formatNumber(*in.Metadata.Budget) },
	},
	{
		Applies: func(in Input) bool { return in.Metadata.HasLocation() },
		Satisfied: func(in Input) bool {
			loc := *in.Metadata.Location
			return utf8.RuneCountInString(loc) > 3 && !strings.EqualFold(loc, "not sure")
		},
		Reason: func(in Input) string { return "Specific location: " + *in.Metadata.Location },
	},
	{
		Applies:   hasTimeline,
		Satisfied: func(in Input) bool { return *in.Metadata.Timeline <= 6 },
		Reason:    func(in Input) string { return fmt.Sprintf("Urgent timeline: %d months", *in.Metadata.Timeline) },
	},
	{
		Applies: func(in Input) bool { return in.Metadata.HasPurpose() },
		Satisfied: func(in Input) bool {
			p := *in.Metadata.Purpose
			return p == models.PurposePersonal || p == models.PurposeInvestment
		},
		Reason: func(in Input) string { return "Clear purpose: " + *in.Metadata.Purpose },
	},
	{
		Applies:   func(in Input) bool { return in.Metadata.HasPropertyType() },
		Satisfied: func(Input) bool { return true },
		Reason:    func(in Input) string { return "Specific property type: " + *in.Metadata.PropertyType },
	},
}

var softwareHot = []Signal{
	{
		Applies:   hasBudget,
		Satisfied: budgetPositive,
		Reason:    func(in Input) string { return "Has budget: " + formatNumber(*in.Metadata.Budget) },
	},
	{
		Applies:   hasTimeline,
		Satisfied: func(in Input) bool { return *in.Metadata.Timeline <= 3 },
		Reason:    func(in Input) string { return fmt.Sprintf("Urgent timeline: %d months", *in.Metadata.Timeline) },
	},
	{
		Applies:   func(in Input) bool { return in.Metadata.DecisionMaker != nil },
		Satisfied: func(in Input) bool { return *in.Metadata.DecisionMaker },
		Reason:    reason("Is a decision maker"),
	},
	{
		Applies:   func(in Input) bool { return in.Metadata.CompanySize != nil },
		Satisfied: func(in Input) bool { return *in.Metadata.CompanySize > 50 },
		Reason:    func(in Input) string { return fmt.Sprintf("Good company size: %d employees", *in.Metadata.CompanySize) },
	},
}

var genericHot = []Signal{
	{
		Applies: hasIntent,
		Satisfied: func(in Input) bool {
			i := *in.Metadata.Intent
			return i == models.IntentBuy || i == "purchase"
		},
		Reason: reason("Clear buying intent"),
	},
}

const (
	shortResponseWords = 4
	shortResponseShare = 0.7
	minEngagementTurns = 2
)

var coldSignals = []Signal{
	{
		Applies:   always,
		Satisfied: func(in Input) bool { return !in.Metadata.HasBudget() || *in.Metadata.Budget <= 0 },
		Reason:    reason("No clear budget provided"),
	},
	{
		Applies: always,
		Satisfied: func(in Input) bool {
			if !in.Metadata.HasLocation() {
				return true
			}
			loc := strings.ToLower(*in.Metadata.Location)
			return loc == "not sure" || loc == "anywhere"
		},
		Reason: reason("No specific location preference"),
	},
	{
		Applies: hasIntent,
		Satisfied: func(in Input) bool {
			i := *in.Metadata.Intent
			return i == models.IntentBrowsing || i == "just looking"
		},
		Reason: reason("Just browsing, no clear intent"),
	},
	{
		Applies:   hasTimeline,
		Satisfied: func(in Input) bool { return *in.Metadata.Timeline > 12 },
		Reason:    func(in Input) string { return fmt.Sprintf("Distant timeline: %d months", *in.Metadata.Timeline) },
	},
	{
		Applies:   func(in Input) bool { return len(in.UserTexts) > minEngagementTurns },
		Satisfied: mostlyShort,
		Reason:    reason("Mostly short, low-engagement responses"),
	},
}

func mostlyShort(in Input) bool {
	short := 0
	for _, t := range in.UserTexts {
		if len(strings.Fields(t)) < shortResponseWords {
			short++
		}
	}
	return float64(short)/float64(len(in.UserTexts)) > shortResponseShare
}

func hotSignalsFor(industryID string) []Signal {
	var industrySpecific []Signal
	switch industryID {
	case models.IndustryRealEstate:
		industrySpecific = realEstateHot
	case models.IndustrySoftware:
		industrySpecific = softwareHot
	}
	out := make([]Signal, 0, len(industrySpecific)+len(genericHot))
	return append(append(out, industrySpecific...), genericHot...)
}
