package dialogue

import (
	"fmt"
	"strconv"

	"lead-qualifier/internal/models"
)

func text(s string) func(Context) string {
	return func(Context) string { return s }
}

func atStage(s Stage) func(Context) bool {
	return func(c Context) bool { return c.Stage == s }
}

func formatLakhs(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var realEstatePolicy = &Policy{
	IndustryID: models.IndustryRealEstate,
	greeting:   "Hi %s! Thanks for reaching out. I'm your personal real estate assistant. Could you share which city or area you're interested in?",
	rules: []Rule{
		{
			Name: "acknowledge-location",
			When: func(c Context) bool {
				return c.Stage == StageInitialQuestion && c.Metadata.HasLocation() && !c.Metadata.HasPropertyType()
			},
			Reply: func(c Context) string {
				return fmt.Sprintf("Great! %s is a wonderful area. Are you looking for a flat, villa, or plot? Also, is this for investment or personal use?", *c.Metadata.Location)
			},
		},
		{
			Name:  "ask-location",
			When:  func(c Context) bool { return !c.Metadata.HasLocation() },
			Reply: text("Which city or location are you interested in for your property search?"),
		},
		{
			Name: "ask-property-type",
			When: func(c Context) bool { return c.Metadata.HasLocation() && !c.Metadata.HasPropertyType() },
			Reply: func(c Context) string {
				return fmt.Sprintf("What type of property are you looking for in %s? (e.g., apartment, villa, plot)", *c.Metadata.Location)
			},
		},
		{
			Name: "ask-budget",
			When: func(c Context) bool { return c.Metadata.HasPropertyType() && !c.Metadata.HasBudget() },
			Reply: func(c Context) string {
				return fmt.Sprintf("What's your budget range for the %s?", *c.Metadata.PropertyType)
			},
		},
		{
			Name:  "ask-timeline",
			When:  func(c Context) bool { return c.Metadata.HasBudget() && !c.Metadata.HasTimeline() },
			Reply: text("Great! What's your timeline for moving in or making the purchase?"),
		},
		{
			Name:  "ask-purpose",
			When:  func(c Context) bool { return c.Metadata.HasTimeline() && !c.Metadata.HasPurpose() },
			Reply: text("Is this property for your personal use or as an investment?"),
		},
		{
			Name: "offer-site-visit",
			When: func(c Context) bool {
				m := c.Metadata
				return m.HasLocation() && m.HasPropertyType() && m.HasBudget() && m.HasTimeline()
			},
			Reply: func(c Context) string {
				m := c.Metadata
				return fmt.Sprintf("Would you like to schedule a site visit to see some %s properties in %s that match your budget of %sL and timeline of %d months?",
					*m.PropertyType, *m.Location, formatLakhs(*m.Budget), *m.Timeline)
			},
		},
	},
	intents: []intentReply{
		{models.IntentBuy, "That's great that you're looking to buy! Could you share more details about your requirements?"},
		{models.IntentRent, "I understand you're looking to rent. What's your monthly budget and preferred location?"},
		{models.IntentBrowsing, "No problem! I'm happy to show you some options. Could you give me an idea of what areas you're interested in?"},
	},
	fallback: "Could you tell me more about your property requirements? I'm here to help find the perfect match for you.",
}

var softwarePolicy = &Policy{
	IndustryID: models.IndustrySoftware,
	greeting:   "Hi %s! I'm your software solutions consultant. What industry is your business in?",
	rules: []Rule{
		{
			Name:  "ask-challenges",
			When:  atStage(StageInitialQuestion),
			Reply: text("Thanks for sharing that. What specific challenges are you looking to solve with our software?"),
		},
		{
			Name:  "ask-budget",
			When:  func(c Context) bool { return !c.Metadata.HasBudget() },
			Reply: text("And what's your budget range for this project?"),
		},
		{
			Name:  "ask-timeline",
			When:  func(c Context) bool { return !c.Metadata.HasTimeline() },
			Reply: text("What's your timeline for implementing a new solution?"),
		},
		{
			Name:  "ask-decision-maker",
			When:  func(c Context) bool { return c.Metadata.DecisionMaker == nil },
			Reply: text("Are you the decision maker for this purchase, or will others be involved in the decision?"),
		},
		{
			Name:  "offer-demo",
			When:  atStage(StageQualification),
			Reply: text("Would you be interested in scheduling a demo of our software to see how it can address your needs?"),
		},
	},
	intents: []intentReply{
		{models.IntentBuy, "Great to hear you're ready to invest in a solution. Which features matter most to your team?"},
		{models.IntentBrowsing, "No problem! Feel free to ask about any of our solutions while you explore."},
	},
	fallback: "Thank you for sharing that information. Is there anything specific about our software solutions that you'd like to know?",
}

var genericPolicy = &Policy{
	greeting: "Hello %s! How can I assist you today?",
	rules: []Rule{
		{
			Name:  "initial-question",
			When:  atStage(StageInitialQuestion),
			Reply: text("Could you tell me more about what you're looking for?"),
		},
		{
			Name:  "information-gathering",
			When:  atStage(StageInformationGathering),
			Reply: text("Thanks for sharing that information. What other details can you provide to help me understand your needs better?"),
		},
		{
			Name:  "qualification",
			When:  atStage(StageQualification),
			Reply: text("Based on what you've told me, I think we can help you. Would you like to schedule a call with one of our specialists?"),
		},
	},
	fallback: "I appreciate your interest. How else can I help you today?",
}
