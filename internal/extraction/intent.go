package extraction

import (
	"strings"

	"lead-qualifier/internal/models"
)

type intentRule struct {
	intent   string
	phrases  []string
	keywords []string
}

// intentRules is checked in order for phrases first, then again for keywords.
var intentRules = []intentRule{
	{
		intent:   models.IntentBuy,
		phrases:  []string{"want to buy", "looking to buy", "interested in buying", "purchase"},
		keywords: []string{"buy", "buying"},
	},
	{
		intent:   models.IntentRent,
		phrases:  []string{"want to rent", "looking to rent", "interested in renting", "lease"},
		keywords: []string{"rent", "renting"},
	},
	{
		intent:   models.IntentBrowsing,
		phrases:  []string{"just browsing", "just looking", "gathering information", "exploring options"},
		keywords: []string{"browsing", "looking around"},
	},
	{
		intent:   models.IntentSell,
		phrases:  []string{"want to sell", "looking to sell", "interested in selling"},
		keywords: []string{"sell", "selling"},
	},
}

func extractIntent(text string, history []string) *string {
	for _, r := range intentRules {
		if containsAny(text, r.phrases) {
			return models.String(r.intent)
		}
	}

	all := make([]string, 0, len(history)+1)
	for _, h := range history {
		all = append(all, normalize(h))
	}
	all = append(all, text)
	padded := " " + strings.Join(tokenize(strings.Join(all, " ")), " ") + " "

	for _, r := range intentRules {
		for _, kw := range r.keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return models.String(r.intent)
			}
		}
	}
	return nil
}

// tokenize splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
}
