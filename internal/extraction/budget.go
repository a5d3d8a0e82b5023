package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"lead-qualifier/internal/models"
)

const lakh = 100000.0

var (
	amountPattern = `(\d[\d,]*(?:\.\d+)?)`

	indianAmount  = regexp.MustCompile(amountPattern + `\s*(lakhs|lakh|l|crores|crore|cr)\b`)
	westernAmount = regexp.MustCompile(amountPattern + `\s*(thousand|k|million|m)\b`)
	dollarBefore  = regexp.MustCompile(`\$\s*` + amountPattern)
	dollarAfter   = regexp.MustCompile(amountPattern + `\s*\$`)
	bareAmount    = regexp.MustCompile(amountPattern)

	budgetContext = []string{"budget", "afford", "price", "cost", "spending"}
)

type budgetRule struct {
	name  string
	match func(text string) (float64, bool)
}

// budgetRules is ordered: unit-bearing amounts win over bare numbers.
var budgetRules = []budgetRule{
	{"indian-unit", matchIndianBudget},
	{"western-unit", matchWesternBudget},
	{"contextual-number", matchContextualBudget},
}

// extractBudget returns the amount in lakhs.
func extractBudget(text string) *float64 {
	for _, rule := range budgetRules {
		if v, ok := rule.match(text); ok {
			return models.Float(roundBudget(v))
		}
	}
	return nil
}

func matchIndianBudget(text string) (float64, bool) {
	m := indianAmount.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, ok := parseAmount(m[1])
	if !ok {
		return 0, false
	}
	if strings.HasPrefix(m[2], "c") {
		return n * 100, true
	}
	return n, true
}

func matchWesternBudget(text string) (float64, bool) {
	if m := westernAmount.FindStringSubmatch(text); m != nil {
		n, ok := parseAmount(m[1])
		if !ok {
			return 0, false
		}
		switch m[2] {
		case "k", "thousand":
			return n / 10, true
		default:
			return n * 10, true
		}
	}

	for _, re := range []*regexp.Regexp{dollarBefore, dollarAfter} {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, ok := parseAmount(m[1]); ok {
				return n / lakh, true
			}
		}
	}
	return 0, false
}

// matchContextualBudget treats values above one lakh as raw currency.
func matchContextualBudget(text string) (float64, bool) {
	if !containsAny(text, budgetContext) {
		return 0, false
	}
	m := bareAmount.FindString(text)
	if m == "" {
		return 0, false
	}
	n, ok := parseAmount(m)
	if !ok {
		return 0, false
	}
	if n > lakh {
		return n / lakh, true
	}
	return n, true
}

func parseAmount(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// roundBudget trims float noise such as 1.5*100 = 150.00000000000003.
func roundBudget(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
