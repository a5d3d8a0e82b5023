package classification

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	ReasonGibberish      = "Contains gibberish or test messages"
	ReasonUnresponsive   = "Unresponsive to questions"
	ReasonNonMeaningful  = "Consistently providing non-meaningful responses"
	invalidConfidence    = 0.90
	minMeaningfulLength  = 5
	unresponsiveMessages = 4
)

var (
	allDigits   = regexp.MustCompile(`^[0-9]+$`)
	fewLetters  = regexp.MustCompile(`^[a-z]{1,3}$`)
	testPrefix  = regexp.MustCompile(`^(test|asdf|qwerty|123)`)
	greetingSet = map[string]struct{}{"hi": {}, "hey": {}, "hii": {}, "hlo": {}, "yo": {}}
)

type invalidRule struct {
	reason string
	match  func(userTexts []string, totalMessages int) bool
}

// invalidRules each contribute their reason independently.
var invalidRules = []invalidRule{
	{ReasonGibberish, hasGibberish},
	{ReasonUnresponsive, func(userTexts []string, total int) bool {
		return len(userTexts) == 1 && total > unresponsiveMessages
	}},
	{ReasonNonMeaningful, allNonMeaningful},
}

func invalidReasons(userTexts []string, totalMessages int) []string {
	var reasons []string
	for _, r := range invalidRules {
		if r.match(userTexts, totalMessages) {
			reasons = append(reasons, r.reason)
		}
	}
	return reasons
}

func hasGibberish(userTexts []string, _ int) bool {
	for _, t := range userTexts {
		if isGibberish(t) {
			return true
		}
	}
	return false
}

func isGibberish(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if utf8.RuneCountInString(t) < 2 || allDigits.MatchString(t) || testPrefix.MatchString(t) {
		return true
	}
	if _, greeting := greetingSet[t]; greeting {
		return false
	}
	return fewLetters.MatchString(t)
}

func allNonMeaningful(userTexts []string, _ int) bool {
	if len(userTexts) < 2 {
		return false
	}
	for _, t := range userTexts {
		t = strings.TrimSpace(t)
		if utf8.RuneCountInString(t) >= minMeaningfulLength && !allDigits.MatchString(t) {
			return false
		}
	}
	return true
}
