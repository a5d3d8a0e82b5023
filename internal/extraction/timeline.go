package extraction

import (
	"regexp"
	"strconv"
	"time"

	"lead-qualifier/internal/models"
)

var durationPattern = regexp.MustCompile(`(\d+)[\s-]*(months?|weeks?|years?|days?)\b`)

type timelinePhrase struct {
	phrases []string
	months  func(now time.Time) int
}

func fixedMonths(n int) func(time.Time) int {
	return func(time.Time) int { return n }
}

// monthsLeftInYear counts the current month, so December yields 1.
func monthsLeftInYear(now time.Time) int {
	remaining := 12 - (int(now.Month()) - 1)
	if remaining < 1 {
		return 1
	}
	return remaining
}

var timelinePhrases = []timelinePhrase{
	{[]string{"asap", "as soon as possible", "immediately", "right away", "next month", "within a month"}, fixedMonths(1)},
	{[]string{"few months", "couple of months"}, fixedMonths(3)},
	{[]string{"end of year", "end of the year", "by year end", "by december"}, monthsLeftInYear},
}

// extractTimeline returns the horizon in whole months.
func extractTimeline(text string, now time.Time) *int {
	if m := durationPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Int(toMonths(n, m[2]))
		}
	}

	for _, p := range timelinePhrases {
		if containsAny(text, p.phrases) {
			return models.Int(p.months(now))
		}
	}
	return nil
}

func toMonths(n int, unit string) int {
	switch unit[0] {
	case 'w':
		return ceilDiv(n, 4)
	case 'y':
		return n * 12
	case 'd':
		return ceilDiv(n, 30)
	default:
		return n
	}
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
