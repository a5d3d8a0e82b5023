package extraction

import (
	"regexp"
	"strconv"

	"lead-qualifier/internal/models"
)

var headcountPattern = regexp.MustCompile(`(\d+)\s*(employees?|people|staff)\b`)

var companySizeBuckets = []struct {
	keywords []string
	size     int
}{
	{[]string{"small company", "startup"}, 20},
	{[]string{"medium", "mid-size"}, 100},
	{[]string{"large", "enterprise"}, 500},
}

func extractCompanySize(text string) *int {
	if m := headcountPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Int(n)
		}
	}
	for _, b := range companySizeBuckets {
		if containsAny(text, b.keywords) {
			return models.Int(b.size)
		}
	}
	return nil
}

var (
	// deferring phrases are checked first: "not my decision" contains "my decision".
	deferringPhrases = []string{"not my decision", "need approval", "need to consult", "team decision", "my manager decides", "my boss decides"}
	authorityPhrases = []string{"i decide", "i am the decision", "i'm the decision", "i make the decision", "my decision", "i have the final say"}
)

func extractDecisionMaker(text string) *bool {
	if containsAny(text, deferringPhrases) {
		return models.Bool(false)
	}
	if containsAny(text, authorityPhrases) {
		return models.Bool(true)
	}
	return nil
}
