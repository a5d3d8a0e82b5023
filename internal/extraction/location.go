package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"lead-qualifier/internal/models"
)

var locationMarkers = []string{"looking in", "interested in", "location", "area", "near", "around"}

// A marker followed by one of these is intent phrasing ("interested in buying").
var nonLocationLeads = []string{"buying", "renting", "selling", "investing", "purchasing", "leasing"}

var knownCities = []string{
	"mumbai", "delhi", "bangalore", "pune", "hyderabad", "chennai", "kolkata", "ahmedabad",
	"jaipur", "surat", "new york", "london", "toronto", "los angeles", "chicago", "san francisco",
}

var (
	cityPattern = regexp.MustCompile(`\b(` + strings.Join(knownCities, "|") + `)\b`)
	edgeNoise   = regexp.MustCompile(`^[^\p{L}\p{N}_]+|[^\p{L}\p{N}_]+$`)
)

// extractLocation prefers an explicit locating phrase over the city list. The
// phrase remainder is cut from raw so the user's casing survives.
func extractLocation(raw, text string) *string {
	if loc, ok := locationFromMarker(raw, text); ok {
		return models.String(loc)
	}
	if city := cityPattern.FindString(text); city != "" {
		return models.String(titleCase(city))
	}
	return nil
}

func locationFromMarker(raw, text string) (string, bool) {
	source := raw
	if len(raw) != len(text) {
		source = text
	}

	start, marker := firstMarker(text, 0)
	if start < 0 {
		return "", false
	}
	from := start + len(marker)

	// the remainder runs up to the next marker, if any
	to := len(text)
	if next, _ := firstMarker(text, from); next >= 0 {
		to = next
	}

	remainder := strings.TrimSpace(text[from:to])
	for _, lead := range nonLocationLeads {
		if strings.HasPrefix(remainder, lead) {
			return "", false
		}
	}
	// "around 50 lakhs" is an amount, not a place
	if r, _ := utf8.DecodeRuneInString(remainder); unicode.IsDigit(r) {
		return "", false
	}

	candidate := edgeNoise.ReplaceAllString(strings.TrimSpace(source[from:to]), "")
	if utf8.RuneCountInString(candidate) <= 2 {
		return "", false
	}
	return candidate, true
}

// firstMarker finds the leftmost marker at or after offset.
func firstMarker(text string, offset int) (int, string) {
	best, bestMarker := -1, ""
	for _, m := range locationMarkers {
		idx := strings.Index(text[offset:], m)
		if idx < 0 {
			continue
		}
		idx += offset
		if best < 0 || idx < best {
			best, bestMarker = idx, m
		}
	}
	return best, bestMarker
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
