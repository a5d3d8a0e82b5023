package extraction

import (
	"regexp"

	"lead-qualifier/internal/models"
)

type keywordLabel struct {
	keyword string
	label   string
}

// propertyTypes is ordered; the first keyword present in the text wins.
var propertyTypes = []keywordLabel{
	{"1bhk", "1BHK"},
	{"2bhk", "2BHK"},
	{"3bhk", "3BHK"},
	{"4bhk", "4BHK"},
	{"studio", "Studio Apartment"},
	{"flat", "Apartment/Flat"},
	{"apartment", "Apartment/Flat"},
	{"villa", "Villa"},
	{"bungalow", "Bungalow"},
	{"house", "House"},
	{"plot", "Plot/Land"},
	{"land", "Plot/Land"},
	{"commercial", "Commercial"},
	{"office", "Office Space"},
	{"shop", "Shop/Retail"},
}

var spacedBHK = regexp.MustCompile(`(\d)\s+bhk`)

func extractPropertyType(text string) *string {
	text = spacedBHK.ReplaceAllString(text, "${1}bhk")
	for _, p := range propertyTypes {
		if containsAny(text, []string{p.keyword}) {
			return models.String(p.label)
		}
	}
	return nil
}

var purposeSets = []struct {
	purpose  string
	keywords []string
}{
	{models.PurposePersonal, []string{"personal", "live in", "staying", "residence", "home"}},
	{models.PurposeInvestment, []string{"invest", "rental", "return", "income", "flip"}},
}

func extractPurpose(text string) *string {
	for _, set := range purposeSets {
		if containsAny(text, set.keywords) {
			return models.String(set.purpose)
		}
	}
	return nil
}
