package models

const (
	IndustryRealEstate = "real_estate"
	IndustrySoftware   = "software"
)

type IndustryConfig struct {
	ID                              string   `json:"id"`
	Name                            string   `json:"name"`
	QualifyingAreas                 []string `json:"qualifyingAreas"`
	RequiredFieldsForClassification []string `json:"requiredFieldsForClassification"`
}
