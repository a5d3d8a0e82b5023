// Package industry holds the read-only industry configurations conversations
// are qualified against.
package industry

import (
	"sort"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/models"
)

type Registry struct {
	configs map[string]models.IndustryConfig
}

// Summary is the listing view of an industry.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewRegistry indexes configs by id. Later configs replace earlier ones with
// the same id.
func NewRegistry(configs ...models.IndustryConfig) *Registry {
	r := &Registry{configs: make(map[string]models.IndustryConfig, len(configs))}
	for _, c := range configs {
		r.configs[c.ID] = clone(c)
	}
	return r
}

func Defaults() []models.IndustryConfig {
	return []models.IndustryConfig{
		{
			ID:                              models.IndustryRealEstate,
			Name:                            "Real Estate",
			QualifyingAreas:                 []string{"location", "propertyType", "budget", "timeline", "purpose"},
			RequiredFieldsForClassification: []string{"location", "budget", "timeline"},
		},
		{
			ID:                              models.IndustrySoftware,
			Name:                            "Software Solutions",
			QualifyingAreas:                 []string{"budget", "timeline", "decisionMaker", "companySize"},
			RequiredFieldsForClassification: []string{"budget", "timeline"},
		},
	}
}

func (r *Registry) Get(id string) (models.IndustryConfig, error) {
	c, ok := r.configs[id]
	if !ok {
		return models.IndustryConfig{}, errors.NewNotFoundError("industry", id)
	}
	return clone(c), nil
}

// List returns every industry sorted by id.
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, Summary{ID: c.ID, Name: c.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Len() int {
	return len(r.configs)
}

func clone(c models.IndustryConfig) models.IndustryConfig {
	c.QualifyingAreas = append([]string(nil), c.QualifyingAreas...)
	c.RequiredFieldsForClassification = append([]string(nil), c.RequiredFieldsForClassification...)
	return c
}
