package industry

import (
	"os"
	"path/filepath"
	"testing"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(Defaults()...)

	cfg, err := r.Get(models.IndustryRealEstate)
	require.NoError(t, err)
	assert.Equal(t, "Real Estate", cfg.Name)

	cfg.QualifyingAreas[0] = "mutated"
	again, err := r.Get(models.IndustryRealEstate)
	require.NoError(t, err)
	assert.Equal(t, "location", again.QualifyingAreas[0])

	_, err = r.Get("aviation")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRegistry_ListIsSorted(t *testing.T) {
	r := NewRegistry(append(Defaults(), models.IndustryConfig{ID: "insurance", Name: "Insurance"})...)
	assert.Equal(t, []Summary{
		{ID: "insurance", Name: "Insurance"},
		{ID: models.IndustryRealEstate, Name: "Real Estate"},
		{ID: models.IndustrySoftware, Name: "Software Solutions"},
	}, r.List())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "insurance.json", `{"name":"Insurance","qualifyingAreas":["budget","timeline"]}`)
	writeFile(t, dir, "cars.json", `{"id":"automotive","name":"Automotive","qualifyingAreas":["budget"],"requiredFieldsForClassification":["budget"]}`)
	writeFile(t, dir, "notes.txt", "ignored")

	configs, err := LoadDir(dir, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "automotive", configs[0].ID)
	assert.Equal(t, "insurance", configs[1].ID)
	assert.Equal(t, []string{"budget", "timeline"}, configs[1].QualifyingAreas)
}

func TestLoadFile_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"qualifyingAreas":[]}`, "name"},
		{"unknown required field", `{"name":"X","qualifyingAreas":[],"requiredFieldsForClassification":["mood"]}`, "requiredFieldsForClassification"},
		{"bad id", `{"id":"Bad Id","name":"X","qualifyingAreas":[]}`, "id"},
		{"not json", `{`, "industry config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "x.json", tt.body)
			_, err := LoadFile(filepath.Join(dir, "x.json"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "real_estate.json", `{"name":"Homes","qualifyingAreas":["location"]}`)

	r, err := Load(dir, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	cfg, err := r.Get(models.IndustryRealEstate)
	require.NoError(t, err)
	assert.Equal(t, "Homes", cfg.Name)

	r, err = Load(filepath.Join(dir, "missing"), logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
}
