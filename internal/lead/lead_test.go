package lead

import (
	"strings"
	"testing"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		info        Info
		wantErr     bool
		errContains string
	}{
		{"valid", Info{Name: "Asha"}, false, ""},
		{"missing name", Info{Phone: "9876543210"}, true, "name is required"},
		{"blank name", Info{Name: "   "}, true, "name is required"},
		{"name too long", Info{Name: strings.Repeat("a", 121)}, true, "name must be at most 120 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.info)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrValidation)
			assert.Contains(t, errors.AsStandard(err).Details, tt.errContains)
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	got := Normalize(Info{Name: "  Asha  "}, "IN", "")

	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, DefaultPhone, got.Phone)
	assert.Equal(t, DefaultSource, got.Source)
	assert.Equal(t, models.IndustryRealEstate, got.Industry)
}

func TestNormalize_ConfiguredDefaultIndustry(t *testing.T) {
	got := Normalize(Info{Name: "Ravi"}, "IN", models.IndustrySoftware)
	assert.Equal(t, models.IndustrySoftware, got.Industry)

	got = Normalize(Info{Name: "Ravi", Industry: "insurance"}, "IN", models.IndustrySoftware)
	assert.Equal(t, "insurance", got.Industry)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		phone  string
		region string
		want   string
	}{
		{"indian mobile", "98765 43210", "IN", "+919876543210"},
		{"default region", "9876543210", "", "+919876543210"},
		{"international input", "+1 650-253-0000", "IN", "+16502530000"},
		{"unparseable kept", "call me", "IN", "call me"},
		{"invalid kept", "12", "IN", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.phone, tt.region))
		})
	}
}

func TestInfo_ToModel(t *testing.T) {
	m := Info{Name: "Asha", Phone: "+919876543210", Source: "Ads", Industry: "software", InitialMessage: "hi"}.ToModel()
	assert.Equal(t, models.Lead{Name: "Asha", Phone: "+919876543210", Source: "Ads", InitialMessage: "hi"}, m)
}
