// Package lead validates and normalizes the lead details a conversation is
// opened with.
package lead

import (
	stderrors "errors"
	"fmt"
	"strings"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const (
	DefaultPhone  = "Not provided"
	DefaultSource = "Direct"
	DefaultRegion = "IN"
)

type Info struct {
	Name           string `json:"name" validate:"required,max=120"`
	Phone          string `json:"phone,omitempty" validate:"max=32"`
	Source         string `json:"source,omitempty" validate:"max=64"`
	Industry       string `json:"industry,omitempty" validate:"max=64"`
	InitialMessage string `json:"initialMessage,omitempty" validate:"max=2000"`
}

var validate = validator.New()

// Validate checks the trimmed input. Failures are reported as validation
// errors naming every offending field.
func Validate(info Info) error {
	trimmed := trim(info)
	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.NewValidationError(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Normalize trims the input and applies the intake defaults. A phone that
// parses as valid for region is rewritten to E.164; anything else is kept as
// given.
func Normalize(info Info, region, defaultIndustry string) Info {
	out := trim(info)
	if out.Phone == "" {
		out.Phone = DefaultPhone
	} else {
		out.Phone = NormalizePhone(out.Phone, region)
	}
	if out.Source == "" {
		out.Source = DefaultSource
	}
	if out.Industry == "" {
		out.Industry = defaultIndustry
	}
	if out.Industry == "" {
		out.Industry = models.IndustryRealEstate
	}
	return out
}

func NormalizePhone(phone, region string) string {
	if region == "" {
		region = DefaultRegion
	}
	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// ToModel drops the intake-only fields.
func (i Info) ToModel() models.Lead {
	return models.Lead{
		Name:           i.Name,
		Phone:          i.Phone,
		Source:         i.Source,
		InitialMessage: i.InitialMessage,
	}
}

func trim(info Info) Info {
	return Info{
		Name:           strings.TrimSpace(info.Name),
		Phone:          strings.TrimSpace(info.Phone),
		Source:         strings.TrimSpace(info.Source),
		Industry:       strings.TrimSpace(info.Industry),
		InitialMessage: strings.TrimSpace(info.InitialMessage),
	}
}
