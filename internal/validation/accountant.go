package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-advisory/onboard/internal/forms"
)

// Accountant stages.
const (
	StagePersonal = iota
	StagePassword
	StagePractice
	StageConfirmation
)

var accountantValidator = newAccountantValidator()

func newAccountantValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type personalStage struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,min=8"`
}

type practiceStage struct {
	BusinessName       string `json:"businessName" validate:"required"`
	RegistrationNumber string `json:"registrationNumber" validate:"required,len=8,numeric"`
	BusinessAddress    string `json:"businessAddress" validate:"required"`
	City               string `json:"city" validate:"required"`
	State              string `json:"state" validate:"required,oneof=ACT NSW NT QLD SA TAS VIC WA"`
	Postcode           string `json:"postcode" validate:"required,len=4,numeric"`
}

var stageMessages = map[string]string{
	"firstName":          "First name is required",
	"lastName":           "Last name is required",
	"email":              "A valid email is required",
	"phone":              "Phone number is too short",
	"businessName":       "Business name is required",
	"registrationNumber": "Registration number must be 8 digits",
	"businessAddress":    "Business address is required",
	"city":               "City is required",
	"state":              "Select a state",
	"postcode":           "Postcode must be 4 digits",
}

var (
	pwLower   = regexp.MustCompile(`[a-z]`)
	pwUpper   = regexp.MustCompile(`[A-Z]`)
	pwDigit   = regexp.MustCompile(`[0-9]`)
	pwSpecial = regexp.MustCompile(`[@$!%*?&]`)
)

// ValidateAccountantStage returns the field errors for one accountant
// wizard stage. Mirrors the character-class rules the core API enforces so
// the user sees failures before the single deferred submission.
func ValidateAccountantStage(stage int, f *forms.AccountantFormData) map[string]string {
	errs := make(map[string]string)
	switch stage {
	case StagePersonal:
		collectStructErrors(personalStage{
			FirstName: strings.TrimSpace(f.FirstName),
			LastName:  strings.TrimSpace(f.LastName),
			Email:     strings.TrimSpace(f.Email),
			Phone:     strings.TrimSpace(f.Phone),
		}, errs)
	case StagePassword:
		validatePassword(f, errs)
	case StagePractice:
		collectStructErrors(practiceStage{
			BusinessName:       strings.TrimSpace(f.BusinessName),
			RegistrationNumber: strings.TrimSpace(f.RegistrationNumber),
			BusinessAddress:    strings.TrimSpace(f.BusinessAddress),
			City:               strings.TrimSpace(f.City),
			State:              f.State,
			Postcode:           strings.TrimSpace(f.Postcode),
		}, errs)
	}
	return errs
}

func collectStructErrors(s any, errs map[string]string) {
	err := accountantValidator.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["general"] = "Please check the highlighted fields"
		return
	}
	for _, fe := range fieldErrs {
		if msg, ok := stageMessages[fe.Field()]; ok {
			errs[fe.Field()] = msg
		} else {
			errs[fe.Field()] = "Invalid value"
		}
	}
}

func validatePassword(f *forms.AccountantFormData, errs map[string]string) {
	pw := f.Password
	switch {
	case len(pw) < 8:
		errs["password"] = "Password must be at least 8 characters"
	case len(pw) > 100:
		errs["password"] = "Password must not exceed 100 characters"
	case !pwLower.MatchString(pw):
		errs["password"] = "Password needs a lowercase letter"
	case !pwUpper.MatchString(pw):
		errs["password"] = "Password needs an uppercase letter"
	case !pwDigit.MatchString(pw):
		errs["password"] = "Password needs a digit"
	case !pwSpecial.MatchString(pw):
		errs["password"] = "Password needs one of @$!%*?&"
	}
	if f.ConfirmPassword != pw {
		errs["confirmPassword"] = "Passwords do not match"
	}
}
