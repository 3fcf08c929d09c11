package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/onboard/internal/forms"
)

func TestValidateClientStepIsPure(t *testing.T) {
	form := forms.ClientFormData{FirstName: "Jane", Email: "not-an-email"}
	before := form

	first := ValidateClientStep(1, &form)
	second := ValidateClientStep(1, &form)

	require.Equal(t, first, second)
	require.Equal(t, before, form)

	// The maps are fresh allocations, not shared state.
	first["email"] = "mutated"
	require.NotEqual(t, first["email"], second["email"])
}

func TestValidateStepOne(t *testing.T) {
	tests := []struct {
		name   string
		form   forms.ClientFormData
		fields []string
	}{
		{
			name:   "empty form",
			form:   forms.ClientFormData{},
			fields: []string{"firstName", "lastName", "email"},
		},
		{
			name:   "invalid email",
			form:   forms.ClientFormData{FirstName: "Jane", LastName: "Doe", Email: "not-an-email"},
			fields: []string{"email"},
		},
		{
			name: "whitespace names",
			form: forms.ClientFormData{FirstName: "   ", LastName: "\t", Email: "a@b.co"},
			fields: []string{
				"firstName", "lastName",
			},
		},
		{
			name:   "bad tfn",
			form:   forms.ClientFormData{FirstName: "Jane", LastName: "Doe", Email: "a@b.co", TFN: "12345"},
			fields: []string{"tfn"},
		},
		{
			name:   "valid minimal",
			form:   forms.ClientFormData{FirstName: "Jane", LastName: "Doe", Email: "a@b.co"},
			fields: nil,
		},
		{
			name:   "valid with tfn",
			form:   forms.ClientFormData{FirstName: "Jane", LastName: "Doe", Email: "a@b.co", TFN: "123456789"},
			fields: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateClientStep(1, &tc.form)
			require.Len(t, errs, len(tc.fields))
			for _, field := range tc.fields {
				require.Contains(t, errs, field)
			}
		})
	}
}

func TestValidateStepTwoRequiresResidency(t *testing.T) {
	form := forms.ClientFormData{}
	errs := ValidateClientStep(2, &form)
	require.Contains(t, errs, "residencyStatus")

	form.ResidencyStatus = forms.ResidencyCitizen
	require.Empty(t, ValidateClientStep(2, &form))
}

func TestLaterStepsHaveNoRules(t *testing.T) {
	form := forms.ClientFormData{}
	for step := 3; step <= 7; step++ {
		require.Empty(t, ValidateClientStep(step, &form), "step %d", step)
	}
}
