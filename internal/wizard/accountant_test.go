package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/onboard/internal/forms"
	"github.com/meridian-advisory/onboard/internal/gateway"
	"github.com/meridian-advisory/onboard/internal/validation"
)

type fakeAccountantGateway struct {
	err   string
	calls int
}

func (f *fakeAccountantGateway) RegisterAccountant(context.Context, *forms.AccountantFormData) gateway.Status {
	f.calls++
	if f.err != "" {
		return gateway.Fail(f.err)
	}
	return gateway.OK
}

func filledAccountant(gw AccountantGateway) *AccountantWizard {
	w := NewAccountantWizard(gw)
	w.Form = forms.AccountantFormData{
		FirstName:          "Alex",
		LastName:           "Chen",
		Email:              "alex@practice.com.au",
		Password:           "Password1@",
		ConfirmPassword:    "Password1@",
		BusinessName:       "Chen & Co",
		RegistrationNumber: "12345678",
		BusinessAddress:    "1 Collins St",
		City:               "Melbourne",
		State:              "VIC",
		Postcode:           "3000",
	}
	return w
}

func TestAccountantHappyPath(t *testing.T) {
	gw := &fakeAccountantGateway{}
	w := filledAccountant(gw)
	ctx := context.Background()

	w.GoNext(ctx)
	require.Equal(t, validation.StagePassword, w.Stage)
	require.Zero(t, gw.calls, "registration is deferred until practice details")

	w.GoNext(ctx)
	require.Equal(t, validation.StagePractice, w.Stage)
	require.Zero(t, gw.calls)

	w.GoNext(ctx)
	require.Equal(t, validation.StageConfirmation, w.Stage)
	require.True(t, w.Completed)
	require.Equal(t, 1, gw.calls)

	// The confirmation stage is terminal.
	w.GoNext(ctx)
	require.Equal(t, 1, gw.calls)
	w.GoBack()
	require.Equal(t, validation.StageConfirmation, w.Stage)
	require.ErrorIs(t, w.SetField("firstName", "Sam"), errTerminalStage)
}

func TestAccountantStageValidationBlocks(t *testing.T) {
	gw := &fakeAccountantGateway{}
	w := NewAccountantWizard(gw)

	w.GoNext(context.Background())
	require.Equal(t, validation.StagePersonal, w.Stage)
	require.NotEmpty(t, w.Errors)
	require.Zero(t, gw.calls)
}

func TestAccountantRegisterFailureStaysForRetry(t *testing.T) {
	gw := &fakeAccountantGateway{err: "email already in use"}
	w := filledAccountant(gw)
	w.Stage = validation.StagePractice
	ctx := context.Background()

	w.GoNext(ctx)
	require.Equal(t, validation.StagePractice, w.Stage)
	require.Equal(t, "email already in use", w.Banner)
	require.False(t, w.Completed)

	gw.err = ""
	w.GoNext(ctx)
	require.Equal(t, validation.StageConfirmation, w.Stage)
	require.Empty(t, w.Banner)
	require.Equal(t, 2, gw.calls)
}

func TestAccountantGoBackRules(t *testing.T) {
	w := NewAccountantWizard(&fakeAccountantGateway{})

	w.GoBack()
	require.Equal(t, validation.StagePersonal, w.Stage)

	w.Stage = validation.StagePractice
	w.GoBack()
	require.Equal(t, validation.StagePassword, w.Stage)
	w.GoBack()
	require.Equal(t, validation.StagePersonal, w.Stage)
}

func TestAccountantSetFieldClearsError(t *testing.T) {
	w := NewAccountantWizard(&fakeAccountantGateway{})
	w.GoNext(context.Background())
	require.Contains(t, w.Errors, "email")

	require.NoError(t, w.SetField("email", "alex@practice.com.au"))
	require.NotContains(t, w.Errors, "email")
}
