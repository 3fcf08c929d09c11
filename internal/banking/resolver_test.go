package banking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/onboard/internal/forms"
)

var primary = forms.BankAccount{
	BankName:      "CBA",
	AccountName:   "J Doe",
	BSB:           "063-000",
	AccountNumber: "12345678",
}

func TestSetModeCopiesPrimary(t *testing.T) {
	b := forms.EntityBanking{
		BankName:      "NAB",
		AccountName:   "Trading",
		BSB:           "082-001",
		AccountNumber: "99999999",
	}
	SetMode(&b, primary, true)

	require.True(t, b.UsePrimaryBanking)
	require.Equal(t, "CBA", b.BankName)
	require.Equal(t, "J Doe", b.AccountName)
	require.Equal(t, "063-000", b.BSB)
	require.Equal(t, "12345678", b.AccountNumber)
}

func TestSetModeOffClearsFields(t *testing.T) {
	b := forms.EntityBanking{UsePrimaryBanking: true}
	SetMode(&b, primary, true)
	SetMode(&b, primary, false)

	require.False(t, b.UsePrimaryBanking)
	require.Empty(t, b.BankName)
	require.Empty(t, b.AccountName)
	require.Empty(t, b.BSB)
	require.Empty(t, b.AccountNumber)
}

func TestToggleRoundTrip(t *testing.T) {
	// primary -> own -> primary lands back on the primary snapshot.
	b := forms.EntityBanking{}
	SetMode(&b, primary, true)
	snapshot := b

	SetMode(&b, primary, false)
	b.BankName = "NAB"
	SetMode(&b, primary, true)

	require.Equal(t, snapshot, b)
}

func TestRepairFillsBlankSnapshot(t *testing.T) {
	b := forms.EntityBanking{UsePrimaryBanking: true}
	Repair(&b, primary)
	require.Equal(t, "CBA", b.BankName)
	require.Equal(t, "063-000", b.BSB)
}

func TestRepairLeavesOwnAccountAlone(t *testing.T) {
	own := forms.EntityBanking{
		BankName:      "NAB",
		AccountName:   "Trading",
		BSB:           "082-001",
		AccountNumber: "99999999",
	}
	Repair(&own, primary)
	require.Equal(t, "NAB", own.BankName)

	off := forms.EntityBanking{}
	Repair(&off, primary)
	require.Empty(t, off.BankName)
}
