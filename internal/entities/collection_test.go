package entities

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/onboard/internal/forms"
)

func TestRemovePreservesSiblings(t *testing.T) {
	primary := forms.BankAccount{BankName: "CBA"}
	list := []forms.Company{NewCompany(primary), NewCompany(primary), NewCompany(primary)}
	list[0].ABN = "11111111111"
	list[1].ABN = "22222222222"
	list[2].ABN = "33333333333"

	got, ok := Remove(list, 1)
	require.True(t, ok)
	require.Len(t, got, 2)
	require.Equal(t, "11111111111", got[0].ABN)
	require.Equal(t, "33333333333", got[1].ABN)
}

func TestRemoveOutOfRange(t *testing.T) {
	list := []forms.Partnership{NewPartnership(forms.BankAccount{})}
	got, ok := Remove(list, 5)
	require.False(t, ok)
	require.Len(t, got, 1)

	got, ok = Remove(list, -1)
	require.False(t, ok)
	require.Len(t, got, 1)
}

func TestUpdateMutatesOnlyTarget(t *testing.T) {
	list := []forms.Trust{NewTrust(forms.BankAccount{}), NewTrust(forms.BankAccount{})}
	ok := Update(list, 1, func(tr *forms.Trust) { tr.TrustType = forms.TrustUnit })
	require.True(t, ok)
	require.Equal(t, forms.TrustDiscretionary, list[0].TrustType)
	require.Equal(t, forms.TrustUnit, list[1].TrustType)
}

func TestListItemFloor(t *testing.T) {
	list := []string{"only"}

	got, ok := RemoveListItem(list, 0)
	require.False(t, ok)
	require.Equal(t, []string{"only"}, got)

	// Refusing again is just as harmless.
	got, ok = RemoveListItem(got, 0)
	require.False(t, ok)
	require.Equal(t, []string{"only"}, got)
}

func TestListItemGrowAndShrink(t *testing.T) {
	list := AddListItem([]string{"Meridian Cafe"})
	require.Equal(t, []string{"Meridian Cafe", ""}, list)

	require.True(t, UpdateListItem(list, 1, "Meridian Catering"))
	require.Equal(t, "Meridian Catering", list[1])

	got, ok := RemoveListItem(list, 0)
	require.True(t, ok)
	require.Equal(t, []string{"Meridian Catering"}, got)
}

func TestNewEntityDefaults(t *testing.T) {
	primary := forms.BankAccount{
		BankName:      "CBA",
		AccountName:   "J Doe",
		BSB:           "063-000",
		AccountNumber: "12345678",
	}

	st := NewSoleTrader(primary)
	require.True(t, st.Banking.UsePrimaryBanking)
	require.Equal(t, "CBA", st.Banking.BankName)
	require.Equal(t, []string{""}, st.TradingNames)
	require.False(t, st.Saved())

	co := NewCompany(primary)
	require.True(t, co.Banking.UsePrimaryBanking)
	require.Equal(t, "063-000", co.Banking.BSB)
	require.Equal(t, []string{""}, co.ASICIndustryCodes)

	tr := NewTrust(primary)
	require.Equal(t, forms.TrustDiscretionary, tr.TrustType)

	// Funds hold their own account: no snapshot, flag off.
	fund := NewSMSF()
	require.False(t, fund.Banking.UsePrimaryBanking)
	require.Empty(t, fund.Banking.BankName)

	prop := NewInvestmentProperty()
	require.False(t, prop.Saved())
}

func TestSnapshotDoesNotTrackPrimaryEdits(t *testing.T) {
	primary := forms.BankAccount{BankName: "CBA", BSB: "063-000"}
	co := NewCompany(primary)

	primary.BankName = "NAB"
	require.Equal(t, "CBA", co.Banking.BankName)
}
