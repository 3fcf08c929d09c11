// Package banking implements the shared use-primary-vs-own-account toggle
// carried by business entities.
package banking

import "github.com/meridian-advisory/onboard/internal/forms"

// SetMode switches an entity between mirroring the client's primary
// account and holding its own. Switching to primary copies the four
// account fields at that moment; the entity does not track later edits to
// the primary account. Switching away clears all four fields so the user
// must enter distinct values.
func SetMode(b *forms.EntityBanking, primary forms.BankAccount, usePrimary bool) {
	b.UsePrimaryBanking = usePrimary
	if usePrimary {
		copyPrimary(b, primary)
		return
	}
	b.BankName = ""
	b.AccountName = ""
	b.BSB = ""
	b.AccountNumber = ""
}

// Repair performs the lazy copy for entities created before the primary
// account was filled in: the flag is set but the snapshot is still blank.
func Repair(b *forms.EntityBanking, primary forms.BankAccount) {
	if b.UsePrimaryBanking && b.BankName == "" {
		copyPrimary(b, primary)
	}
}

func copyPrimary(b *forms.EntityBanking, primary forms.BankAccount) {
	b.BankName = primary.BankName
	b.AccountName = primary.AccountName
	b.BSB = primary.BSB
	b.AccountNumber = primary.AccountNumber
}
