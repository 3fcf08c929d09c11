package entities

import "github.com/meridian-advisory/onboard/internal/forms"

// Constructors for new, unsaved entities. Banking-capable types default to
// mirroring the client's primary account, taking a snapshot of its current
// values; the snapshot does not track later edits to the primary account.

func newCore() forms.BusinessCore {
	return forms.BusinessCore{TradingNames: []string{""}}
}

func primarySnapshot(primary forms.BankAccount) forms.EntityBanking {
	return forms.EntityBanking{
		UsePrimaryBanking: true,
		BankName:          primary.BankName,
		AccountName:       primary.AccountName,
		BSB:               primary.BSB,
		AccountNumber:     primary.AccountNumber,
	}
}

// NewSoleTrader builds the singleton sole trader record.
func NewSoleTrader(primary forms.BankAccount) *forms.SoleTrader {
	return &forms.SoleTrader{
		BusinessCore: newCore(),
		Banking:      primarySnapshot(primary),
	}
}

// NewCompany builds a company with default banking and one blank
// trading-name slot.
func NewCompany(primary forms.BankAccount) forms.Company {
	return forms.Company{
		BusinessCore:      newCore(),
		ASICIndustryCodes: []string{""},
		Banking:           primarySnapshot(primary),
	}
}

// NewTrust builds a discretionary trust by default.
func NewTrust(primary forms.BankAccount) forms.Trust {
	return forms.Trust{
		BusinessCore:      newCore(),
		TrustType:         forms.TrustDiscretionary,
		ASICIndustryCodes: []string{""},
		Banking:           primarySnapshot(primary),
	}
}

// NewSMSF builds a fund record. SMSFs must hold their own account, so the
// banking sub-record starts empty with the primary-banking flag off.
func NewSMSF() forms.SMSF {
	return forms.SMSF{
		BusinessCore:      newCore(),
		ASICIndustryCodes: []string{""},
	}
}

// NewPartnership builds a partnership with default banking.
func NewPartnership(primary forms.BankAccount) forms.Partnership {
	return forms.Partnership{
		BusinessCore: newCore(),
		Banking:      primarySnapshot(primary),
	}
}

// NewInvestmentProperty builds a property record; properties carry no
// banking sub-record.
func NewInvestmentProperty() forms.InvestmentProperty {
	return forms.InvestmentProperty{}
}
