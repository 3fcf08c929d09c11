// Package review flattens the collected wizard data into labeled sections
// for the read-only confirmation page shown before final submission.
package review

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/meridian-advisory/onboard/internal/forms"
)

// Row is one label/value pair on the confirmation page.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section groups rows under a heading.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

var printer = message.NewPrinter(language.English)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Money renders a raw purchase-value input as grouped dollars, falling
// back to the raw text when it does not parse.
func Money(raw string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(raw), "$"), ",", ""))
	if cleaned == "" {
		return ""
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return raw
	}
	return printer.Sprintf("$%v", number.Decimal(d.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func addRow(rows []Row, label, value string) []Row {
	if strings.TrimSpace(value) == "" {
		return rows
	}
	return append(rows, Row{Label: label, Value: value})
}

// Summarize flattens the full client form for confirmation. Blank
// optionals are skipped; every entity gets its own section with a saved
// marker once it has a server id.
func Summarize(f *forms.ClientFormData) []Section {
	sections := make([]Section, 0, 8)

	personal := []Row{}
	personal = addRow(personal, "First name", f.FirstName)
	personal = addRow(personal, "Middle name", f.MiddleName)
	personal = addRow(personal, "Last name", f.LastName)
	personal = addRow(personal, "Date of birth", f.DOB)
	personal = addRow(personal, "TFN", f.TFN)
	personal = addRow(personal, "Email", f.Email)
	personal = addRow(personal, "Contact number", f.ContactNo)
	sections = append(sections, Section{Title: "Personal details", Rows: personal})

	residency := []Row{}
	residency = addRow(residency, "Residential address", f.AddressResidential)
	residency = addRow(residency, "Postal address", f.AddressPostal)
	residency = addRow(residency, "Residency status", string(f.ResidencyStatus))
	sections = append(sections, Section{Title: "Address & residency", Rows: residency})

	family := []Row{}
	family = addRow(family, "Dependent children", fmt.Sprintf("%d", f.NoOfDependentChildren))
	family = addRow(family, "Spouse name", f.SpouseName)
	family = addRow(family, "Spouse date of birth", f.SpouseDOB)
	sections = append(sections, Section{Title: "Family", Rows: family})

	bankRows := bankingRows(f.Banking.BankName, f.Banking.AccountName, f.Banking.BSB, f.Banking.AccountNumber)
	bankRows = addRow(bankRows, "Account type", string(f.Banking.AccountType))
	sections = append(sections, Section{Title: "Primary banking", Rows: bankRows})

	income := []Row{
		{Label: "Cryptocurrency", Value: yesNo(f.HasCrypto)},
		{Label: "Investment property", Value: yesNo(f.HasInvestmentProperty)},
		{Label: "Stocks", Value: yesNo(f.HasStocks)},
	}
	if f.HasCrypto {
		income = addRow(income, "Crypto type", f.CryptoType)
	}
	sections = append(sections, Section{Title: "Income streams", Rows: income})

	sections = append(sections, entitySections(f)...)

	agreements := []Row{
		{Label: "Terms of engagement", Value: yesNo(f.AgreeToTerms)},
		{Label: "Privacy policy", Value: yesNo(f.AgreeToPrivacy)},
	}
	agreements = addRow(agreements, "Accepted on", f.AgreementsAcceptedDate)
	sections = append(sections, Section{Title: "Agreements", Rows: agreements})

	return sections
}

func bankingRows(bankName, accountName, bsb, accountNumber string) []Row {
	rows := []Row{}
	rows = addRow(rows, "Bank", bankName)
	rows = addRow(rows, "Account name", accountName)
	rows = addRow(rows, "BSB", bsb)
	rows = addRow(rows, "Account number", accountNumber)
	return rows
}

func savedTitle(base string, saved bool) string {
	if saved {
		return base + " (Saved)"
	}
	return base
}

func coreRows(core forms.BusinessCore) []Row {
	rows := []Row{}
	rows = addRow(rows, "ABN", core.ABN)
	rows = append(rows, Row{Label: "GST registered", Value: yesNo(core.GSTRegistered)})
	rows = addRow(rows, "Business address", core.BusinessAddress)
	rows = addRow(rows, "Trading names", strings.Join(nonBlank(core.TradingNames), ", "))
	rows = addRow(rows, "TFN", core.TFN)
	return rows
}

func entityBankingRows(b forms.EntityBanking) []Row {
	if b.UsePrimaryBanking {
		return []Row{{Label: "Banking", Value: "Uses primary account"}}
	}
	return bankingRows(b.BankName, b.AccountName, b.BSB, b.AccountNumber)
}

func nonBlank(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func entitySections(f *forms.ClientFormData) []Section {
	sections := []Section{}

	if st := f.SoleTrader; st != nil {
		rows := coreRows(st.BusinessCore)
		rows = append(rows, entityBankingRows(st.Banking)...)
		sections = append(sections, Section{Title: savedTitle("Sole trader", st.Saved()), Rows: rows})
	}
	for i := range f.Companies {
		c := &f.Companies[i]
		rows := coreRows(c.BusinessCore)
		rows = addRow(rows, "ACN", c.ACN)
		rows = addRow(rows, "Registered address", c.RegisteredAddress)
		rows = addRow(rows, "ASIC industry codes", strings.Join(nonBlank(c.ASICIndustryCodes), ", "))
		rows = append(rows, entityBankingRows(c.Banking)...)
		sections = append(sections, Section{Title: savedTitle(fmt.Sprintf("Company %d", i+1), c.Saved()), Rows: rows})
	}
	for i := range f.Trusts {
		t := &f.Trusts[i]
		rows := coreRows(t.BusinessCore)
		rows = addRow(rows, "Trust type", string(t.TrustType))
		rows = addRow(rows, "Registered address", t.RegisteredAddress)
		rows = addRow(rows, "ASIC industry codes", strings.Join(nonBlank(t.ASICIndustryCodes), ", "))
		rows = append(rows, entityBankingRows(t.Banking)...)
		sections = append(sections, Section{Title: savedTitle(fmt.Sprintf("Trust %d", i+1), t.Saved()), Rows: rows})
	}
	for i := range f.SMSFs {
		s := &f.SMSFs[i]
		rows := coreRows(s.BusinessCore)
		rows = addRow(rows, "Registered address", s.RegisteredAddress)
		rows = addRow(rows, "ASIC industry codes", strings.Join(nonBlank(s.ASICIndustryCodes), ", "))
		rows = append(rows, bankingRows(s.Banking.BankName, s.Banking.AccountName, s.Banking.BSB, s.Banking.AccountNumber)...)
		sections = append(sections, Section{Title: savedTitle(fmt.Sprintf("SMSF %d", i+1), s.Saved()), Rows: rows})
	}
	for i := range f.Partnerships {
		p := &f.Partnerships[i]
		rows := coreRows(p.BusinessCore)
		rows = append(rows, entityBankingRows(p.Banking)...)
		sections = append(sections, Section{Title: savedTitle(fmt.Sprintf("Partnership %d", i+1), p.Saved()), Rows: rows})
	}
	for i := range f.InvestmentProperties {
		p := &f.InvestmentProperties[i]
		rows := []Row{}
		rows = addRow(rows, "Address", p.Address)
		rows = addRow(rows, "Purchase value", Money(p.PurchaseValue))
		rows = addRow(rows, "Mortgage lender", p.MortgageLenderName)
		sections = append(sections, Section{Title: savedTitle(fmt.Sprintf("Investment property %d", i+1), p.Saved()), Rows: rows})
	}
	return sections
}
