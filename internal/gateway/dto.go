package gateway

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridian-advisory/onboard/internal/forms"
)

// DTO shaping rules: strings are trimmed, blank optionals become JSON null,
// fixed-length numeric identifiers are parsed to integers, money values to
// decimals, and blank slots are filtered out of string lists. The backend
// treats repeat POSTs of the same step as overwrites, so payloads carry the
// client identifier on every step after the first.

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func numericID(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func serverID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func money(s string) *decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", ""))
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func filterBlank(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type personalInfoDTO struct {
	ClientID   *int64  `json:"clientId"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   string  `json:"lastName"`
	DOB        *string `json:"dob"`
	TFN        *int64  `json:"tfn"`
	Email      string  `json:"email"`
	ContactNo  *string `json:"contactNo"`
}

type addressResidencyDTO struct {
	ClientID           *int64  `json:"clientId"`
	AddressResidential *string `json:"addressResidential"`
	AddressPostal      *string `json:"addressPostal"`
	ResidencyStatus    string  `json:"residencyStatus"`
}

type familyDetailsDTO struct {
	ClientID              *int64  `json:"clientId"`
	NoOfDependentChildren int     `json:"noOfDependentChildren"`
	SpouseName            *string `json:"spouseName"`
	SpouseDOB             *string `json:"spouseDob"`
}

type incomeStreamDTO struct {
	ClientID              *int64  `json:"clientId"`
	HasCrypto             bool    `json:"hasCrypto"`
	CryptoType            *string `json:"cryptoType"`
	HasInvestmentProperty bool    `json:"hasInvestmentProperty"`
	HasStocks             bool    `json:"hasStocks"`
	BankName              *string `json:"bankName"`
	AccountName           *string `json:"accountName"`
	BSB                   *string `json:"bsb"`
	AccountNumber         *string `json:"accountNumber"`
	AccountType           *string `json:"accountType"`
}

type agreementsDTO struct {
	ClientID               *int64  `json:"clientId"`
	AgreeToTerms           bool    `json:"agreeToTerms"`
	AgreeToPrivacy         bool    `json:"agreeToPrivacy"`
	AgreementsAcceptedDate *string `json:"agreementsAcceptedDate"`
}

type entityBankingDTO struct {
	UsePrimaryBanking bool    `json:"usePrimaryBanking"`
	BankName          *string `json:"bankName"`
	AccountName       *string `json:"accountName"`
	BSB               *string `json:"bsb"`
	AccountNumber     *string `json:"accountNumber"`
}

// businessEntityDTO covers sole trader, company, trust, SMSF and
// partnership; type-specific fields are omitted where absent since each
// variant has its own endpoint.
type businessEntityDTO struct {
	ID                *int64            `json:"id"`
	ClientID          *int64            `json:"clientId"`
	ABN               *int64            `json:"abn"`
	GSTRegistered     bool              `json:"gstRegistered"`
	BusinessAddress   *string           `json:"businessAddress"`
	TradingNames      []string          `json:"tradingNames"`
	TFN               *int64            `json:"tfn"`
	ACN               *int64            `json:"acn,omitempty"`
	TrustType         *string           `json:"trustType,omitempty"`
	RegisteredAddress *string           `json:"registeredAddress,omitempty"`
	ASICIndustryCodes []string          `json:"asicIndustryCodes,omitempty"`
	Banking           *entityBankingDTO `json:"banking,omitempty"`
}

type investmentPropertyDTO struct {
	ID                 *int64           `json:"id"`
	ClientID           *int64           `json:"clientId"`
	Address            string           `json:"address"`
	PurchaseValue      *decimal.Decimal `json:"purchaseValue"`
	MortgageLenderName *string          `json:"mortgageLenderName"`
}

type businessEntitiesStepDTO struct {
	ClientID             *int64                  `json:"clientId"`
	SoleTrader           *businessEntityDTO      `json:"soleTrader"`
	Companies            []businessEntityDTO     `json:"companies"`
	Trusts               []businessEntityDTO     `json:"trusts"`
	SMSFs                []businessEntityDTO     `json:"smsfs"`
	Partnerships         []businessEntityDTO     `json:"partnerships"`
	InvestmentProperties []investmentPropertyDTO `json:"investmentProperties"`
}

type registerClientDTO struct {
	ClientID   *int64  `json:"clientId"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   string  `json:"lastName"`
	DOB        *string `json:"dob"`
	TFN        *int64  `json:"tfn"`
	Email      string  `json:"email"`
	ContactNo  *string `json:"contactNo"`

	AddressResidential *string `json:"addressResidential"`
	AddressPostal      *string `json:"addressPostal"`
	ResidencyStatus    string  `json:"residencyStatus"`

	NoOfDependentChildren int     `json:"noOfDependentChildren"`
	SpouseName            *string `json:"spouseName"`
	SpouseDOB             *string `json:"spouseDob"`

	HasCrypto             bool    `json:"hasCrypto"`
	CryptoType            *string `json:"cryptoType"`
	HasInvestmentProperty bool    `json:"hasInvestmentProperty"`
	HasStocks             bool    `json:"hasStocks"`

	BankName      *string `json:"bankName"`
	AccountName   *string `json:"accountName"`
	BSB           *string `json:"bsb"`
	AccountNumber *string `json:"accountNumber"`
	AccountType   *string `json:"accountType"`

	AgreeToTerms       bool    `json:"agreeToTerms"`
	AgreeToPrivacy     bool    `json:"agreeToPrivacy"`
	AgreementsAccepted *string `json:"agreementsAcceptedDate"`

	SoleTrader           *businessEntityDTO      `json:"soleTrader"`
	Companies            []businessEntityDTO     `json:"companies"`
	Trusts               []businessEntityDTO     `json:"trusts"`
	SMSFs                []businessEntityDTO     `json:"smsfs"`
	Partnerships         []businessEntityDTO     `json:"partnerships"`
	InvestmentProperties []investmentPropertyDTO `json:"investmentProperties"`
}

type accountantDTO struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Password           string `json:"password"`
	BusinessName       string `json:"businessName"`
	RegistrationNumber string `json:"registrationNumber"`
	BusinessAddress    string `json:"businessAddress"`
	City               string `json:"city"`
	State              string `json:"state"`
	Postcode           string `json:"postcode"`
}

type provisionDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type verificationSessionDTO struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func buildPersonalInfo(f *forms.ClientFormData) personalInfoDTO {
	return personalInfoDTO{
		ClientID:   serverID(f.ClientID),
		FirstName:  strings.TrimSpace(f.FirstName),
		MiddleName: optional(f.MiddleName),
		LastName:   strings.TrimSpace(f.LastName),
		DOB:        optional(f.DOB),
		TFN:        numericID(f.TFN),
		Email:      strings.TrimSpace(f.Email),
		ContactNo:  optional(f.ContactNo),
	}
}

func buildAddressResidency(f *forms.ClientFormData) addressResidencyDTO {
	return addressResidencyDTO{
		ClientID:           serverID(f.ClientID),
		AddressResidential: optional(f.AddressResidential),
		AddressPostal:      optional(f.AddressPostal),
		ResidencyStatus:    string(f.ResidencyStatus),
	}
}

func buildFamilyDetails(f *forms.ClientFormData) familyDetailsDTO {
	children := f.NoOfDependentChildren
	if children < 0 {
		children = 0
	}
	return familyDetailsDTO{
		ClientID:              serverID(f.ClientID),
		NoOfDependentChildren: children,
		SpouseName:            optional(f.SpouseName),
		SpouseDOB:             optional(f.SpouseDOB),
	}
}

func buildIncomeStream(f *forms.ClientFormData) incomeStreamDTO {
	dto := incomeStreamDTO{
		ClientID:              serverID(f.ClientID),
		HasCrypto:             f.HasCrypto,
		HasInvestmentProperty: f.HasInvestmentProperty,
		HasStocks:             f.HasStocks,
		BankName:              optional(f.Banking.BankName),
		AccountName:           optional(f.Banking.AccountName),
		BSB:                   optional(f.Banking.BSB),
		AccountNumber:         optional(f.Banking.AccountNumber),
		AccountType:           optional(string(f.Banking.AccountType)),
	}
	if f.HasCrypto {
		dto.CryptoType = optional(f.CryptoType)
	}
	return dto
}

func buildAgreements(f *forms.ClientFormData) agreementsDTO {
	return agreementsDTO{
		ClientID:               serverID(f.ClientID),
		AgreeToTerms:           f.AgreeToTerms,
		AgreeToPrivacy:         f.AgreeToPrivacy,
		AgreementsAcceptedDate: optional(f.AgreementsAcceptedDate),
	}
}

func buildEntityBanking(b forms.EntityBanking) *entityBankingDTO {
	return &entityBankingDTO{
		UsePrimaryBanking: b.UsePrimaryBanking,
		BankName:          optional(b.BankName),
		AccountName:       optional(b.AccountName),
		BSB:               optional(b.BSB),
		AccountNumber:     optional(b.AccountNumber),
	}
}

func buildCoreEntity(core forms.BusinessCore, clientID int64) businessEntityDTO {
	return businessEntityDTO{
		ID:              serverID(core.ID),
		ClientID:        serverID(clientID),
		ABN:             numericID(core.ABN),
		GSTRegistered:   core.GSTRegistered,
		BusinessAddress: optional(core.BusinessAddress),
		TradingNames:    filterBlank(core.TradingNames),
		TFN:             numericID(core.TFN),
	}
}

func buildSoleTrader(st *forms.SoleTrader, clientID int64) businessEntityDTO {
	dto := buildCoreEntity(st.BusinessCore, clientID)
	dto.Banking = buildEntityBanking(st.Banking)
	return dto
}

func buildCompany(c *forms.Company, clientID int64) businessEntityDTO {
	dto := buildCoreEntity(c.BusinessCore, clientID)
	dto.ACN = numericID(c.ACN)
	dto.RegisteredAddress = optional(c.RegisteredAddress)
	dto.ASICIndustryCodes = filterBlank(c.ASICIndustryCodes)
	dto.Banking = buildEntityBanking(c.Banking)
	return dto
}

func buildTrust(t *forms.Trust, clientID int64) businessEntityDTO {
	dto := buildCoreEntity(t.BusinessCore, clientID)
	dto.TrustType = optional(string(t.TrustType))
	dto.RegisteredAddress = optional(t.RegisteredAddress)
	dto.ASICIndustryCodes = filterBlank(t.ASICIndustryCodes)
	dto.Banking = buildEntityBanking(t.Banking)
	return dto
}

func buildSMSF(s *forms.SMSF, clientID int64) businessEntityDTO {
	dto := buildCoreEntity(s.BusinessCore, clientID)
	dto.RegisteredAddress = optional(s.RegisteredAddress)
	dto.ASICIndustryCodes = filterBlank(s.ASICIndustryCodes)
	dto.Banking = buildEntityBanking(s.Banking)
	return dto
}

func buildPartnership(p *forms.Partnership, clientID int64) businessEntityDTO {
	dto := buildCoreEntity(p.BusinessCore, clientID)
	dto.Banking = buildEntityBanking(p.Banking)
	return dto
}

func buildInvestmentProperty(p *forms.InvestmentProperty, clientID int64) investmentPropertyDTO {
	return investmentPropertyDTO{
		ID:                 serverID(p.ID),
		ClientID:           serverID(clientID),
		Address:            strings.TrimSpace(p.Address),
		PurchaseValue:      money(p.PurchaseValue),
		MortgageLenderName: optional(p.MortgageLenderName),
	}
}

func buildBusinessEntitiesStep(f *forms.ClientFormData) businessEntitiesStepDTO {
	dto := businessEntitiesStepDTO{
		ClientID:             serverID(f.ClientID),
		Companies:            make([]businessEntityDTO, 0, len(f.Companies)),
		Trusts:               make([]businessEntityDTO, 0, len(f.Trusts)),
		SMSFs:                make([]businessEntityDTO, 0, len(f.SMSFs)),
		Partnerships:         make([]businessEntityDTO, 0, len(f.Partnerships)),
		InvestmentProperties: make([]investmentPropertyDTO, 0, len(f.InvestmentProperties)),
	}
	if f.SoleTrader != nil {
		st := buildSoleTrader(f.SoleTrader, f.ClientID)
		dto.SoleTrader = &st
	}
	for i := range f.Companies {
		dto.Companies = append(dto.Companies, buildCompany(&f.Companies[i], f.ClientID))
	}
	for i := range f.Trusts {
		dto.Trusts = append(dto.Trusts, buildTrust(&f.Trusts[i], f.ClientID))
	}
	for i := range f.SMSFs {
		dto.SMSFs = append(dto.SMSFs, buildSMSF(&f.SMSFs[i], f.ClientID))
	}
	for i := range f.Partnerships {
		dto.Partnerships = append(dto.Partnerships, buildPartnership(&f.Partnerships[i], f.ClientID))
	}
	for i := range f.InvestmentProperties {
		dto.InvestmentProperties = append(dto.InvestmentProperties, buildInvestmentProperty(&f.InvestmentProperties[i], f.ClientID))
	}
	return dto
}

func buildRegisterClient(f *forms.ClientFormData) registerClientDTO {
	personal := buildPersonalInfo(f)
	income := buildIncomeStream(f)
	family := buildFamilyDetails(f)
	ents := buildBusinessEntitiesStep(f)
	return registerClientDTO{
		ClientID:   personal.ClientID,
		FirstName:  personal.FirstName,
		MiddleName: personal.MiddleName,
		LastName:   personal.LastName,
		DOB:        personal.DOB,
		TFN:        personal.TFN,
		Email:      personal.Email,
		ContactNo:  personal.ContactNo,

		AddressResidential: optional(f.AddressResidential),
		AddressPostal:      optional(f.AddressPostal),
		ResidencyStatus:    string(f.ResidencyStatus),

		NoOfDependentChildren: family.NoOfDependentChildren,
		SpouseName:            family.SpouseName,
		SpouseDOB:             family.SpouseDOB,

		HasCrypto:             income.HasCrypto,
		CryptoType:            income.CryptoType,
		HasInvestmentProperty: income.HasInvestmentProperty,
		HasStocks:             income.HasStocks,

		BankName:      income.BankName,
		AccountName:   income.AccountName,
		BSB:           income.BSB,
		AccountNumber: income.AccountNumber,
		AccountType:   income.AccountType,

		AgreeToTerms:       f.AgreeToTerms,
		AgreeToPrivacy:     f.AgreeToPrivacy,
		AgreementsAccepted: optional(f.AgreementsAcceptedDate),

		SoleTrader:           ents.SoleTrader,
		Companies:            ents.Companies,
		Trusts:               ents.Trusts,
		SMSFs:                ents.SMSFs,
		Partnerships:         ents.Partnerships,
		InvestmentProperties: ents.InvestmentProperties,
	}
}

func buildAccountant(f *forms.AccountantFormData) accountantDTO {
	return accountantDTO{
		FirstName:          strings.TrimSpace(f.FirstName),
		LastName:           strings.TrimSpace(f.LastName),
		Email:              strings.TrimSpace(f.Email),
		Phone:              strings.TrimSpace(f.Phone),
		Password:           f.Password,
		BusinessName:       strings.TrimSpace(f.BusinessName),
		RegistrationNumber: strings.TrimSpace(f.RegistrationNumber),
		BusinessAddress:    strings.TrimSpace(f.BusinessAddress),
		City:               strings.TrimSpace(f.City),
		State:              f.State,
		Postcode:           strings.TrimSpace(f.Postcode),
	}
}
