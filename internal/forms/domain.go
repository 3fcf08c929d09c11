// Package forms holds the wizard form state for client and accountant
// onboarding. JSON field names mirror the core API contract and must not
// change without a coordinated backend release.
package forms

// ResidencyStatus enumerates Australian residency classifications.
type ResidencyStatus string

const (
	ResidencyCitizen  ResidencyStatus = "CITIZEN"
	ResidencyPR       ResidencyStatus = "PR"
	ResidencyOverseas ResidencyStatus = "OVERSEAS"
)

// AccountType enumerates supported bank account types.
type AccountType string

const (
	AccountSavings     AccountType = "SAVINGS"
	AccountCheque      AccountType = "CHEQUE"
	AccountTransaction AccountType = "TRANSACTION"
	AccountBusiness    AccountType = "BUSINESS"
)

// TrustType enumerates trust structures.
type TrustType string

const (
	TrustDiscretionary TrustType = "DISCRETIONARY"
	TrustUnit          TrustType = "UNIT"
)

// EntityType identifies a business entity variant. Values double as the
// core API path segments for per-entity endpoints.
type EntityType string

const (
	EntitySoleTrader         EntityType = "sole-trader"
	EntityCompany            EntityType = "company"
	EntityTrust              EntityType = "trust"
	EntitySMSF               EntityType = "smsf"
	EntityPartnership        EntityType = "partnership"
	EntityInvestmentProperty EntityType = "investment-property"
)

// EntityTypes lists every variant in display order.
var EntityTypes = []EntityType{
	EntitySoleTrader,
	EntityCompany,
	EntityTrust,
	EntitySMSF,
	EntityPartnership,
	EntityInvestmentProperty,
}

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// BankAccount is the client's primary bank account.
type BankAccount struct {
	BankName      string      `json:"bankName"`
	AccountName   string      `json:"accountName"`
	BSB           string      `json:"bsb"`
	AccountNumber string      `json:"accountNumber"`
	AccountType   AccountType `json:"accountType,omitempty"`
}

// EntityBanking is the banking sub-record carried by business entities.
// When UsePrimaryBanking is set the four account fields hold a copy of the
// client's primary account taken at toggle time; they do not track later
// edits to the primary account.
type EntityBanking struct {
	UsePrimaryBanking bool   `json:"usePrimaryBanking"`
	BankName          string `json:"bankName"`
	AccountName       string `json:"accountName"`
	BSB               string `json:"bsb"`
	AccountNumber     string `json:"accountNumber"`
}

// BusinessCore carries the attributes shared by every business structure.
// ID is zero until the first successful server save.
type BusinessCore struct {
	ID              int64    `json:"id,omitempty"`
	ABN             string   `json:"abn"`
	GSTRegistered   bool     `json:"gstRegistered"`
	BusinessAddress string   `json:"businessAddress"`
	TradingNames    []string `json:"tradingNames"`
	TFN             string   `json:"tfn"`
}

// Saved reports whether the entity has been persisted at least once.
// Remote deletion is only permitted for saved entities.
func (c BusinessCore) Saved() bool { return c.ID != 0 }

// SoleTrader is a singleton business structure: a client has zero or one.
type SoleTrader struct {
	BusinessCore
	Banking EntityBanking `json:"banking"`
}

// Company is an incorporated business structure.
type Company struct {
	BusinessCore
	ACN               string        `json:"acn"`
	RegisteredAddress string        `json:"registeredAddress"`
	ASICIndustryCodes []string      `json:"asicIndustryCodes"`
	Banking           EntityBanking `json:"banking"`
}

// Trust is a trust structure with a discretionary or unit deed.
type Trust struct {
	BusinessCore
	TrustType         TrustType     `json:"trustType"`
	RegisteredAddress string        `json:"registeredAddress"`
	ASICIndustryCodes []string      `json:"asicIndustryCodes"`
	Banking           EntityBanking `json:"banking"`
}

// SMSF is a self-managed superannuation fund. The fund must hold its own
// bank account, so the dedicated entity flow never offers the
// primary-banking shortcut even though the data shape carries the flag.
type SMSF struct {
	BusinessCore
	RegisteredAddress string        `json:"registeredAddress"`
	ASICIndustryCodes []string      `json:"asicIndustryCodes"`
	Banking           EntityBanking `json:"banking"`
}

// Partnership is an unincorporated partnership structure.
type Partnership struct {
	BusinessCore
	Banking EntityBanking `json:"banking"`
}

// InvestmentProperty is a property holding. It carries no banking
// sub-record. PurchaseValue buffers the raw user input; the gateway parses
// it to a decimal when building the payload.
type InvestmentProperty struct {
	ID                 int64  `json:"id,omitempty"`
	Address            string `json:"address"`
	PurchaseValue      string `json:"purchaseValue"`
	MortgageLenderName string `json:"mortgageLenderName"`
}

// Saved reports whether the property has been persisted at least once.
func (p InvestmentProperty) Saved() bool { return p.ID != 0 }

// ClientFormData is the single source of truth for the client wizard. It is
// created empty (or pre-filled with the logged-in user's email) at wizard
// start, mutated field by field through the session, and discarded once
// registration completes.
type ClientFormData struct {
	// ClientID is assigned by the core API when personal info first saves.
	// Once set it never changes for the session; every entity save is
	// scoped by it.
	ClientID int64 `json:"clientId,omitempty"`

	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	DOB        string `json:"dob"`
	TFN        string `json:"tfn"`
	Email      string `json:"email"`
	ContactNo  string `json:"contactNo"`

	AddressResidential string          `json:"addressResidential"`
	AddressPostal      string          `json:"addressPostal"`
	ResidencyStatus    ResidencyStatus `json:"residencyStatus"`

	NoOfDependentChildren int    `json:"noOfDependentChildren"`
	SpouseName            string `json:"spouseName"`
	SpouseDOB             string `json:"spouseDob"`

	Banking BankAccount `json:"banking"`

	HasCrypto             bool   `json:"hasCrypto"`
	CryptoType            string `json:"cryptoType"`
	HasInvestmentProperty bool   `json:"hasInvestmentProperty"`
	HasStocks             bool   `json:"hasStocks"`

	AgreeToTerms           bool   `json:"agreeToTerms"`
	AgreeToPrivacy         bool   `json:"agreeToPrivacy"`
	AgreementsAcceptedDate string `json:"agreementsAcceptedDate"`

	SoleTrader           *SoleTrader          `json:"soleTrader,omitempty"`
	Companies            []Company            `json:"companies"`
	Trusts               []Trust              `json:"trusts"`
	SMSFs                []SMSF               `json:"smsfs"`
	Partnerships         []Partnership        `json:"partnerships"`
	InvestmentProperties []InvestmentProperty `json:"investmentProperties"`
}

// NewClientFormData returns an empty form, pre-filling the email when the
// user is already signed in.
func NewClientFormData(email string) *ClientFormData {
	return &ClientFormData{Email: email}
}

// AUState enumerates Australian state and territory codes.
var AUStates = []string{"ACT", "NSW", "NT", "QLD", "SA", "TAS", "VIC", "WA"}

// AccountantFormData buffers the entire accountant registration locally;
// it is sent to the core API once, at the transition out of the practice
// details stage.
type AccountantFormData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`

	BusinessName       string `json:"businessName"`
	RegistrationNumber string `json:"registrationNumber"`
	BusinessAddress    string `json:"businessAddress"`
	City               string `json:"city"`
	State              string `json:"state"`
	Postcode           string `json:"postcode"`
}
