package forms

import (
	"fmt"
	"strconv"
	"time"
)

// Field coercion helpers. Values arrive from JSON request bodies, so the
// handler has to accept strings, bools and numbers interchangeably where
// the form field allows it.

func asString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("forms: expected string, got %T", v)
	}
}

func asBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return t == "true" || t == "1" || t == "on", nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("forms: expected bool, got %T", v)
	}
}

func asInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		if t == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("forms: expected integer, got %q", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("forms: expected integer, got %T", v)
	}
}

// SetField applies a single field change by JSON name. It is the generic
// change handler behind every client wizard input; unknown names are
// rejected so typos surface in development instead of silently dropping
// keystrokes.
func (f *ClientFormData) SetField(name string, value any) error {
	var err error
	switch name {
	case "firstName":
		f.FirstName, err = asString(value)
	case "middleName":
		f.MiddleName, err = asString(value)
	case "lastName":
		f.LastName, err = asString(value)
	case "dob":
		f.DOB, err = asString(value)
	case "tfn":
		f.TFN, err = asString(value)
	case "email":
		f.Email, err = asString(value)
	case "contactNo":
		f.ContactNo, err = asString(value)
	case "addressResidential":
		f.AddressResidential, err = asString(value)
	case "addressPostal":
		f.AddressPostal, err = asString(value)
	case "residencyStatus":
		var s string
		if s, err = asString(value); err == nil {
			f.ResidencyStatus = ResidencyStatus(s)
		}
	case "noOfDependentChildren":
		var n int
		if n, err = asInt(value); err == nil {
			if n < 0 {
				n = 0
			}
			f.NoOfDependentChildren = n
		}
	case "spouseName":
		f.SpouseName, err = asString(value)
	case "spouseDob":
		f.SpouseDOB, err = asString(value)
	case "bankName":
		f.Banking.BankName, err = asString(value)
	case "accountName":
		f.Banking.AccountName, err = asString(value)
	case "bsb":
		f.Banking.BSB, err = asString(value)
	case "accountNumber":
		f.Banking.AccountNumber, err = asString(value)
	case "accountType":
		var s string
		if s, err = asString(value); err == nil {
			f.Banking.AccountType = AccountType(s)
		}
	case "hasCrypto":
		f.HasCrypto, err = asBool(value)
		if err == nil && !f.HasCrypto {
			f.CryptoType = ""
		}
	case "cryptoType":
		f.CryptoType, err = asString(value)
	case "hasInvestmentProperty":
		f.HasInvestmentProperty, err = asBool(value)
	case "hasStocks":
		f.HasStocks, err = asBool(value)
	case "agreeToTerms":
		f.AgreeToTerms, err = asBool(value)
		f.stampAgreements()
	case "agreeToPrivacy":
		f.AgreeToPrivacy, err = asBool(value)
		f.stampAgreements()
	default:
		return fmt.Errorf("forms: unknown client field %q", name)
	}
	return err
}

// stampAgreements records the acceptance date only once both agreement
// boxes are ticked, and clears it when either is withdrawn.
func (f *ClientFormData) stampAgreements() {
	if f.AgreeToTerms && f.AgreeToPrivacy {
		if f.AgreementsAcceptedDate == "" {
			f.AgreementsAcceptedDate = time.Now().UTC().Format("2006-01-02")
		}
		return
	}
	f.AgreementsAcceptedDate = ""
}

// SetField applies a single accountant field change by JSON name.
func (f *AccountantFormData) SetField(name string, value any) error {
	var err error
	switch name {
	case "firstName":
		f.FirstName, err = asString(value)
	case "lastName":
		f.LastName, err = asString(value)
	case "email":
		f.Email, err = asString(value)
	case "phone":
		f.Phone, err = asString(value)
	case "password":
		f.Password, err = asString(value)
	case "confirmPassword":
		f.ConfirmPassword, err = asString(value)
	case "businessName":
		f.BusinessName, err = asString(value)
	case "registrationNumber":
		f.RegistrationNumber, err = asString(value)
	case "businessAddress":
		f.BusinessAddress, err = asString(value)
	case "city":
		f.City, err = asString(value)
	case "state":
		f.State, err = asString(value)
	case "postcode":
		f.Postcode, err = asString(value)
	default:
		return fmt.Errorf("forms: unknown accountant field %q", name)
	}
	return err
}

func (c *BusinessCore) setCoreField(name string, value any) (bool, error) {
	var err error
	switch name {
	case "abn":
		c.ABN, err = asString(value)
	case "gstRegistered":
		c.GSTRegistered, err = asBool(value)
	case "businessAddress":
		c.BusinessAddress, err = asString(value)
	case "tfn":
		c.TFN, err = asString(value)
	default:
		return false, nil
	}
	return true, err
}

func (b *EntityBanking) setBankingField(name string, value any) (bool, error) {
	var err error
	switch name {
	case "bankName":
		b.BankName, err = asString(value)
	case "accountName":
		b.AccountName, err = asString(value)
	case "bsb":
		b.BSB, err = asString(value)
	case "accountNumber":
		b.AccountNumber, err = asString(value)
	default:
		return false, nil
	}
	return true, err
}

// SetField applies a field change on a sole trader record.
func (s *SoleTrader) SetField(name string, value any) error {
	if ok, err := s.setCoreField(name, value); ok {
		return err
	}
	if ok, err := s.Banking.setBankingField(name, value); ok {
		return err
	}
	return fmt.Errorf("forms: unknown sole trader field %q", name)
}

// SetField applies a field change on a company record.
func (c *Company) SetField(name string, value any) error {
	if ok, err := c.setCoreField(name, value); ok {
		return err
	}
	var err error
	switch name {
	case "acn":
		c.ACN, err = asString(value)
	case "registeredAddress":
		c.RegisteredAddress, err = asString(value)
	default:
		if ok, berr := c.Banking.setBankingField(name, value); ok {
			return berr
		}
		return fmt.Errorf("forms: unknown company field %q", name)
	}
	return err
}

// SetField applies a field change on a trust record.
func (t *Trust) SetField(name string, value any) error {
	if ok, err := t.setCoreField(name, value); ok {
		return err
	}
	var err error
	switch name {
	case "trustType":
		var s string
		if s, err = asString(value); err == nil {
			t.TrustType = TrustType(s)
		}
	case "registeredAddress":
		t.RegisteredAddress, err = asString(value)
	default:
		if ok, berr := t.Banking.setBankingField(name, value); ok {
			return berr
		}
		return fmt.Errorf("forms: unknown trust field %q", name)
	}
	return err
}

// SetField applies a field change on an SMSF record.
func (s *SMSF) SetField(name string, value any) error {
	if ok, err := s.setCoreField(name, value); ok {
		return err
	}
	if name == "registeredAddress" {
		var err error
		s.RegisteredAddress, err = asString(value)
		return err
	}
	if ok, err := s.Banking.setBankingField(name, value); ok {
		return err
	}
	return fmt.Errorf("forms: unknown smsf field %q", name)
}

// SetField applies a field change on a partnership record.
func (p *Partnership) SetField(name string, value any) error {
	if ok, err := p.setCoreField(name, value); ok {
		return err
	}
	if ok, err := p.Banking.setBankingField(name, value); ok {
		return err
	}
	return fmt.Errorf("forms: unknown partnership field %q", name)
}

// SetField applies a field change on an investment property record.
func (p *InvestmentProperty) SetField(name string, value any) error {
	var err error
	switch name {
	case "address":
		p.Address, err = asString(value)
	case "purchaseValue":
		p.PurchaseValue, err = asString(value)
	case "mortgageLenderName":
		p.MortgageLenderName, err = asString(value)
	default:
		return fmt.Errorf("forms: unknown investment property field %q", name)
	}
	return err
}
