package wizard

import (
	"context"
	"fmt"

	"github.com/meridian-advisory/onboard/internal/banking"
	"github.com/meridian-advisory/onboard/internal/entities"
	"github.com/meridian-advisory/onboard/internal/forms"
	"github.com/meridian-advisory/onboard/internal/gateway"
)

// Entity operations are decoupled from step-level gating: their failures
// surface per-operation and never block navigation.

const (
	ListTradingNames      = "tradingNames"
	ListASICIndustryCodes = "asicIndustryCodes"
)

func busyKey(typ forms.EntityType, index int) string {
	return fmt.Sprintf("%s:%d", typ, index)
}

// AddEntity appends a new entity with type-specific defaults. The sole
// trader is a singleton: adding when one exists is refused.
func (w *ClientWizard) AddEntity(typ forms.EntityType) error {
	primary := w.Form.Banking
	switch typ {
	case forms.EntitySoleTrader:
		if w.Form.SoleTrader != nil {
			return fmt.Errorf("wizard: sole trader already present")
		}
		w.Form.SoleTrader = entities.NewSoleTrader(primary)
	case forms.EntityCompany:
		w.Form.Companies = entities.Add(w.Form.Companies, entities.NewCompany(primary))
	case forms.EntityTrust:
		w.Form.Trusts = entities.Add(w.Form.Trusts, entities.NewTrust(primary))
	case forms.EntitySMSF:
		w.Form.SMSFs = entities.Add(w.Form.SMSFs, entities.NewSMSF())
	case forms.EntityPartnership:
		w.Form.Partnerships = entities.Add(w.Form.Partnerships, entities.NewPartnership(primary))
	case forms.EntityInvestmentProperty:
		w.Form.InvestmentProperties = entities.Add(w.Form.InvestmentProperties, entities.NewInvestmentProperty())
	default:
		return fmt.Errorf("wizard: unknown entity type %q", typ)
	}
	return nil
}

// DiscardEntity drops a local-only entity. Saved entities must go through
// DeleteEntity so the server copy is removed too.
func (w *ClientWizard) DiscardEntity(typ forms.EntityType, index int) error {
	if id, err := w.entityID(typ, index); err != nil {
		return err
	} else if id != 0 {
		return fmt.Errorf("wizard: entity is saved; delete it instead")
	}

	ok := true
	switch typ {
	case forms.EntitySoleTrader:
		w.Form.SoleTrader = nil
	case forms.EntityCompany:
		w.Form.Companies, ok = entities.Remove(w.Form.Companies, index)
	case forms.EntityTrust:
		w.Form.Trusts, ok = entities.Remove(w.Form.Trusts, index)
	case forms.EntitySMSF:
		w.Form.SMSFs, ok = entities.Remove(w.Form.SMSFs, index)
	case forms.EntityPartnership:
		w.Form.Partnerships, ok = entities.Remove(w.Form.Partnerships, index)
	case forms.EntityInvestmentProperty:
		w.Form.InvestmentProperties, ok = entities.Remove(w.Form.InvestmentProperties, index)
	}
	if !ok {
		return fmt.Errorf("wizard: no %s at index %d", typ, index)
	}
	return nil
}

// UpdateEntityField applies one field change to one entity, leaving
// siblings untouched.
func (w *ClientWizard) UpdateEntityField(typ forms.EntityType, index int, field string, value any) error {
	switch typ {
	case forms.EntitySoleTrader:
		if w.Form.SoleTrader == nil {
			return fmt.Errorf("wizard: no sole trader record")
		}
		return w.Form.SoleTrader.SetField(field, value)
	case forms.EntityCompany:
		return updateField(w.Form.Companies, index, typ, field, value)
	case forms.EntityTrust:
		return updateField(w.Form.Trusts, index, typ, field, value)
	case forms.EntitySMSF:
		return updateField(w.Form.SMSFs, index, typ, field, value)
	case forms.EntityPartnership:
		return updateField(w.Form.Partnerships, index, typ, field, value)
	case forms.EntityInvestmentProperty:
		return updateField(w.Form.InvestmentProperties, index, typ, field, value)
	default:
		return fmt.Errorf("wizard: unknown entity type %q", typ)
	}
}

type fieldSettable interface {
	SetField(name string, value any) error
}

func updateField[T any](list []T, index int, typ forms.EntityType, field string, value any) error {
	var err error
	ok := entities.Update(list, index, func(e *T) {
		settable, is := any(e).(fieldSettable)
		if !is {
			err = fmt.Errorf("wizard: %s does not accept field updates", typ)
			return
		}
		err = settable.SetField(field, value)
	})
	if !ok {
		return fmt.Errorf("wizard: no %s at index %d", typ, index)
	}
	return err
}

// SetEntityBankingMode flips an entity between primary and own banking.
// SMSFs and investment properties never offer the shortcut.
func (w *ClientWizard) SetEntityBankingMode(typ forms.EntityType, index int, usePrimary bool) error {
	b, err := w.entityBanking(typ, index)
	if err != nil {
		return err
	}
	banking.SetMode(b, w.Form.Banking, usePrimary)
	return nil
}

// RepairBanking runs the lazy primary-banking copy across every entity
// flagged to mirror the primary account but still holding a blank
// snapshot. Called when a wizard is loaded.
func (w *ClientWizard) RepairBanking() {
	primary := w.Form.Banking
	if w.Form.SoleTrader != nil {
		banking.Repair(&w.Form.SoleTrader.Banking, primary)
	}
	for i := range w.Form.Companies {
		banking.Repair(&w.Form.Companies[i].Banking, primary)
	}
	for i := range w.Form.Trusts {
		banking.Repair(&w.Form.Trusts[i].Banking, primary)
	}
	for i := range w.Form.Partnerships {
		banking.Repair(&w.Form.Partnerships[i].Banking, primary)
	}
}

// AddEntityListItem appends a blank slot to a nested list.
func (w *ClientWizard) AddEntityListItem(typ forms.EntityType, index int, list string) error {
	names, codes, err := w.entityLists(typ, index)
	if err != nil {
		return err
	}
	switch list {
	case ListTradingNames:
		*names = entities.AddListItem(*names)
	case ListASICIndustryCodes:
		if codes == nil {
			return fmt.Errorf("wizard: %s has no %s list", typ, list)
		}
		*codes = entities.AddListItem(*codes)
	default:
		return fmt.Errorf("wizard: unknown list %q", list)
	}
	return nil
}

// UpdateEntityListItem replaces one slot of a nested list.
func (w *ClientWizard) UpdateEntityListItem(typ forms.EntityType, index int, list string, itemIndex int, value string) error {
	names, codes, err := w.entityLists(typ, index)
	if err != nil {
		return err
	}
	var ok bool
	switch list {
	case ListTradingNames:
		ok = entities.UpdateListItem(*names, itemIndex, value)
	case ListASICIndustryCodes:
		if codes == nil {
			return fmt.Errorf("wizard: %s has no %s list", typ, list)
		}
		ok = entities.UpdateListItem(*codes, itemIndex, value)
	default:
		return fmt.Errorf("wizard: unknown list %q", list)
	}
	if !ok {
		return fmt.Errorf("wizard: no item %d in %s", itemIndex, list)
	}
	return nil
}

// RemoveEntityListItem drops one slot of a nested list. A remove that
// would shrink the list below one slot is silently refused: the floor is
// enforced here, not left to UI discipline.
func (w *ClientWizard) RemoveEntityListItem(typ forms.EntityType, index int, list string, itemIndex int) error {
	names, codes, err := w.entityLists(typ, index)
	if err != nil {
		return err
	}
	switch list {
	case ListTradingNames:
		*names, _ = entities.RemoveListItem(*names, itemIndex)
	case ListASICIndustryCodes:
		if codes == nil {
			return fmt.Errorf("wizard: %s has no %s list", typ, list)
		}
		*codes, _ = entities.RemoveListItem(*codes, itemIndex)
	default:
		return fmt.Errorf("wizard: unknown list %q", list)
	}
	return nil
}

// SaveEntity persists one entity through the gateway. Requires the client
// id from the personal-info save (sole trader included), refuses a second
// concurrent save of the same entity, and discards responses whose save
// generation went stale while in flight. On success the server-assigned id
// is written back to the entity.
func (w *ClientWizard) SaveEntity(ctx context.Context, typ forms.EntityType, index int) gateway.Status {
	if w.Form.ClientID == 0 {
		return gateway.Fail("Save your personal details before adding business entities.")
	}
	snapshot, err := w.entitySnapshot(typ, index)
	if err != nil {
		return gateway.Fail(err.Error())
	}

	key := busyKey(typ, index)
	if w.EntityBusy[key] {
		return gateway.Fail("A save for this entity is already in progress.")
	}
	if w.EntityBusy == nil {
		w.EntityBusy = map[string]bool{}
	}
	w.EntityBusy[key] = true
	gen := w.SaveGen

	res := w.gw.SaveBusinessEntity(ctx, typ, snapshot, w.Form.ClientID)

	delete(w.EntityBusy, key)
	if w.SaveGen != gen {
		// The user navigated while the request was in flight; applying
		// the response now could overwrite newer local state.
		return gateway.Fail("The page changed while saving; please check the entity and retry.")
	}
	if !res.Success {
		return res.Status
	}
	if res.ID != 0 {
		w.setEntityID(typ, index, res.ID)
	}
	return res.Status
}

// DeleteEntity removes a saved entity remotely, then locally. Local state
// is untouched when the server call fails.
func (w *ClientWizard) DeleteEntity(ctx context.Context, typ forms.EntityType, index int) gateway.Status {
	id, err := w.entityID(typ, index)
	if err != nil {
		return gateway.Fail(err.Error())
	}
	if id == 0 {
		return gateway.Fail("This entity has not been saved; discard it instead.")
	}

	res := w.gw.DeleteBusinessEntity(ctx, typ, id)
	if !res.Success {
		return res
	}

	switch typ {
	case forms.EntitySoleTrader:
		w.Form.SoleTrader = nil
	case forms.EntityCompany:
		w.Form.Companies, _ = entities.Remove(w.Form.Companies, index)
	case forms.EntityTrust:
		w.Form.Trusts, _ = entities.Remove(w.Form.Trusts, index)
	case forms.EntitySMSF:
		w.Form.SMSFs, _ = entities.Remove(w.Form.SMSFs, index)
	case forms.EntityPartnership:
		w.Form.Partnerships, _ = entities.Remove(w.Form.Partnerships, index)
	case forms.EntityInvestmentProperty:
		w.Form.InvestmentProperties, _ = entities.Remove(w.Form.InvestmentProperties, index)
	}
	return res
}

// entitySnapshot returns a pointer to a copy of the addressed entity for
// the gateway to serialize.
func (w *ClientWizard) entitySnapshot(typ forms.EntityType, index int) (any, error) {
	switch typ {
	case forms.EntitySoleTrader:
		if w.Form.SoleTrader == nil {
			return nil, fmt.Errorf("wizard: no sole trader record")
		}
		st := *w.Form.SoleTrader
		return &st, nil
	case forms.EntityCompany:
		return snapshotAt(w.Form.Companies, index, typ)
	case forms.EntityTrust:
		return snapshotAt(w.Form.Trusts, index, typ)
	case forms.EntitySMSF:
		return snapshotAt(w.Form.SMSFs, index, typ)
	case forms.EntityPartnership:
		return snapshotAt(w.Form.Partnerships, index, typ)
	case forms.EntityInvestmentProperty:
		return snapshotAt(w.Form.InvestmentProperties, index, typ)
	default:
		return nil, fmt.Errorf("wizard: unknown entity type %q", typ)
	}
}

func snapshotAt[T any](list []T, index int, typ forms.EntityType) (any, error) {
	item, ok := entities.At(list, index)
	if !ok {
		return nil, fmt.Errorf("wizard: no %s at index %d", typ, index)
	}
	return &item, nil
}

func (w *ClientWizard) entityID(typ forms.EntityType, index int) (int64, error) {
	switch typ {
	case forms.EntitySoleTrader:
		if w.Form.SoleTrader == nil {
			return 0, fmt.Errorf("wizard: no sole trader record")
		}
		return w.Form.SoleTrader.ID, nil
	case forms.EntityCompany:
		if c, ok := entities.At(w.Form.Companies, index); ok {
			return c.ID, nil
		}
	case forms.EntityTrust:
		if t, ok := entities.At(w.Form.Trusts, index); ok {
			return t.ID, nil
		}
	case forms.EntitySMSF:
		if s, ok := entities.At(w.Form.SMSFs, index); ok {
			return s.ID, nil
		}
	case forms.EntityPartnership:
		if p, ok := entities.At(w.Form.Partnerships, index); ok {
			return p.ID, nil
		}
	case forms.EntityInvestmentProperty:
		if p, ok := entities.At(w.Form.InvestmentProperties, index); ok {
			return p.ID, nil
		}
	default:
		return 0, fmt.Errorf("wizard: unknown entity type %q", typ)
	}
	return 0, fmt.Errorf("wizard: no %s at index %d", typ, index)
}

func (w *ClientWizard) setEntityID(typ forms.EntityType, index int, id int64) {
	switch typ {
	case forms.EntitySoleTrader:
		if w.Form.SoleTrader != nil {
			w.Form.SoleTrader.ID = id
		}
	case forms.EntityCompany:
		entities.Update(w.Form.Companies, index, func(c *forms.Company) { c.ID = id })
	case forms.EntityTrust:
		entities.Update(w.Form.Trusts, index, func(t *forms.Trust) { t.ID = id })
	case forms.EntitySMSF:
		entities.Update(w.Form.SMSFs, index, func(s *forms.SMSF) { s.ID = id })
	case forms.EntityPartnership:
		entities.Update(w.Form.Partnerships, index, func(p *forms.Partnership) { p.ID = id })
	case forms.EntityInvestmentProperty:
		entities.Update(w.Form.InvestmentProperties, index, func(p *forms.InvestmentProperty) { p.ID = id })
	}
}

func (w *ClientWizard) entityBanking(typ forms.EntityType, index int) (*forms.EntityBanking, error) {
	switch typ {
	case forms.EntitySoleTrader:
		if w.Form.SoleTrader == nil {
			return nil, fmt.Errorf("wizard: no sole trader record")
		}
		return &w.Form.SoleTrader.Banking, nil
	case forms.EntityCompany:
		if index >= 0 && index < len(w.Form.Companies) {
			return &w.Form.Companies[index].Banking, nil
		}
	case forms.EntityTrust:
		if index >= 0 && index < len(w.Form.Trusts) {
			return &w.Form.Trusts[index].Banking, nil
		}
	case forms.EntityPartnership:
		if index >= 0 && index < len(w.Form.Partnerships) {
			return &w.Form.Partnerships[index].Banking, nil
		}
	case forms.EntitySMSF, forms.EntityInvestmentProperty:
		return nil, fmt.Errorf("wizard: %s does not offer primary banking", typ)
	default:
		return nil, fmt.Errorf("wizard: unknown entity type %q", typ)
	}
	return nil, fmt.Errorf("wizard: no %s at index %d", typ, index)
}

func (w *ClientWizard) entityLists(typ forms.EntityType, index int) (names *[]string, codes *[]string, err error) {
	switch typ {
	case forms.EntitySoleTrader:
		if w.Form.SoleTrader == nil {
			return nil, nil, fmt.Errorf("wizard: no sole trader record")
		}
		return &w.Form.SoleTrader.TradingNames, nil, nil
	case forms.EntityCompany:
		if index >= 0 && index < len(w.Form.Companies) {
			c := &w.Form.Companies[index]
			return &c.TradingNames, &c.ASICIndustryCodes, nil
		}
	case forms.EntityTrust:
		if index >= 0 && index < len(w.Form.Trusts) {
			t := &w.Form.Trusts[index]
			return &t.TradingNames, &t.ASICIndustryCodes, nil
		}
	case forms.EntitySMSF:
		if index >= 0 && index < len(w.Form.SMSFs) {
			s := &w.Form.SMSFs[index]
			return &s.TradingNames, &s.ASICIndustryCodes, nil
		}
	case forms.EntityPartnership:
		if index >= 0 && index < len(w.Form.Partnerships) {
			p := &w.Form.Partnerships[index]
			return &p.TradingNames, nil, nil
		}
	case forms.EntityInvestmentProperty:
		return nil, nil, fmt.Errorf("wizard: %s has no nested lists", typ)
	default:
		return nil, nil, fmt.Errorf("wizard: unknown entity type %q", typ)
	}
	return nil, nil, fmt.Errorf("wizard: no %s at index %d", typ, index)
}
