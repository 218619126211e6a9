package strategy

import (
	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
)

// NewRegistryWithDefaults creates a registry with the month-to-month, term
// and prepaid policies registered
func NewRegistryWithDefaults(rates contract.Rates) (*PolicyRegistry, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	r := NewPolicyRegistry(rates)

	if err := r.Register(contract.KindMonthToMonth, buildMonthToMonth); err != nil {
		return nil, err
	}
	if err := r.Register(contract.KindTerm, buildTerm); err != nil {
		return nil, err
	}
	if err := r.Register(contract.KindPrepaid, buildPrepaid); err != nil {
		return nil, err
	}

	return r, nil
}

func buildMonthToMonth(terms contract.Terms, rates contract.Rates) (contract.Policy, error) {
	return contract.NewMonthToMonth(terms.Start, rates)
}

func buildTerm(terms contract.Terms, rates contract.Rates) (contract.Policy, error) {
	return contract.NewTerm(terms.Start, terms.End, rates)
}

func buildPrepaid(terms contract.Terms, rates contract.Rates) (contract.Policy, error) {
	return contract.NewPrepaid(terms.Start, terms.TopUp, rates)
}
