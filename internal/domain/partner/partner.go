package partner

import (
	"strings"

	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Partner is a capital investor in the lending pool. The ledger is three
// running totals: contributed capital, withdrawals taken and interest
// generated by the portfolio on the partner's share.
type Partner struct {
	shared.BaseAggregateRoot
	Name              string          `json:"name"`
	Capital           decimal.Decimal `json:"capital"`
	Withdrawals       decimal.Decimal `json:"withdrawals"`
	GeneratedInterest decimal.Decimal `json:"generated_interest"`
	Notes             string          `json:"notes"`
}

// NewPartner creates a partner with an optional opening capital
// contribution.
func NewPartner(name string, openingCapital decimal.Decimal) (*Partner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Partner name is required")
	}
	if openingCapital.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Opening capital cannot be negative")
	}
	return &Partner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Capital:           openingCapital,
		Withdrawals:       decimal.Zero,
		GeneratedInterest: decimal.Zero,
	}, nil
}

// AvailableBalance is what the partner could withdraw right now:
// capital plus accrued interest minus what was already taken out.
func (p *Partner) AvailableBalance() decimal.Decimal {
	return p.Capital.Add(p.GeneratedInterest).Sub(p.Withdrawals)
}

// ContributeCapital adds to the partner's capital total
func (p *Partner) ContributeCapital(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Contribution amount must be positive")
	}
	p.Capital = p.Capital.Add(amount)
	p.IncrementVersion()
	return nil
}

// Withdraw records a withdrawal against the available balance
func (p *Partner) Withdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Withdrawal amount must be positive")
	}
	if amount.GreaterThan(p.AvailableBalance()) {
		return shared.ErrInsufficientCapital
	}
	p.Withdrawals = p.Withdrawals.Add(amount)
	p.IncrementVersion()
	return nil
}

// AccrueInterest credits portfolio interest to the partner's share
func (p *Partner) AccrueInterest(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Interest amount must be positive")
	}
	p.GeneratedInterest = p.GeneratedInterest.Add(amount)
	p.IncrementVersion()
	return nil
}
