package lending

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InstallmentStatus is the derived status of an installment. It is never
// stored; every layer that needs it computes it through Installment.Status
// so the projection has exactly one implementation.
type InstallmentStatus string

const (
	InstallmentStatusUpcoming InstallmentStatus = "UPCOMING"
	InstallmentStatusDueToday InstallmentStatus = "DUE_TODAY"
	InstallmentStatusOverdue  InstallmentStatus = "OVERDUE"
	InstallmentStatusPaid     InstallmentStatus = "PAID"
	InstallmentStatusPaidLate InstallmentStatus = "PAID_LATE"
)

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// Installment is one scheduled due payment within a loan's repayment
// schedule. It is a child entity of the Loan aggregate and is mutated only
// through the aggregate root.
type Installment struct {
	ID            uuid.UUID       `json:"id"`
	LoanID        uuid.UUID       `json:"loan_id"`
	InstallmentNo int             `json:"installment_no"`
	DueDate       time.Time       `json:"due_date"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaidAt        *time.Time      `json:"paid_at"`
}

// Outstanding returns the unpaid portion of the installment, never negative.
func (i *Installment) Outstanding() decimal.Decimal {
	out := i.AmountDue.Sub(i.AmountPaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// IsPaid returns true when the installment is fully covered.
func (i *Installment) IsPaid() bool {
	return i.AmountPaid.GreaterThanOrEqual(i.AmountDue)
}

// Status projects the installment state against a reference date.
// Comparison is by calendar day in the due date's location.
func (i *Installment) Status(today time.Time) InstallmentStatus {
	if i.IsPaid() {
		if i.PaidAt != nil && dateOnly(*i.PaidAt).After(dateOnly(i.DueDate)) {
			return InstallmentStatusPaidLate
		}
		return InstallmentStatusPaid
	}

	due := dateOnly(i.DueDate)
	ref := dateOnly(today.In(i.DueDate.Location()))
	switch {
	case due.Before(ref):
		return InstallmentStatusOverdue
	case due.Equal(ref):
		return InstallmentStatusDueToday
	default:
		return InstallmentStatusUpcoming
	}
}

// applyPayment increases the paid amount. The aggregate root enforces the
// no-overpay invariant before delegating here; this is the last line of
// defence.
func (i *Installment) applyPayment(amount decimal.Decimal, at time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	newPaid := i.AmountPaid.Add(amount)
	if newPaid.GreaterThan(i.AmountDue) {
		return shared.NewDomainError("EXCEEDS_AMOUNT_DUE",
			fmt.Sprintf("Payment of %s would exceed amount due %s on installment %d",
				amount.StringFixed(2), i.AmountDue.StringFixed(2), i.InstallmentNo))
	}
	i.AmountPaid = newPaid
	if i.IsPaid() {
		paidAt := at
		i.PaidAt = &paidAt
	}
	return nil
}

// reversePayment undoes a previously applied amount. PaidAt is cleared when
// the installment drops below fully paid.
func (i *Installment) reversePayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	newPaid := i.AmountPaid.Sub(amount)
	if newPaid.IsNegative() {
		return shared.NewDomainError("EXCEEDS_AMOUNT_PAID",
			fmt.Sprintf("Reversal of %s exceeds amount paid %s on installment %d",
				amount.StringFixed(2), i.AmountPaid.StringFixed(2), i.InstallmentNo))
	}
	i.AmountPaid = newPaid
	if !i.IsPaid() {
		i.PaidAt = nil
	}
	return nil
}

// dateOnly truncates a timestamp to its calendar date, keeping the location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
