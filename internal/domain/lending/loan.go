package lending

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/microloan/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LoanStatus represents the lifecycle status of a loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusCompleted LoanStatus = "COMPLETED"
	LoanStatusCancelled LoanStatus = "CANCELLED"
)

// IsValid checks if the loan status is valid
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusCompleted, LoanStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true when no further transition is expected. Completed
// loans can still drop back to active through a receipt void.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusCancelled
}

// String returns the string representation of LoanStatus
func (s LoanStatus) String() string {
	return string(s)
}

// Loan is the aggregate root for a credit and its repayment schedule. All
// installment mutations go through the root so the schedule invariants hold
// as a unit.
type Loan struct {
	shared.BaseAggregateRoot
	LoanNumber        string          `json:"loan_number"`
	ClientID          uuid.UUID       `json:"client_id"`
	Principal         decimal.Decimal `json:"principal"`
	Rate              decimal.Decimal `json:"rate"`
	InstallmentCount  int             `json:"installment_count"`
	Frequency         Frequency       `json:"frequency"`
	StartDate         time.Time       `json:"start_date"`
	AmountToRepay     decimal.Decimal `json:"amount_to_repay"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	Status            LoanStatus      `json:"status"`
	Installments      []Installment   `json:"installments"`
	CancelledAt       *time.Time      `json:"cancelled_at"`
	CancelReason      string          `json:"cancel_reason"`
}

// NewLoan originates a loan: validates the terms, derives the contractual
// totals and generates the full installment schedule.
func NewLoan(loanNumber string, terms LoanTerms, now time.Time) (*Loan, error) {
	loanNumber = strings.TrimSpace(loanNumber)
	if loanNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOAN_NUMBER", "Loan number is required")
	}

	installments, err := GenerateSchedule(terms, now)
	if err != nil {
		return nil, err
	}

	loan := &Loan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LoanNumber:        loanNumber,
		ClientID:          terms.ClientID,
		Principal:         terms.Principal,
		Rate:              terms.Rate,
		InstallmentCount:  terms.InstallmentCount,
		Frequency:         terms.Frequency,
		StartDate:         atNoon(terms.StartDate),
		AmountToRepay:     terms.AmountToRepay(),
		InstallmentAmount: valueobject.RoundCents(terms.AmountToRepay().Div(decimal.NewFromInt(int64(terms.InstallmentCount)))),
		Status:            LoanStatusActive,
		Installments:      installments,
	}
	for i := range loan.Installments {
		loan.Installments[i].LoanID = loan.ID
	}

	loan.AddDomainEvent(NewLoanOriginatedEvent(loan))
	return loan, nil
}

// InstallmentByID finds an installment within the schedule.
func (l *Loan) InstallmentByID(id uuid.UUID) *Installment {
	for i := range l.Installments {
		if l.Installments[i].ID == id {
			return &l.Installments[i]
		}
	}
	return nil
}

// OutstandingInstallments returns a copy of the installments that still
// carry an unpaid balance, in schedule order.
func (l *Loan) OutstandingInstallments() []Installment {
	var out []Installment
	for _, inst := range l.Installments {
		if !inst.IsPaid() {
			out = append(out, inst)
		}
	}
	return out
}

// OutstandingAmount is the total unpaid balance across the schedule.
func (l *Loan) OutstandingAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range l.Installments {
		total = total.Add(l.Installments[i].Outstanding())
	}
	return total
}

// PaidAmount is the total collected across the schedule.
func (l *Loan) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range l.Installments {
		total = total.Add(l.Installments[i].AmountPaid)
	}
	return total
}

// ApplyAllocation credits an amount against one installment. The loan must
// be active and the amount may not push the installment past its amount due.
// The loan completes automatically when the last installment is covered.
// The optimistic-lock version is not touched here; a recorded payment moves
// it exactly once via ApplyAllocations, no matter how many installments the
// payment spans.
func (l *Loan) ApplyAllocation(installmentID uuid.UUID, amount decimal.Decimal, paidAt time.Time) error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_LOAN_STATUS",
			fmt.Sprintf("Cannot allocate payment to loan in status %s", l.Status))
	}
	inst := l.InstallmentByID(installmentID)
	if inst == nil {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND",
			fmt.Sprintf("Installment %s does not belong to loan %s", installmentID, l.LoanNumber))
	}
	if err := inst.applyPayment(amount, paidAt); err != nil {
		return err
	}
	if l.allPaid() {
		l.Status = LoanStatusCompleted
		l.AddDomainEvent(NewLoanCompletedEvent(l))
	}
	return nil
}

// ApplyAllocations applies a full allocation plan as one logical change:
// every entry is credited and the version moves by exactly one step, so the
// save predicate still matches the row the plan was computed against.
func (l *Loan) ApplyAllocations(entries []AllocationPlanEntry, paidAt time.Time) error {
	for _, entry := range entries {
		if err := l.ApplyAllocation(entry.InstallmentID, entry.Amount, paidAt); err != nil {
			return err
		}
	}
	l.IncrementVersion()
	return nil
}

// ReverseAllocation undoes a previously applied allocation, used when a
// receipt is voided. A completed loan drops back to active when an
// installment reopens. Like ApplyAllocation, this leaves the version alone;
// a void moves it once via ReverseAllocations.
func (l *Loan) ReverseAllocation(installmentID uuid.UUID, amount decimal.Decimal) error {
	if l.Status == LoanStatusCancelled {
		return shared.NewDomainError("INVALID_LOAN_STATUS", "Cannot reverse allocations on a cancelled loan")
	}
	inst := l.InstallmentByID(installmentID)
	if inst == nil {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND",
			fmt.Sprintf("Installment %s does not belong to loan %s", installmentID, l.LoanNumber))
	}
	if err := inst.reversePayment(amount); err != nil {
		return err
	}
	if l.Status == LoanStatusCompleted && !l.allPaid() {
		l.Status = LoanStatusActive
	}
	return nil
}

// ReverseAllocations reverses a receipt's allocations as one logical change
// with a single version step. Callers pass the allocations in reverse
// application order.
func (l *Loan) ReverseAllocations(allocs []InstallmentAllocation) error {
	for _, alloc := range allocs {
		if err := l.ReverseAllocation(alloc.InstallmentID, alloc.Amount); err != nil {
			return err
		}
	}
	l.IncrementVersion()
	return nil
}

// Cancel marks the loan as cancelled/defaulted. Manual operation; the
// schedule is kept as-is for the historical record.
func (l *Loan) Cancel(reason string, now time.Time) error {
	if l.Status == LoanStatusCancelled {
		return shared.NewDomainError("INVALID_LOAN_STATUS", "Loan is already cancelled")
	}
	if l.Status == LoanStatusCompleted {
		return shared.NewDomainError("INVALID_LOAN_STATUS", "Cannot cancel a completed loan")
	}
	cancelledAt := now
	l.Status = LoanStatusCancelled
	l.CancelledAt = &cancelledAt
	l.CancelReason = strings.TrimSpace(reason)
	l.IncrementVersion()
	l.AddDomainEvent(NewLoanCancelledEvent(l, l.CancelReason))
	return nil
}

func (l *Loan) allPaid() bool {
	for i := range l.Installments {
		if !l.Installments[i].IsPaid() {
			return false
		}
	}
	return true
}
