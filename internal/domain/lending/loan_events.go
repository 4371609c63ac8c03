package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Loan event types
const (
	EventTypeLoanOriginated = "loan.originated"
	EventTypeLoanCompleted  = "loan.completed"
	EventTypeLoanCancelled  = "loan.cancelled"
)

const aggregateTypeLoan = "Loan"

// LoanOriginatedEvent is raised when a loan is created with its schedule
type LoanOriginatedEvent struct {
	shared.BaseDomainEvent
	LoanNumber       string          `json:"loan_number"`
	ClientID         uuid.UUID       `json:"client_id"`
	Principal        decimal.Decimal `json:"principal"`
	AmountToRepay    decimal.Decimal `json:"amount_to_repay"`
	InstallmentCount int             `json:"installment_count"`
	Frequency        Frequency       `json:"frequency"`
	StartDate        time.Time       `json:"start_date"`
}

// NewLoanOriginatedEvent creates a new loan originated event
func NewLoanOriginatedEvent(loan *Loan) *LoanOriginatedEvent {
	return &LoanOriginatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLoanOriginated, aggregateTypeLoan, loan.ID),
		LoanNumber:       loan.LoanNumber,
		ClientID:         loan.ClientID,
		Principal:        loan.Principal,
		AmountToRepay:    loan.AmountToRepay,
		InstallmentCount: loan.InstallmentCount,
		Frequency:        loan.Frequency,
		StartDate:        loan.StartDate,
	}
}

// LoanCompletedEvent is raised when the last installment is fully paid
type LoanCompletedEvent struct {
	shared.BaseDomainEvent
	LoanNumber string    `json:"loan_number"`
	ClientID   uuid.UUID `json:"client_id"`
}

// NewLoanCompletedEvent creates a new loan completed event
func NewLoanCompletedEvent(loan *Loan) *LoanCompletedEvent {
	return &LoanCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanCompleted, aggregateTypeLoan, loan.ID),
		LoanNumber:      loan.LoanNumber,
		ClientID:        loan.ClientID,
	}
}

// LoanCancelledEvent is raised when a loan is manually cancelled/defaulted
type LoanCancelledEvent struct {
	shared.BaseDomainEvent
	LoanNumber  string          `json:"loan_number"`
	ClientID    uuid.UUID       `json:"client_id"`
	Reason      string          `json:"reason"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewLoanCancelledEvent creates a new loan cancelled event
func NewLoanCancelledEvent(loan *Loan, reason string) *LoanCancelledEvent {
	return &LoanCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanCancelled, aggregateTypeLoan, loan.ID),
		LoanNumber:      loan.LoanNumber,
		ClientID:        loan.ClientID,
		Reason:          reason,
		Outstanding:     loan.OutstandingAmount(),
	}
}
