package finance

import (
	"time"

	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense record event types
const (
	EventTypeExpenseRecordCreated   = "expense_record.created"
	EventTypeExpenseRecordCancelled = "expense_record.cancelled"
)

const aggregateTypeExpenseRecord = "ExpenseRecord"

// ExpenseRecordCreatedEvent is raised when an expense is recorded
type ExpenseRecordCreatedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string          `json:"expense_number"`
	Category      ExpenseCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	IncurredAt    time.Time       `json:"incurred_at"`
}

// NewExpenseRecordCreatedEvent creates a new expense record created event
func NewExpenseRecordCreatedEvent(expense *ExpenseRecord) *ExpenseRecordCreatedEvent {
	return &ExpenseRecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRecordCreated, aggregateTypeExpenseRecord, expense.ID),
		ExpenseNumber:   expense.ExpenseNumber,
		Category:        expense.Category,
		Amount:          expense.Amount,
		PaymentMethod:   expense.PaymentMethod,
		IncurredAt:      expense.IncurredAt,
	}
}

// ExpenseRecordCancelledEvent is raised when an expense is cancelled
type ExpenseRecordCancelledEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string `json:"expense_number"`
	Reason        string `json:"reason"`
}

// NewExpenseRecordCancelledEvent creates a new expense record cancelled event
func NewExpenseRecordCancelledEvent(expense *ExpenseRecord) *ExpenseRecordCancelledEvent {
	return &ExpenseRecordCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRecordCancelled, aggregateTypeExpenseRecord, expense.ID),
		ExpenseNumber:   expense.ExpenseNumber,
		Reason:          expense.CancelReason,
	}
}
