package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of an operating expense
type ExpenseCategory string

const (
	ExpenseCategoryRent       ExpenseCategory = "RENT"
	ExpenseCategoryUtilities  ExpenseCategory = "UTILITIES"
	ExpenseCategorySalary     ExpenseCategory = "SALARY"
	ExpenseCategoryOffice     ExpenseCategory = "OFFICE"
	ExpenseCategoryTransport  ExpenseCategory = "TRANSPORT"
	ExpenseCategoryCommission ExpenseCategory = "COMMISSION"
	ExpenseCategoryTax        ExpenseCategory = "TAX"
	ExpenseCategoryOther      ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryRent, ExpenseCategoryUtilities, ExpenseCategorySalary,
		ExpenseCategoryOffice, ExpenseCategoryTransport, ExpenseCategoryCommission,
		ExpenseCategoryTax, ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// PaymentMethod represents how an expense was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ExpenseStatus represents the status of an expense record
type ExpenseStatus string

const (
	ExpenseStatusRecorded  ExpenseStatus = "RECORDED"
	ExpenseStatusCancelled ExpenseStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	return s == ExpenseStatusRecorded || s == ExpenseStatusCancelled
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// ExpenseRecord is an operating expense of the lending office: rent,
// salaries, collector commissions and the like. Not tied to any loan.
type ExpenseRecord struct {
	shared.BaseAggregateRoot
	ExpenseNumber string          `json:"expense_number"`
	Category      ExpenseCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Description   string          `json:"description"`
	IncurredAt    time.Time       `json:"incurred_at"`
	Status        ExpenseStatus   `json:"status"`
	CancelledAt   *time.Time      `json:"cancelled_at"`
	CancelReason  string          `json:"cancel_reason"`
}

// NewExpenseRecord creates a new expense record
func NewExpenseRecord(
	expenseNumber string,
	category ExpenseCategory,
	amount decimal.Decimal,
	paymentMethod PaymentMethod,
	description string,
	incurredAt time.Time,
) (*ExpenseRecord, error) {
	expenseNumber = strings.TrimSpace(expenseNumber)
	description = strings.TrimSpace(description)

	if expenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot be empty")
	}
	if len(expenseNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot exceed 50 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if incurredAt.IsZero() {
		incurredAt = time.Now()
	}

	expense := &ExpenseRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     expenseNumber,
		Category:          category,
		Amount:            amount,
		PaymentMethod:     paymentMethod,
		Description:       description,
		IncurredAt:        incurredAt,
		Status:            ExpenseStatusRecorded,
	}

	expense.AddDomainEvent(NewExpenseRecordCreatedEvent(expense))

	return expense, nil
}

// Cancel cancels the expense record
func (e *ExpenseRecord) Cancel(reason string) error {
	if e.Status == ExpenseStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel expense in %s status", e.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusCancelled
	e.CancelledAt = &now
	e.CancelReason = reason
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseRecordCancelledEvent(e))

	return nil
}

// Update changes the expense details, only while still recorded
func (e *ExpenseRecord) Update(category ExpenseCategory, amount decimal.Decimal, paymentMethod PaymentMethod, description string, incurredAt time.Time) error {
	if e.Status != ExpenseStatusRecorded {
		return shared.NewDomainError("INVALID_STATE", "Can only update a recorded expense")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !paymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	description = strings.TrimSpace(description)
	if description == "" || len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description must be between 1 and 500 characters")
	}

	e.Category = category
	e.Amount = amount
	e.PaymentMethod = paymentMethod
	e.Description = description
	if !incurredAt.IsZero() {
		e.IncurredAt = incurredAt
	}
	e.IncrementVersion()
	return nil
}

// IsCancelled returns true if the expense is cancelled
func (e *ExpenseRecord) IsCancelled() bool {
	return e.Status == ExpenseStatusCancelled
}
