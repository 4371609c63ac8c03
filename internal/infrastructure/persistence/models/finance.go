package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/microloan/backend/internal/domain/finance"
)

// ExpenseRecordModel is the persistence model for the ExpenseRecord entity.
type ExpenseRecordModel struct {
	AggregateModel
	ExpenseNumber string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category      finance.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	PaymentMethod finance.PaymentMethod   `gorm:"type:varchar(20);not null"`
	Description   string                  `gorm:"type:varchar(500);not null"`
	IncurredAt    time.Time               `gorm:"type:timestamptz;not null;index"`
	Status        finance.ExpenseStatus   `gorm:"type:varchar(20);not null;default:'RECORDED';index"`
	CancelledAt   *time.Time              `gorm:"type:timestamptz"`
	CancelReason  string                  `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseRecordModel) TableName() string {
	return "expense_records"
}

// ToDomain converts the persistence model to a domain ExpenseRecord entity.
func (m *ExpenseRecordModel) ToDomain() *finance.ExpenseRecord {
	return &finance.ExpenseRecord{
		BaseAggregateRoot: m.baseAggregateRoot(),
		ExpenseNumber:     m.ExpenseNumber,
		Category:          m.Category,
		Amount:            m.Amount,
		PaymentMethod:     m.PaymentMethod,
		Description:       m.Description,
		IncurredAt:        m.IncurredAt,
		Status:            m.Status,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain ExpenseRecord entity.
func (m *ExpenseRecordModel) FromDomain(e *finance.ExpenseRecord) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.ExpenseNumber = e.ExpenseNumber
	m.Category = e.Category
	m.Amount = e.Amount
	m.PaymentMethod = e.PaymentMethod
	m.Description = e.Description
	m.IncurredAt = e.IncurredAt
	m.Status = e.Status
	m.CancelledAt = e.CancelledAt
	m.CancelReason = e.CancelReason
}

// ExpenseRecordModelFromDomain creates a new persistence model from a domain ExpenseRecord.
func ExpenseRecordModelFromDomain(e *finance.ExpenseRecord) *ExpenseRecordModel {
	m := &ExpenseRecordModel{}
	m.FromDomain(e)
	return m
}
