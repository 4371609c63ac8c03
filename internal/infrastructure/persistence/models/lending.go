package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/microloan/backend/internal/domain/lending"
)

// LoanModel is the persistence model for the Loan aggregate root.
type LoanModel struct {
	AggregateModel
	LoanNumber        string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID          uuid.UUID          `gorm:"type:uuid;not null;index"`
	Principal         decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Rate              decimal.Decimal    `gorm:"type:decimal(9,6);not null"`
	InstallmentCount  int                `gorm:"not null"`
	Frequency         lending.Frequency  `gorm:"type:varchar(20);not null"`
	StartDate         time.Time          `gorm:"type:timestamptz;not null"`
	AmountToRepay     decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	InstallmentAmount decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Status            lending.LoanStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CancelledAt       *time.Time         `gorm:"type:timestamptz"`
	CancelReason      string             `gorm:"type:varchar(500)"`
	DeletedAt         gorm.DeletedAt     `gorm:"index"`
	Installments      []InstallmentModel `gorm:"foreignKey:LoanID;references:ID"`
}

// TableName returns the table name for GORM
func (LoanModel) TableName() string {
	return "loans"
}

// ToDomain converts the persistence model to a domain Loan aggregate.
func (m *LoanModel) ToDomain() *lending.Loan {
	installments := make([]lending.Installment, len(m.Installments))
	for i := range m.Installments {
		installments[i] = *m.Installments[i].ToDomain()
	}
	return &lending.Loan{
		BaseAggregateRoot: m.baseAggregateRoot(),
		LoanNumber:        m.LoanNumber,
		ClientID:          m.ClientID,
		Principal:         m.Principal,
		Rate:              m.Rate,
		InstallmentCount:  m.InstallmentCount,
		Frequency:         m.Frequency,
		StartDate:         m.StartDate,
		AmountToRepay:     m.AmountToRepay,
		InstallmentAmount: m.InstallmentAmount,
		Status:            m.Status,
		Installments:      installments,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Loan aggregate.
func (m *LoanModel) FromDomain(l *lending.Loan) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.LoanNumber = l.LoanNumber
	m.ClientID = l.ClientID
	m.Principal = l.Principal
	m.Rate = l.Rate
	m.InstallmentCount = l.InstallmentCount
	m.Frequency = l.Frequency
	m.StartDate = l.StartDate
	m.AmountToRepay = l.AmountToRepay
	m.InstallmentAmount = l.InstallmentAmount
	m.Status = l.Status
	m.CancelledAt = l.CancelledAt
	m.CancelReason = l.CancelReason
	m.Installments = make([]InstallmentModel, len(l.Installments))
	for i := range l.Installments {
		m.Installments[i].FromDomain(&l.Installments[i])
	}
}

// LoanModelFromDomain creates a new persistence model from a domain Loan.
func LoanModelFromDomain(l *lending.Loan) *LoanModel {
	m := &LoanModel{}
	m.FromDomain(l)
	return m
}

// InstallmentModel is the persistence model for the Installment child entity.
// Installment status is derived, never stored.
type InstallmentModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	LoanID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_installment_loan_no,priority:1"`
	InstallmentNo int             `gorm:"not null;uniqueIndex:idx_installment_loan_no,priority:2"`
	DueDate       time.Time       `gorm:"type:timestamptz;not null;index"`
	AmountDue     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAt        *time.Time      `gorm:"type:timestamptz"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment.
func (m *InstallmentModel) ToDomain() *lending.Installment {
	return &lending.Installment{
		ID:            m.ID,
		LoanID:        m.LoanID,
		InstallmentNo: m.InstallmentNo,
		DueDate:       m.DueDate,
		AmountDue:     m.AmountDue,
		AmountPaid:    m.AmountPaid,
		PaidAt:        m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Installment.
func (m *InstallmentModel) FromDomain(i *lending.Installment) {
	m.ID = i.ID
	m.LoanID = i.LoanID
	m.InstallmentNo = i.InstallmentNo
	m.DueDate = i.DueDate
	m.AmountDue = i.AmountDue
	m.AmountPaid = i.AmountPaid
	m.PaidAt = i.PaidAt
}

// ReceiptModel is the persistence model for the Receipt aggregate root.
type ReceiptModel struct {
	AggregateModel
	ReceiptNumber     string                       `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID          uuid.UUID                    `gorm:"type:uuid;not null;index"`
	LoanID            uuid.UUID                    `gorm:"type:uuid;not null;index"`
	ReceiptDate       time.Time                    `gorm:"type:timestamptz;not null;index"`
	TotalAmount       decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	CashAmount        decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	TransferAmount    decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	UnallocatedAmount decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	Observations      string                       `gorm:"type:varchar(500)"`
	Status            lending.ReceiptStatus        `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CancelledAt       *time.Time                   `gorm:"type:timestamptz"`
	CancelReason      string                       `gorm:"type:varchar(500)"`
	Allocations       []InstallmentAllocationModel `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt aggregate.
func (m *ReceiptModel) ToDomain() *lending.Receipt {
	allocations := make([]lending.InstallmentAllocation, len(m.Allocations))
	for i := range m.Allocations {
		allocations[i] = *m.Allocations[i].ToDomain()
	}
	return &lending.Receipt{
		BaseAggregateRoot: m.baseAggregateRoot(),
		ReceiptNumber:     m.ReceiptNumber,
		ClientID:          m.ClientID,
		LoanID:            m.LoanID,
		ReceiptDate:       m.ReceiptDate,
		TotalAmount:       m.TotalAmount,
		CashAmount:        m.CashAmount,
		TransferAmount:    m.TransferAmount,
		UnallocatedAmount: m.UnallocatedAmount,
		Observations:      m.Observations,
		Status:            m.Status,
		Allocations:       allocations,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Receipt aggregate.
func (m *ReceiptModel) FromDomain(r *lending.Receipt) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ReceiptNumber = r.ReceiptNumber
	m.ClientID = r.ClientID
	m.LoanID = r.LoanID
	m.ReceiptDate = r.ReceiptDate
	m.TotalAmount = r.TotalAmount
	m.CashAmount = r.CashAmount
	m.TransferAmount = r.TransferAmount
	m.UnallocatedAmount = r.UnallocatedAmount
	m.Observations = r.Observations
	m.Status = r.Status
	m.CancelledAt = r.CancelledAt
	m.CancelReason = r.CancelReason
	m.Allocations = make([]InstallmentAllocationModel, len(r.Allocations))
	for i := range r.Allocations {
		m.Allocations[i].FromDomain(&r.Allocations[i])
	}
}

// ReceiptModelFromDomain creates a new persistence model from a domain Receipt.
func ReceiptModelFromDomain(r *lending.Receipt) *ReceiptModel {
	m := &ReceiptModel{}
	m.FromDomain(r)
	return m
}

// InstallmentAllocationModel is the persistence model for one receipt
// imputation against an installment.
type InstallmentAllocationModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentNo int             `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InstallmentAllocationModel) TableName() string {
	return "installment_allocations"
}

// ToDomain converts the persistence model to a domain InstallmentAllocation.
func (m *InstallmentAllocationModel) ToDomain() *lending.InstallmentAllocation {
	return &lending.InstallmentAllocation{
		ID:            m.ID,
		ReceiptID:     m.ReceiptID,
		InstallmentID: m.InstallmentID,
		InstallmentNo: m.InstallmentNo,
		Amount:        m.Amount,
	}
}

// FromDomain populates the persistence model from a domain InstallmentAllocation.
func (m *InstallmentAllocationModel) FromDomain(a *lending.InstallmentAllocation) {
	m.ID = a.ID
	m.ReceiptID = a.ReceiptID
	m.InstallmentID = a.InstallmentID
	m.InstallmentNo = a.InstallmentNo
	m.Amount = a.Amount
}
