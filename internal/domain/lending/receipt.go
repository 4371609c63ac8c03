package lending

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the lifecycle status of a payment receipt
type ReceiptStatus string

const (
	ReceiptStatusActive    ReceiptStatus = "ACTIVE"
	ReceiptStatusCancelled ReceiptStatus = "CANCELLED"
)

// IsValid checks if the receipt status is valid
func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptStatusActive || s == ReceiptStatusCancelled
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// InstallmentAllocation links a receipt to one installment with the amount
// imputed against it. Child entity of the Receipt aggregate.
type InstallmentAllocation struct {
	ID            uuid.UUID       `json:"id"`
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	InstallmentID uuid.UUID       `json:"installment_id"`
	InstallmentNo int             `json:"installment_no"`
	Amount        decimal.Decimal `json:"amount"`
}

// Receipt records one collected payment from a client against one loan,
// split into cash and bank transfer. Allocations are appended at creation
// time; the only later mutation is voiding, which reverses them all.
type Receipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber     string                  `json:"receipt_number"`
	ClientID          uuid.UUID               `json:"client_id"`
	LoanID            uuid.UUID               `json:"loan_id"`
	ReceiptDate       time.Time               `json:"receipt_date"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
	CashAmount        decimal.Decimal         `json:"cash_amount"`
	TransferAmount    decimal.Decimal         `json:"transfer_amount"`
	UnallocatedAmount decimal.Decimal         `json:"unallocated_amount"`
	Observations      string                  `json:"observations"`
	Status            ReceiptStatus           `json:"status"`
	Allocations       []InstallmentAllocation `json:"allocations"`
	CancelledAt       *time.Time              `json:"cancelled_at"`
	CancelReason      string                  `json:"cancel_reason"`
}

// NewReceipt creates a receipt for one loan. The cash/transfer split must
// sum exactly to the total.
func NewReceipt(receiptNumber string, clientID, loanID uuid.UUID, receiptDate time.Time,
	total, cash, transfer decimal.Decimal, observations string) (*Receipt, error) {

	receiptNumber = strings.TrimSpace(receiptNumber)
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number is required")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID is required")
	}
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOAN", "Loan ID is required")
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if cash.IsNegative() || transfer.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Cash and transfer amounts cannot be negative")
	}
	if !cash.Add(transfer).Equal(total) {
		return nil, shared.NewDomainError("INVALID_PAYMENT_SPLIT",
			"Cash amount plus transfer amount must equal total amount")
	}
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}

	receipt := &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		ClientID:          clientID,
		LoanID:            loanID,
		ReceiptDate:       receiptDate,
		TotalAmount:       total,
		CashAmount:        cash,
		TransferAmount:    transfer,
		UnallocatedAmount: total,
		Observations:      strings.TrimSpace(observations),
		Status:            ReceiptStatusActive,
		Allocations:       make([]InstallmentAllocation, 0),
	}
	return receipt, nil
}

// AddAllocation appends one imputation. The sum of allocations may never
// exceed the receipt total; what is left stays in UnallocatedAmount.
func (r *Receipt) AddAllocation(installmentID uuid.UUID, installmentNo int, amount decimal.Decimal) error {
	if r.Status != ReceiptStatusActive {
		return shared.NewDomainError("INVALID_RECEIPT_STATUS", "Cannot allocate on a cancelled receipt")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.GreaterThan(r.UnallocatedAmount) {
		return shared.NewDomainError("EXCEEDS_RECEIPT_TOTAL",
			"Allocations cannot exceed the receipt total amount")
	}
	r.Allocations = append(r.Allocations, InstallmentAllocation{
		ID:            uuid.New(),
		ReceiptID:     r.ID,
		InstallmentID: installmentID,
		InstallmentNo: installmentNo,
		Amount:        amount,
	})
	r.UnallocatedAmount = r.UnallocatedAmount.Sub(amount)
	return nil
}

// AllocatedAmount is the sum of all imputations on the receipt.
func (r *Receipt) AllocatedAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Allocations {
		total = total.Add(r.Allocations[i].Amount)
	}
	return total
}

// AllocationsInReverseOrder returns a copy of the allocations in reverse
// application order, the order required for compensating reversal.
func (r *Receipt) AllocationsInReverseOrder() []InstallmentAllocation {
	reversed := make([]InstallmentAllocation, len(r.Allocations))
	for i, alloc := range r.Allocations {
		reversed[len(r.Allocations)-1-i] = alloc
	}
	return reversed
}

// Void cancels the receipt. The caller is responsible for reversing the
// allocations against the loan before or alongside this transition.
func (r *Receipt) Void(reason string, now time.Time) error {
	if r.Status == ReceiptStatusCancelled {
		return shared.NewDomainError("INVALID_RECEIPT_STATUS", "Receipt is already cancelled")
	}
	cancelledAt := now
	r.Status = ReceiptStatusCancelled
	r.CancelledAt = &cancelledAt
	r.CancelReason = strings.TrimSpace(reason)
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptVoidedEvent(r, r.CancelReason))
	return nil
}

// MarkCreated raises the creation event once allocations are attached.
func (r *Receipt) MarkCreated() {
	r.AddDomainEvent(NewReceiptCreatedEvent(r))
}
