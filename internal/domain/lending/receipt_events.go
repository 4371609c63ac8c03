package lending

import (
	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Receipt event types
const (
	EventTypeReceiptCreated = "receipt.created"
	EventTypeReceiptVoided  = "receipt.voided"
)

const aggregateTypeReceipt = "Receipt"

// ReceiptCreatedEvent is raised when a payment receipt is recorded
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber     string          `json:"receipt_number"`
	ClientID          uuid.UUID       `json:"client_id"`
	LoanID            uuid.UUID       `json:"loan_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal `json:"unallocated_amount"`
}

// NewReceiptCreatedEvent creates a new receipt created event
func NewReceiptCreatedEvent(receipt *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeReceiptCreated, aggregateTypeReceipt, receipt.ID),
		ReceiptNumber:     receipt.ReceiptNumber,
		ClientID:          receipt.ClientID,
		LoanID:            receipt.LoanID,
		TotalAmount:       receipt.TotalAmount,
		AllocatedAmount:   receipt.AllocatedAmount(),
		UnallocatedAmount: receipt.UnallocatedAmount,
	}
}

// ReceiptVoidedEvent is raised when a receipt is cancelled and its
// allocations reversed
type ReceiptVoidedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber  string          `json:"receipt_number"`
	LoanID         uuid.UUID       `json:"loan_id"`
	ReversedAmount decimal.Decimal `json:"reversed_amount"`
	Reason         string          `json:"reason"`
}

// NewReceiptVoidedEvent creates a new receipt voided event
func NewReceiptVoidedEvent(receipt *Receipt, reason string) *ReceiptVoidedEvent {
	return &ReceiptVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptVoided, aggregateTypeReceipt, receipt.ID),
		ReceiptNumber:   receipt.ReceiptNumber,
		LoanID:          receipt.LoanID,
		ReversedAmount:  receipt.AllocatedAmount(),
		Reason:          reason,
	}
}
