package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoanFilter defines filter criteria for loan queries
type LoanFilter struct {
	ClientID *uuid.UUID
	Status   *LoanStatus
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// ReceiptFilter defines filter criteria for receipt queries
type ReceiptFilter struct {
	ClientID *uuid.UUID
	LoanID   *uuid.UUID
	Status   *ReceiptStatus
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// LoanRepository defines persistence for the Loan aggregate. Loans are
// always loaded and stored with their full installment schedule. Lookups
// that miss return shared.ErrNotFound, never (nil, nil); the application
// layer translates that into the entity-specific code.
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindByLoanNumber(ctx context.Context, loanNumber string) (*Loan, error)
	FindAll(ctx context.Context, filter LoanFilter) ([]Loan, error)
	Count(ctx context.Context, filter LoanFilter) (int64, error)
	// Create persists the loan and its installments as a single batch.
	Create(ctx context.Context, loan *Loan) error
	// SaveWithLock persists the loan and its installments, failing with
	// CONCURRENCY_CONFLICT when the stored version no longer matches the
	// version the aggregate was loaded at.
	SaveWithLock(ctx context.Context, loan *Loan) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ExistsByLoanNumber(ctx context.Context, loanNumber string) (bool, error)
}

// ReceiptRepository defines persistence for the Receipt aggregate. Lookups
// that miss return shared.ErrNotFound.
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*Receipt, error)
	FindAll(ctx context.Context, filter ReceiptFilter) ([]Receipt, error)
	Count(ctx context.Context, filter ReceiptFilter) (int64, error)
	Create(ctx context.Context, receipt *Receipt) error
	Save(ctx context.Context, receipt *Receipt) error
	// CountActiveByLoan reports how many non-cancelled receipts reference
	// a loan, used to block loan deletion while payments exist.
	CountActiveByLoan(ctx context.Context, loanID uuid.UUID) (int64, error)
}
