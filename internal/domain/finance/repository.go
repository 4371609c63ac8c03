package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExpenseFilter defines filter criteria for expense queries
type ExpenseFilter struct {
	Category *ExpenseCategory
	Status   *ExpenseStatus
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// ExpenseRecordRepository defines persistence for expense records. Lookups
// that miss return shared.ErrNotFound, never (nil, nil).
type ExpenseRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseRecord, error)
	FindByExpenseNumber(ctx context.Context, expenseNumber string) (*ExpenseRecord, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]ExpenseRecord, error)
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)
	Create(ctx context.Context, expense *ExpenseRecord) error
	Save(ctx context.Context, expense *ExpenseRecord) error
}
