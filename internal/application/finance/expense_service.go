package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/microloan/backend/internal/domain/finance"
	"github.com/microloan/backend/internal/domain/shared"
)

// ExpenseService handles operating expense bookkeeping
type ExpenseService struct {
	expenseRepo finance.ExpenseRecordRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRecordRepository, logger *zap.Logger) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{expenseRepo: expenseRepo, logger: logger}
}

// RecordExpenseRequest is a request to record an operating expense
type RecordExpenseRequest struct {
	Category      finance.ExpenseCategory
	Amount        decimal.Decimal
	PaymentMethod finance.PaymentMethod
	Description   string
	IncurredAt    time.Time
}

// RecordExpense records an operating expense
func (s *ExpenseService) RecordExpense(ctx context.Context, req RecordExpenseRequest) (*finance.ExpenseRecord, error) {
	expense, err := finance.NewExpenseRecord(
		nextExpenseNumber(),
		req.Category,
		req.Amount,
		req.PaymentMethod,
		req.Description,
		req.IncurredAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to persist expense: %w", err)
	}

	s.logger.Info("expense recorded",
		zap.String("expense_number", expense.ExpenseNumber),
		zap.String("category", expense.Category.String()),
		zap.String("amount", expense.Amount.StringFixed(2)))
	return expense, nil
}

// GetExpense returns an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*finance.ExpenseRecord, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns expenses matching the filter, with the total count
func (s *ExpenseService) ListExpenses(ctx context.Context, filter finance.ExpenseFilter) ([]finance.ExpenseRecord, int64, error) {
	expenses, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	total, err := s.expenseRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return expenses, total, nil
}

// UpdateExpense changes a recorded expense's details
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, req RecordExpenseRequest) (*finance.ExpenseRecord, error) {
	expense, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expense.Update(req.Category, req.Amount, req.PaymentMethod, req.Description, req.IncurredAt); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to persist expense: %w", err)
	}
	return expense, nil
}

// CancelExpense cancels an expense record
func (s *ExpenseService) CancelExpense(ctx context.Context, id uuid.UUID, reason string) (*finance.ExpenseRecord, error) {
	expense, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expense.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to persist expense: %w", err)
	}

	s.logger.Info("expense cancelled",
		zap.String("expense_number", expense.ExpenseNumber),
		zap.String("reason", reason))
	return expense, nil
}

// nextExpenseNumber builds a human-readable expense number
func nextExpenseNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("EXP-%s-%s", time.Now().Format("20060102"), suffix)
}
