package lending

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/microloan/backend/internal/domain/lending"
	"github.com/microloan/backend/internal/domain/shared"
)

// maxConflictRetries bounds how many times a payment is replanned when a
// concurrent payment against the same loan wins the optimistic lock.
const maxConflictRetries = 3

// idempotencyKeyTTL is how long a processed Idempotency-Key blocks replays.
const idempotencyKeyTTL = 24 * time.Hour

// ReceiptService handles payment recording and receipt lifecycle
type ReceiptService struct {
	txScope          TransactionScope
	receiptRepo      lending.ReceiptRepository
	idempotencyStore shared.IdempotencyStore
	logger           *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	txScope TransactionScope,
	receiptRepo lending.ReceiptRepository,
	idempotencyStore shared.IdempotencyStore,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		txScope:          txScope,
		receiptRepo:      receiptRepo,
		idempotencyStore: idempotencyStore,
		logger:           logger,
	}
}

// RecordPaymentRequest is a request to record a client payment against a loan
type RecordPaymentRequest struct {
	LoanID         uuid.UUID
	ClientID       uuid.UUID
	TotalAmount    decimal.Decimal
	CashAmount     decimal.Decimal
	TransferAmount decimal.Decimal
	ReceiptDate    time.Time
	Observations   string
	IdempotencyKey string
}

// RecordPaymentResult is the outcome of recording a payment. Remaining is
// the surplus that exceeded everything owed on the loan; it is reported to
// the caller as a warning, never treated as a failure.
type RecordPaymentResult struct {
	ReceiptID     uuid.UUID                      `json:"receipt_id"`
	ReceiptNumber string                         `json:"receipt_number"`
	LoanID        uuid.UUID                      `json:"loan_id"`
	Allocations   []lending.AllocationPlanEntry  `json:"allocations"`
	Remaining     decimal.Decimal                `json:"remaining"`
	LoanStatus    lending.LoanStatus             `json:"loan_status"`
	Warning       string                         `json:"warning,omitempty"`
}

// RecordPayment records a payment receipt: plans the allocation against the
// loan's outstanding installments, then persists the receipt, its
// allocations and the updated installments in one transaction. The loan is
// saved with an optimistic version check; on conflict the whole read-plan-
// write cycle is retried against a fresh snapshot, so two concurrent
// payments can never both allocate against the same outstanding state.
func (s *ReceiptService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if req.CashAmount.IsNegative() || req.TransferAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Cash and transfer amounts cannot be negative")
	}
	if !req.CashAmount.Add(req.TransferAmount).Equal(req.TotalAmount) {
		return nil, shared.NewDomainError("INVALID_PAYMENT_SPLIT",
			"Cash amount plus transfer amount must equal total amount")
	}

	if req.IdempotencyKey != "" && s.idempotencyStore != nil {
		processed, err := s.idempotencyStore.IsProcessed(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("idempotency check failed, proceeding without replay protection",
				zap.String("key", req.IdempotencyKey), zap.Error(err))
		} else if processed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST",
				"A payment with this idempotency key was already recorded")
		}
	}

	receiptDate := req.ReceiptDate
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}

	var result *RecordPaymentResult
	var lastErr error

	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		result, lastErr = s.recordPaymentOnce(ctx, req, receiptDate)
		if lastErr == nil {
			break
		}
		var derr *shared.DomainError
		if !errors.As(lastErr, &derr) || derr.Code != shared.ErrConcurrencyConflict.Code {
			return nil, lastErr
		}
		s.logger.Warn("payment allocation lost optimistic lock, retrying",
			zap.String("loan_id", req.LoanID.String()),
			zap.Int("attempt", attempt))
	}
	if lastErr != nil {
		return nil, lastErr
	}

	if req.IdempotencyKey != "" && s.idempotencyStore != nil {
		if _, err := s.idempotencyStore.MarkProcessed(ctx, req.IdempotencyKey, idempotencyKeyTTL); err != nil {
			s.logger.Warn("failed to mark idempotency key as processed",
				zap.String("key", req.IdempotencyKey), zap.Error(err))
		}
	}

	s.logger.Info("payment recorded",
		zap.String("receipt_number", result.ReceiptNumber),
		zap.String("loan_id", result.LoanID.String()),
		zap.String("total", req.TotalAmount.StringFixed(2)),
		zap.String("remaining", result.Remaining.StringFixed(2)))

	return result, nil
}

// recordPaymentOnce performs one read-plan-write cycle inside a transaction.
func (s *ReceiptService) recordPaymentOnce(ctx context.Context, req RecordPaymentRequest, receiptDate time.Time) (*RecordPaymentResult, error) {
	var result *RecordPaymentResult

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loan, err := repos.LoanRepo().FindByID(ctx, req.LoanID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("LOAN_NOT_FOUND", "Loan not found")
			}
			return fmt.Errorf("failed to load loan: %w", err)
		}
		if req.ClientID != uuid.Nil && loan.ClientID != req.ClientID {
			return shared.NewDomainError("LOAN_CLIENT_MISMATCH", "Loan does not belong to the given client")
		}
		if loan.Status != lending.LoanStatusActive {
			return shared.NewDomainError("INVALID_LOAN_STATUS",
				fmt.Sprintf("Cannot record payments on loan in status %s", loan.Status))
		}

		plan, err := lending.PlanAllocation(loan.Installments, req.TotalAmount, receiptDate)
		if err != nil {
			return err
		}

		receipt, err := lending.NewReceipt(
			nextReceiptNumber(receiptDate),
			loan.ClientID,
			loan.ID,
			receiptDate,
			req.TotalAmount,
			req.CashAmount,
			req.TransferAmount,
			req.Observations,
		)
		if err != nil {
			return err
		}

		for _, entry := range plan.Entries {
			if err := receipt.AddAllocation(entry.InstallmentID, entry.InstallmentNo, entry.Amount); err != nil {
				return err
			}
		}
		if err := loan.ApplyAllocations(plan.Entries, receiptDate); err != nil {
			return err
		}
		receipt.MarkCreated()

		if err := repos.LoanRepo().SaveWithLock(ctx, loan); err != nil {
			return err
		}
		if err := repos.ReceiptRepo().Create(ctx, receipt); err != nil {
			return fmt.Errorf("failed to persist receipt: %w", err)
		}

		result = &RecordPaymentResult{
			ReceiptID:     receipt.ID,
			ReceiptNumber: receipt.ReceiptNumber,
			LoanID:        loan.ID,
			Allocations:   plan.Entries,
			Remaining:     plan.Remaining,
			LoanStatus:    loan.Status,
		}
		if plan.Remaining.IsPositive() {
			result.Warning = fmt.Sprintf("Payment exceeds everything owed on the loan; %s was not allocated",
				plan.Remaining.StringFixed(2))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VoidReceipt cancels a receipt and reverses each of its allocations
// against the loan, in reverse application order. The loan is saved with
// the same optimistic check as regular allocation, so a void cannot race a
// concurrent payment.
func (s *ReceiptService) VoidReceipt(ctx context.Context, receiptID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	var lastErr error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		lastErr = s.voidReceiptOnce(ctx, receiptID, reason)
		if lastErr == nil {
			return nil
		}
		var derr *shared.DomainError
		if !errors.As(lastErr, &derr) || derr.Code != shared.ErrConcurrencyConflict.Code {
			return lastErr
		}
		s.logger.Warn("receipt void lost optimistic lock, retrying",
			zap.String("receipt_id", receiptID.String()),
			zap.Int("attempt", attempt))
	}
	return lastErr
}

func (s *ReceiptService) voidReceiptOnce(ctx context.Context, receiptID uuid.UUID, reason string) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		receipt, err := repos.ReceiptRepo().FindByID(ctx, receiptID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found")
			}
			return fmt.Errorf("failed to load receipt: %w", err)
		}
		if receipt.Status == lending.ReceiptStatusCancelled {
			return shared.NewDomainError("INVALID_RECEIPT_STATUS", "Receipt is already cancelled")
		}

		loan, err := repos.LoanRepo().FindByID(ctx, receipt.LoanID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("LOAN_NOT_FOUND", "Loan referenced by receipt not found")
			}
			return fmt.Errorf("failed to load loan: %w", err)
		}

		if err := loan.ReverseAllocations(receipt.AllocationsInReverseOrder()); err != nil {
			return err
		}
		if err := receipt.Void(reason, time.Now()); err != nil {
			return err
		}

		if err := repos.LoanRepo().SaveWithLock(ctx, loan); err != nil {
			return err
		}
		if err := repos.ReceiptRepo().Save(ctx, receipt); err != nil {
			return fmt.Errorf("failed to persist voided receipt: %w", err)
		}

		s.logger.Info("receipt voided",
			zap.String("receipt_number", receipt.ReceiptNumber),
			zap.String("loan_id", loan.ID.String()),
			zap.String("reversed", receipt.AllocatedAmount().StringFixed(2)))
		return nil
	})
}

// GetReceipt returns a receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*lending.Receipt, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found")
		}
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns receipts matching the filter, with the total count
func (s *ReceiptService) ListReceipts(ctx context.Context, filter lending.ReceiptFilter) ([]lending.Receipt, int64, error) {
	receipts, err := s.receiptRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list receipts: %w", err)
	}
	total, err := s.receiptRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return receipts, total, nil
}

// nextReceiptNumber builds a human-readable receipt number. Uniqueness
// comes from the random suffix, not the date part.
func nextReceiptNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("RC-%s-%s", at.Format("20060102"), suffix)
}
