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
	"github.com/microloan/backend/internal/domain/partner"
	"github.com/microloan/backend/internal/domain/shared"
)

// LoanService handles loan origination and lifecycle
type LoanService struct {
	loanRepo    lending.LoanRepository
	receiptRepo lending.ReceiptRepository
	clientRepo  partner.ClientRepository
	logger      *zap.Logger
}

// NewLoanService creates a new LoanService
func NewLoanService(
	loanRepo lending.LoanRepository,
	receiptRepo lending.ReceiptRepository,
	clientRepo partner.ClientRepository,
	logger *zap.Logger,
) *LoanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanService{
		loanRepo:    loanRepo,
		receiptRepo: receiptRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

// OriginateLoanRequest is a request to create a loan with its schedule
type OriginateLoanRequest struct {
	ClientID         uuid.UUID
	Principal        decimal.Decimal
	Rate             decimal.Decimal
	InstallmentCount int
	Frequency        lending.Frequency
	StartDate        time.Time
}

// OriginateLoan creates a loan and its full installment schedule. The
// schedule is persisted as one batch: all N installments or none.
func (s *LoanService) OriginateLoan(ctx context.Context, req OriginateLoanRequest) (*lending.Loan, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	if !client.IsActive() {
		return nil, shared.NewDomainError("CLIENT_INACTIVE", "Inactive clients cannot originate loans")
	}

	terms := lending.LoanTerms{
		ClientID:         req.ClientID,
		Principal:        req.Principal,
		Rate:             req.Rate,
		InstallmentCount: req.InstallmentCount,
		Frequency:        req.Frequency,
		StartDate:        req.StartDate,
	}
	loan, err := lending.NewLoan(s.nextLoanNumber(), terms, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to persist loan: %w", err)
	}

	s.logger.Info("loan originated",
		zap.String("loan_number", loan.LoanNumber),
		zap.String("client_id", loan.ClientID.String()),
		zap.String("principal", loan.Principal.StringFixed(2)),
		zap.Int("installments", loan.InstallmentCount))

	return loan, nil
}

// GetLoan returns a loan with its full schedule
func (s *LoanService) GetLoan(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LOAN_NOT_FOUND", "Loan not found")
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	return loan, nil
}

// ListLoans returns loans matching the filter, with the total count
func (s *LoanService) ListLoans(ctx context.Context, filter lending.LoanFilter) ([]lending.Loan, int64, error) {
	loans, err := s.loanRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}
	total, err := s.loanRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}
	return loans, total, nil
}

// CancelLoan marks a loan cancelled/defaulted
func (s *LoanService) CancelLoan(ctx context.Context, id uuid.UUID, reason string) (*lending.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LOAN_NOT_FOUND", "Loan not found")
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}

	if err := loan.Cancel(reason, time.Now()); err != nil {
		return nil, err
	}
	if err := s.loanRepo.SaveWithLock(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Info("loan cancelled",
		zap.String("loan_number", loan.LoanNumber),
		zap.String("reason", loan.CancelReason))

	return loan, nil
}

// DeleteLoan soft-deletes a loan. Loans with non-cancelled receipts are
// kept; the payment history must stay reconstructible.
func (s *LoanService) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loanRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("LOAN_NOT_FOUND", "Loan not found")
		}
		return fmt.Errorf("failed to load loan: %w", err)
	}

	active, err := s.receiptRepo.CountActiveByLoan(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count receipts: %w", err)
	}
	if active > 0 {
		return shared.NewDomainError("LOAN_HAS_PAYMENTS",
			fmt.Sprintf("Cannot delete loan with %d recorded payments", active))
	}

	return s.loanRepo.SoftDelete(ctx, id)
}

// PreviewSchedule generates the schedule for the given terms without
// persisting anything. Used by the origination form.
func (s *LoanService) PreviewSchedule(ctx context.Context, req OriginateLoanRequest) ([]lending.Installment, error) {
	terms := lending.LoanTerms{
		ClientID:         req.ClientID,
		Principal:        req.Principal,
		Rate:             req.Rate,
		InstallmentCount: req.InstallmentCount,
		Frequency:        req.Frequency,
		StartDate:        req.StartDate,
	}
	return lending.GenerateSchedule(terms, time.Now())
}

// nextLoanNumber builds a human-readable loan number
func (s *LoanService) nextLoanNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("PR-%s-%s", time.Now().Format("20060102"), suffix)
}
