package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/microloan/backend/internal/domain/finance"
	"github.com/microloan/backend/internal/domain/lending"
	"github.com/microloan/backend/internal/domain/partner"
)

// PortfolioSummary is the dashboard snapshot of the lending book
type PortfolioSummary struct {
	AsOf                 time.Time       `json:"as_of"`
	ActiveLoans          int             `json:"active_loans"`
	CompletedLoans       int             `json:"completed_loans"`
	TotalOutstanding     decimal.Decimal `json:"total_outstanding"`
	OverdueInstallments  int             `json:"overdue_installments"`
	OverdueAmount        decimal.Decimal `json:"overdue_amount"`
	DueTodayInstallments int             `json:"due_today_installments"`
	DueTodayAmount       decimal.Decimal `json:"due_today_amount"`
	CollectedThisMonth   decimal.Decimal `json:"collected_this_month"`
	ExpensesThisMonth    decimal.Decimal `json:"expenses_this_month"`
	PartnerCapital       decimal.Decimal `json:"partner_capital"`
	PartnerInterest      decimal.Decimal `json:"partner_interest"`
}

// PortfolioService aggregates portfolio-wide figures for the dashboard
type PortfolioService struct {
	loanRepo    lending.LoanRepository
	receiptRepo lending.ReceiptRepository
	expenseRepo finance.ExpenseRecordRepository
	partnerRepo partner.PartnerRepository
	logger      *zap.Logger
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(
	loanRepo lending.LoanRepository,
	receiptRepo lending.ReceiptRepository,
	expenseRepo finance.ExpenseRecordRepository,
	partnerRepo partner.PartnerRepository,
	logger *zap.Logger,
) *PortfolioService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioService{
		loanRepo:    loanRepo,
		receiptRepo: receiptRepo,
		expenseRepo: expenseRepo,
		partnerRepo: partnerRepo,
		logger:      logger,
	}
}

// Summary builds the portfolio snapshot as of the given time. Installment
// statuses are projected with the one canonical status function, the same
// one the allocation engine uses.
func (s *PortfolioService) Summary(ctx context.Context, asOf time.Time) (*PortfolioSummary, error) {
	summary := &PortfolioSummary{
		AsOf:               asOf,
		TotalOutstanding:   decimal.Zero,
		OverdueAmount:      decimal.Zero,
		DueTodayAmount:     decimal.Zero,
		CollectedThisMonth: decimal.Zero,
		ExpensesThisMonth:  decimal.Zero,
		PartnerCapital:     decimal.Zero,
		PartnerInterest:    decimal.Zero,
	}

	activeStatus := lending.LoanStatusActive
	loans, err := s.loanRepo.FindAll(ctx, lending.LoanFilter{Status: &activeStatus})
	if err != nil {
		return nil, fmt.Errorf("failed to load active loans: %w", err)
	}
	summary.ActiveLoans = len(loans)

	for i := range loans {
		summary.TotalOutstanding = summary.TotalOutstanding.Add(loans[i].OutstandingAmount())
		for j := range loans[i].Installments {
			inst := &loans[i].Installments[j]
			switch inst.Status(asOf) {
			case lending.InstallmentStatusOverdue:
				summary.OverdueInstallments++
				summary.OverdueAmount = summary.OverdueAmount.Add(inst.Outstanding())
			case lending.InstallmentStatusDueToday:
				summary.DueTodayInstallments++
				summary.DueTodayAmount = summary.DueTodayAmount.Add(inst.Outstanding())
			}
		}
	}

	completedStatus := lending.LoanStatusCompleted
	completedCount, err := s.loanRepo.Count(ctx, lending.LoanFilter{Status: &completedStatus})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed loans: %w", err)
	}
	summary.CompletedLoans = int(completedCount)

	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	activeReceipt := lending.ReceiptStatusActive
	receipts, err := s.receiptRepo.FindAll(ctx, lending.ReceiptFilter{
		Status:   &activeReceipt,
		FromDate: &monthStart,
		ToDate:   &asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}
	for i := range receipts {
		summary.CollectedThisMonth = summary.CollectedThisMonth.Add(receipts[i].TotalAmount)
	}

	recordedExpense := finance.ExpenseStatusRecorded
	expenses, err := s.expenseRepo.FindAll(ctx, finance.ExpenseFilter{
		Status:   &recordedExpense,
		FromDate: &monthStart,
		ToDate:   &asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	for i := range expenses {
		summary.ExpensesThisMonth = summary.ExpensesThisMonth.Add(expenses[i].Amount)
	}

	partners, err := s.partnerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load partners: %w", err)
	}
	for i := range partners {
		summary.PartnerCapital = summary.PartnerCapital.Add(partners[i].Capital)
		summary.PartnerInterest = summary.PartnerInterest.Add(partners[i].GeneratedInterest)
	}

	return summary, nil
}
