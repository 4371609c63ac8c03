package lending

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/microloan/backend/internal/domain/lending"
	"github.com/microloan/backend/internal/domain/shared"
)

// =============================================================================
// Mock repositories
// =============================================================================

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindByLoanNumber(ctx context.Context, loanNumber string) (*lending.Loan, error) {
	args := m.Called(ctx, loanNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindAll(ctx context.Context, filter lending.LoanFilter) ([]lending.Loan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) Count(ctx context.Context, filter lending.LoanFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *lending.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) SaveWithLock(ctx context.Context, loan *lending.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLoanRepository) ExistsByLoanNumber(ctx context.Context, loanNumber string) (bool, error) {
	args := m.Called(ctx, loanNumber)
	return args.Bool(0), args.Error(1)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*lending.Receipt, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAll(ctx context.Context, filter lending.ReceiptFilter) ([]lending.Receipt, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]lending.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Count(ctx context.Context, filter lending.ReceiptFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *lending.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *lending.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) CountActiveByLoan(ctx context.Context, loanID uuid.UUID) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeIdempotencyStore is a map-backed stand-in for the real store
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (f *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func (f *fakeIdempotencyStore) Close() error { return nil }

// =============================================================================
// Fixtures
// =============================================================================

func paymentTestLoan(t *testing.T) *lending.Loan {
	t.Helper()
	terms := lending.LoanTerms{
		ClientID:         uuid.New(),
		Principal:        decimal.NewFromInt(1000),
		Rate:             decimal.NewFromFloat(0.10),
		InstallmentCount: 3,
		Frequency:        lending.FrequencyMonthly,
		StartDate:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	loan, err := lending.NewLoan("PR-TEST-0001", terms, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return loan
}

func newReceiptService(loanRepo *MockLoanRepository, receiptRepo *MockReceiptRepository, store shared.IdempotencyStore) *ReceiptService {
	scope := NewNoOpTransactionScope(loanRepo, receiptRepo)
	return NewReceiptService(scope, receiptRepo, store, nil)
}

// =============================================================================
// RecordPayment
// =============================================================================

func TestRecordPayment_AllocatesOldestFirst(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	receiptRepo := new(MockReceiptRepository)
	svc := newReceiptService(loanRepo, receiptRepo, nil)

	loan := paymentTestLoan(t)
	loanRepo.On("FindByID", mock.Anything, loan.ID).Return(loan, nil)
	loanRepo.On("SaveWithLock", mock.Anything, loan).Return(nil)

	var created *lending.Receipt
	receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*lending.Receipt")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*lending.Receipt) }).
		Return(nil)

	// covers the first installment (433.33) plus part of the second
	result, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		LoanID:         loan.ID,
		ClientID:       loan.ClientID,
		TotalAmount:    decimal.NewFromInt(500),
		CashAmount:     decimal.NewFromInt(500),
		TransferAmount: decimal.Zero,
		ReceiptDate:    time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, 1, result.Allocations[0].InstallmentNo)
	assert.Equal(t, "433.33", result.Allocations[0].Amount.StringFixed(2))
	assert.Equal(t, 2, result.Allocations[1].InstallmentNo)
	assert.Equal(t, "66.67", result.Allocations[1].Amount.StringFixed(2))
	assert.True(t, result.Remaining.IsZero())
	assert.Empty(t, result.Warning)

	// installment ledger was updated through the aggregate
	assert.True(t, loan.Installments[0].IsPaid())
	assert.Equal(t, "66.67", loan.Installments[1].AmountPaid.StringFixed(2))

	// one recorded payment moves the version by exactly one step, even
	// though two installments were touched, so the optimistic save
	// predicate still matches the row the plan was computed against
	assert.Equal(t, 2, loan.Version)

	// receipt carries the same allocations
	assert.Equal(t, "500.00", created.AllocatedAmount().StringFixed(2))
	assert.True(t, created.UnallocatedAmount.IsZero())

	loanRepo.AssertExpectations(t)
	receiptRepo.AssertExpectations(t)
}

func TestRecordPayment_OverpaymentReturnsRemaining(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	receiptRepo := new(MockReceiptRepository)
	svc := newReceiptService(loanRepo, receiptRepo, nil)

	loan := paymentTestLoan(t)
	loanRepo.On("FindByID", mock.Anything, loan.ID).Return(loan, nil)
	loanRepo.On("SaveWithLock", mock.Anything, loan).Return(nil)
	receiptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		LoanID:         loan.ID,
		TotalAmount:    decimal.NewFromInt(1500),
		CashAmount:     decimal.NewFromInt(1500),
		TransferAmount: decimal.Zero,
		ReceiptDate:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "200.00", result.Remaining.StringFixed(2))
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, lending.LoanStatusCompleted, result.LoanStatus)
}

func TestRecordPayment_RejectsBadSplit(t *testing.T) {
	svc := newReceiptService(new(MockLoanRepository), new(MockReceiptRepository), nil)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		LoanID:         uuid.New(),
		TotalAmount:    decimal.NewFromInt(500),
		CashAmount:     decimal.NewFromInt(300),
		TransferAmount: decimal.NewFromInt(100),
	})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_PAYMENT_SPLIT", derr.Code)
}

func TestRecordPayment_LoanNotFound(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	svc := newReceiptService(loanRepo, new(MockReceiptRepository), nil)

	loanID := uuid.New()
	loanRepo.On("FindByID", mock.Anything, loanID).Return(nil, shared.ErrNotFound)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		LoanID:         loanID,
		TotalAmount:    decimal.NewFromInt(100),
		CashAmount:     decimal.NewFromInt(100),
		TransferAmount: decimal.Zero,
	})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "LOAN_NOT_FOUND", derr.Code)
}

func TestRecordPayment_ClientMismatch(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	svc := newReceiptService(loanRepo, new(MockReceiptRepository), nil)

	loan := paymentTestLoan(t)
	loanRepo.On("FindByID", mock.Anything, loan.ID).Return(loan, nil)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		LoanID:         loan.ID,
		ClientID:       uuid.New(),
		TotalAmount:    decimal.NewFromInt(100),
		CashAmount:     decimal.NewFromInt(100),
		TransferAmount: decimal.Zero,
	})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "LOAN_CLIENT_MISMATCH", derr.Code)
}

func TestRecordPayment_RetriesOnConflict(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	receiptRepo := new(MockReceiptRepository)
	svc := newReceiptService(loanRepo, receiptRepo, nil)

	// a fresh snapshot per attempt: the retry re-reads the loan
	first := paymentTestLoan(t)
	second := paymentTestLoan(t)
	second.BaseAggregateRoot = first.BaseAggregateRoot

	loanRepo.On("FindByID", mock.Anything, first.ID).Return(first, nil).Once()
	loanRepo.On("FindByID", mock.Anything, first.ID).Return(second, nil).Once()
	loanRepo.On("SaveWithLock", mock.Anything, first).Return(shared.ErrConcurrencyConflict).Once()
	loanRepo.On("SaveWithLock", mock.Anything, second).Return(nil).Once()
	receiptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		LoanID:         first.ID,
		TotalAmount:    decimal.NewFromInt(100),
		CashAmount:     decimal.NewFromInt(100),
		TransferAmount: decimal.Zero,
		ReceiptDate:    time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	loanRepo.AssertExpectations(t)
}

func TestRecordPayment_GivesUpAfterRepeatedConflicts(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	receiptRepo := new(MockReceiptRepository)
	svc := newReceiptService(loanRepo, receiptRepo, nil)

	// every attempt re-reads, so each FindByID serves a fresh snapshot
	loan := paymentTestLoan(t)
	loanRepo.On("FindByID", mock.Anything, loan.ID).Return(loan, nil).Once()
	for i := 0; i < maxConflictRetries-1; i++ {
		fresh := paymentTestLoan(t)
		fresh.BaseAggregateRoot = loan.BaseAggregateRoot
		loanRepo.On("FindByID", mock.Anything, loan.ID).Return(fresh, nil).Once()
	}
	loanRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(shared.ErrConcurrencyConflict)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		LoanID:         loan.ID,
		TotalAmount:    decimal.NewFromInt(100),
		CashAmount:     decimal.NewFromInt(100),
		TransferAmount: decimal.Zero,
		ReceiptDate:    time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, shared.ErrConcurrencyConflict.Code, derr.Code)
	loanRepo.AssertNumberOfCalls(t, "SaveWithLock", maxConflictRetries)
}

func TestRecordPayment_IdempotencyKeyBlocksReplay(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	receiptRepo := new(MockReceiptRepository)
	store := newFakeIdempotencyStore()
	svc := newReceiptService(loanRepo, receiptRepo, store)

	loan := paymentTestLoan(t)
	loanRepo.On("FindByID", mock.Anything, loan.ID).Return(loan, nil)
	loanRepo.On("SaveWithLock", mock.Anything, loan).Return(nil)
	receiptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := RecordPaymentRequest{
		LoanID:         loan.ID,
		TotalAmount:    decimal.NewFromInt(100),
		CashAmount:     decimal.NewFromInt(100),
		TransferAmount: decimal.Zero,
		ReceiptDate:    time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC),
		IdempotencyKey: "pay-abc-123",
	}

	_, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), req)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "DUPLICATE_REQUEST", derr.Code)
}

// =============================================================================
// VoidReceipt
// =============================================================================

func TestVoidReceipt_ReversesAllocations(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	receiptRepo := new(MockReceiptRepository)
	svc := newReceiptService(loanRepo, receiptRepo, nil)

	loan := paymentTestLoan(t)
	paidAt := time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC)

	receipt, err := lending.NewReceipt("RC-TEST-0001", loan.ClientID, loan.ID, paidAt,
		decimal.NewFromInt(500), decimal.NewFromInt(500), decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, receipt.AddAllocation(loan.Installments[0].ID, 1, decimal.RequireFromString("433.33")))
	require.NoError(t, receipt.AddAllocation(loan.Installments[1].ID, 2, decimal.RequireFromString("66.67")))
	require.NoError(t, loan.ApplyAllocation(loan.Installments[0].ID, decimal.RequireFromString("433.33"), paidAt))
	require.NoError(t, loan.ApplyAllocation(loan.Installments[1].ID, decimal.RequireFromString("66.67"), paidAt))

	receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
	loanRepo.On("FindByID", mock.Anything, loan.ID).Return(loan, nil)
	loanRepo.On("SaveWithLock", mock.Anything, loan).Return(nil)
	receiptRepo.On("Save", mock.Anything, receipt).Return(nil)

	require.NoError(t, svc.VoidReceipt(context.Background(), receipt.ID, "wrong loan"))

	assert.Equal(t, lending.ReceiptStatusCancelled, receipt.Status)
	assert.True(t, loan.Installments[0].AmountPaid.IsZero())
	assert.True(t, loan.Installments[1].AmountPaid.IsZero())
	assert.Nil(t, loan.Installments[0].PaidAt)
	// the whole reversal is one version step
	assert.Equal(t, 2, loan.Version)
	loanRepo.AssertExpectations(t)
	receiptRepo.AssertExpectations(t)
}

func TestVoidReceipt_ReceiptNotFound(t *testing.T) {
	receiptRepo := new(MockReceiptRepository)
	svc := newReceiptService(new(MockLoanRepository), receiptRepo, nil)

	receiptID := uuid.New()
	receiptRepo.On("FindByID", mock.Anything, receiptID).Return(nil, shared.ErrNotFound)

	err := svc.VoidReceipt(context.Background(), receiptID, "mistyped amount")
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "RECEIPT_NOT_FOUND", derr.Code)
}

func TestVoidReceipt_AlreadyCancelled(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	receiptRepo := new(MockReceiptRepository)
	svc := newReceiptService(loanRepo, receiptRepo, nil)

	loan := paymentTestLoan(t)
	receipt, err := lending.NewReceipt("RC-TEST-0002", loan.ClientID, loan.ID, time.Now(),
		decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, receipt.Void("first void", time.Now()))

	receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)

	err = svc.VoidReceipt(context.Background(), receipt.ID, "second void")
	require.Error(t, err)
}

func TestVoidReceipt_RequiresReason(t *testing.T) {
	svc := newReceiptService(new(MockLoanRepository), new(MockReceiptRepository), nil)
	err := svc.VoidReceipt(context.Background(), uuid.New(), "  ")
	require.Error(t, err)
}
