package lending

import (
	"context"

	"github.com/microloan/backend/internal/domain/lending"
)

// TransactionScope provides transactional access to lending repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the lending repositories
// within one transaction.
//
// Aggregate boundary notes:
//   - LoanRepo: repository for the Loan aggregate root. Installments are
//     child entities and are persisted through the loan, never on their own.
//   - ReceiptRepo: repository for the Receipt aggregate with its
//     allocations.
//
// Recording a payment writes both aggregates; the scope is what makes the
// receipt, its allocations and the updated installments land as one unit.
type TransactionalRepositories interface {
	// LoanRepo returns the loan repository scoped to the current transaction
	LoanRepo() lending.LoanRepository
	// ReceiptRepo returns the receipt repository scoped to the current transaction
	ReceiptRepo() lending.ReceiptRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	loanRepo    lending.LoanRepository
	receiptRepo lending.ReceiptRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(loanRepo lending.LoanRepository, receiptRepo lending.ReceiptRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{loanRepo: loanRepo, receiptRepo: receiptRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LoanRepo returns the loan repository.
func (s *NoOpTransactionScope) LoanRepo() lending.LoanRepository {
	return s.loanRepo
}

// ReceiptRepo returns the receipt repository.
func (s *NoOpTransactionScope) ReceiptRepo() lending.ReceiptRepository {
	return s.receiptRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
