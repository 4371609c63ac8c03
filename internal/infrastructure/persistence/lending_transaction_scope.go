package persistence

import (
	"context"

	"gorm.io/gorm"

	applending "github.com/microloan/backend/internal/application/lending"
	"github.com/microloan/backend/internal/domain/lending"
)

// GormLendingTransactionScope implements the lending TransactionScope using
// GORM transactions. Recording or voiding a payment touches both the loan
// and the receipt aggregate; the scope makes those writes atomic.
type GormLendingTransactionScope struct {
	db *gorm.DB
}

// NewGormLendingTransactionScope creates a new GormLendingTransactionScope.
func NewGormLendingTransactionScope(db *gorm.DB) *GormLendingTransactionScope {
	return &GormLendingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormLendingTransactionScope) Execute(ctx context.Context, fn func(repos applending.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormLendingRepositories{tx: tx}
		return fn(repos)
	})
}

// gormLendingRepositories provides access to the lending repositories within
// one transaction.
type gormLendingRepositories struct {
	tx *gorm.DB
}

// LoanRepo returns the loan repository scoped to the current transaction.
func (r *gormLendingRepositories) LoanRepo() lending.LoanRepository {
	return NewGormLoanRepository(r.tx)
}

// ReceiptRepo returns the receipt repository scoped to the current transaction.
func (r *gormLendingRepositories) ReceiptRepo() lending.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

// Ensure GormLendingTransactionScope implements TransactionScope
var _ applending.TransactionScope = (*GormLendingTransactionScope)(nil)

// Ensure gormLendingRepositories implements TransactionalRepositories
var _ applending.TransactionalRepositories = (*gormLendingRepositories)(nil)
