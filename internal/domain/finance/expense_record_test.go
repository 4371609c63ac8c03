package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpense(t *testing.T) *ExpenseRecord {
	t.Helper()
	expense, err := NewExpenseRecord(
		"EXP-2026-0001",
		ExpenseCategoryRent,
		decimal.NewFromInt(85000),
		PaymentMethodTransfer,
		"Office rent June 2026",
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return expense
}

func TestNewExpenseRecord(t *testing.T) {
	expense := newTestExpense(t)

	assert.Equal(t, ExpenseStatusRecorded, expense.Status)
	assert.Equal(t, ExpenseCategoryRent, expense.Category)
	assert.Equal(t, PaymentMethodTransfer, expense.PaymentMethod)
	assert.False(t, expense.IsCancelled())

	events := expense.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeExpenseRecordCreated, events[0].EventType())
}

func TestNewExpenseRecord_Validation(t *testing.T) {
	incurredAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewExpenseRecord("", ExpenseCategoryRent, decimal.NewFromInt(100), PaymentMethodCash, "rent", incurredAt)
	require.Error(t, err)

	_, err = NewExpenseRecord("EXP-1", "FOOD", decimal.NewFromInt(100), PaymentMethodCash, "rent", incurredAt)
	require.Error(t, err)

	_, err = NewExpenseRecord("EXP-1", ExpenseCategoryRent, decimal.Zero, PaymentMethodCash, "rent", incurredAt)
	require.Error(t, err)

	_, err = NewExpenseRecord("EXP-1", ExpenseCategoryRent, decimal.NewFromInt(100), "CHECK", "rent", incurredAt)
	require.Error(t, err)

	_, err = NewExpenseRecord("EXP-1", ExpenseCategoryRent, decimal.NewFromInt(100), PaymentMethodCash, "", incurredAt)
	require.Error(t, err)
}

func TestExpenseRecordCancel(t *testing.T) {
	expense := newTestExpense(t)

	require.Error(t, expense.Cancel(""), "cancel requires a reason")

	require.NoError(t, expense.Cancel("duplicate entry"))
	assert.True(t, expense.IsCancelled())
	require.NotNil(t, expense.CancelledAt)

	require.Error(t, expense.Cancel("again"), "cancel is not repeatable")
}

func TestExpenseRecordUpdate(t *testing.T) {
	expense := newTestExpense(t)

	err := expense.Update(ExpenseCategoryUtilities, decimal.NewFromInt(12000),
		PaymentMethodCash, "Electricity June 2026", time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, ExpenseCategoryUtilities, expense.Category)
	assert.Equal(t, "12000", expense.Amount.String())

	require.NoError(t, expense.Cancel("wrong month"))
	err = expense.Update(ExpenseCategoryRent, decimal.NewFromInt(100), PaymentMethodCash, "x", time.Time{})
	require.Error(t, err, "cancelled expenses are immutable")
}
