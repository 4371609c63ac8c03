package lending

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallmentStatus(t *testing.T) {
	due := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	onTime := time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)
	late := time.Date(2026, 6, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		paid   string
		paidAt *time.Time
		today  time.Time
		want   InstallmentStatus
	}{
		{"unpaid before due date", "0", nil, due.AddDate(0, 0, -3), InstallmentStatusUpcoming},
		{"unpaid on due date", "0", nil, due, InstallmentStatusDueToday},
		{"unpaid on due date earlier hour", "0", nil, time.Date(2026, 6, 15, 1, 0, 0, 0, time.UTC), InstallmentStatusDueToday},
		{"unpaid after due date", "0", nil, due.AddDate(0, 0, 1), InstallmentStatusOverdue},
		{"partially paid after due date", "50.00", nil, due.AddDate(0, 0, 5), InstallmentStatusOverdue},
		{"paid on time", "100.00", &onTime, due.AddDate(0, 1, 0), InstallmentStatusPaid},
		{"paid late", "100.00", &late, due.AddDate(0, 1, 0), InstallmentStatusPaidLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Installment{
				InstallmentNo: 1,
				DueDate:       due,
				AmountDue:     decimal.RequireFromString("100.00"),
				AmountPaid:    decimal.RequireFromString(tt.paid),
				PaidAt:        tt.paidAt,
			}
			assert.Equal(t, tt.want, inst.Status(tt.today))
		})
	}
}

func TestInstallmentOutstanding(t *testing.T) {
	inst := Installment{
		AmountDue:  decimal.RequireFromString("433.33"),
		AmountPaid: decimal.RequireFromString("100.00"),
	}
	assert.Equal(t, "333.33", inst.Outstanding().StringFixed(2))

	inst.AmountPaid = inst.AmountDue
	assert.True(t, inst.Outstanding().IsZero())
}

func TestInstallmentApplyPayment(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	inst := Installment{
		InstallmentNo: 1,
		DueDate:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		AmountDue:     decimal.RequireFromString("100.00"),
		AmountPaid:    decimal.Zero,
	}

	require.NoError(t, inst.applyPayment(decimal.RequireFromString("60.00"), now))
	assert.Equal(t, "60.00", inst.AmountPaid.StringFixed(2))
	assert.Nil(t, inst.PaidAt, "paid_at is only set when fully covered")

	require.NoError(t, inst.applyPayment(decimal.RequireFromString("40.00"), now))
	require.NotNil(t, inst.PaidAt)
	assert.True(t, inst.IsPaid())

	err := inst.applyPayment(decimal.RequireFromString("0.01"), now)
	require.Error(t, err, "overpaying a single installment is rejected")
}

func TestInstallmentReversePayment(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	inst := Installment{
		InstallmentNo: 1,
		DueDate:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		AmountDue:     decimal.RequireFromString("100.00"),
		AmountPaid:    decimal.Zero,
	}
	require.NoError(t, inst.applyPayment(decimal.RequireFromString("100.00"), now))
	require.NotNil(t, inst.PaidAt)

	require.NoError(t, inst.reversePayment(decimal.RequireFromString("30.00")))
	assert.Equal(t, "70.00", inst.AmountPaid.StringFixed(2))
	assert.Nil(t, inst.PaidAt, "paid_at is cleared when no longer fully paid")

	err := inst.reversePayment(decimal.RequireFromString("80.00"))
	require.Error(t, err, "cannot reverse more than was paid")
}
