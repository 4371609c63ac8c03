package lending

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTerms() LoanTerms {
	return LoanTerms{
		ClientID:         uuid.New(),
		Principal:        decimal.NewFromInt(1000),
		Rate:             decimal.NewFromFloat(0.10),
		InstallmentCount: 3,
		Frequency:        FrequencyMonthly,
		StartDate:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func testNow() time.Time {
	return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
}

func TestGenerateSchedule_ExactSum(t *testing.T) {
	terms := validTerms()
	// 1000 * (1 + 0.10*3) = 1300; 1300/3 does not divide evenly
	installments, err := GenerateSchedule(terms, testNow())
	require.NoError(t, err)
	require.Len(t, installments, 3)

	assert.Equal(t, "433.33", installments[0].AmountDue.StringFixed(2))
	assert.Equal(t, "433.33", installments[1].AmountDue.StringFixed(2))
	assert.Equal(t, "433.34", installments[2].AmountDue.StringFixed(2))

	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.AmountDue)
	}
	assert.True(t, sum.Equal(terms.AmountToRepay()),
		"sum of installments %s should equal amount to repay %s", sum, terms.AmountToRepay())
}

func TestGenerateSchedule_InstallmentNumbering(t *testing.T) {
	terms := validTerms()
	terms.InstallmentCount = 5

	installments, err := GenerateSchedule(terms, testNow())
	require.NoError(t, err)
	for i, inst := range installments {
		assert.Equal(t, i+1, inst.InstallmentNo)
		assert.True(t, inst.AmountPaid.IsZero())
		assert.Nil(t, inst.PaidAt)
	}
}

func TestGenerateSchedule_WeeklyDueDates(t *testing.T) {
	terms := validTerms()
	terms.Frequency = FrequencyWeekly
	terms.StartDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	installments, err := GenerateSchedule(terms, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// first installment falls on the start date itself
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestGenerateSchedule_BiweeklyUses15DaySteps(t *testing.T) {
	terms := validTerms()
	terms.Frequency = FrequencyBiweekly
	terms.StartDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	installments, err := GenerateSchedule(terms, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestGenerateSchedule_MonthlyClampsShortMonths(t *testing.T) {
	terms := validTerms()
	terms.InstallmentCount = 4
	terms.StartDate = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	installments, err := GenerateSchedule(terms, time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC), installments[0].DueDate)
	// February 2026 has 28 days
	assert.Equal(t, time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC), installments[1].DueDate)
	// clamping is per step from the start date, so March returns to the 31st
	assert.Equal(t, time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC), installments[2].DueDate)
	assert.Equal(t, time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC), installments[3].DueDate)
}

func TestGenerateSchedule_DueDatesAnchoredAtNoon(t *testing.T) {
	terms := validTerms()
	terms.StartDate = time.Date(2026, 1, 15, 23, 45, 0, 0, time.UTC)

	installments, err := GenerateSchedule(terms, testNow())
	require.NoError(t, err)
	for _, inst := range installments {
		assert.Equal(t, 12, inst.DueDate.Hour())
		assert.Equal(t, 0, inst.DueDate.Minute())
	}
}

func TestGenerateSchedule_RejectsInvalidTerms(t *testing.T) {
	now := testNow()

	tests := []struct {
		name   string
		mutate func(*LoanTerms)
		code   string
	}{
		{"zero principal", func(t *LoanTerms) { t.Principal = decimal.Zero }, "INVALID_PRINCIPAL"},
		{"negative principal", func(t *LoanTerms) { t.Principal = decimal.NewFromInt(-100) }, "INVALID_PRINCIPAL"},
		{"negative rate", func(t *LoanTerms) { t.Rate = decimal.NewFromFloat(-0.1) }, "INVALID_RATE"},
		{"rate above one", func(t *LoanTerms) { t.Rate = decimal.NewFromFloat(1.5) }, "INVALID_RATE"},
		{"zero installments", func(t *LoanTerms) { t.InstallmentCount = 0 }, "INVALID_INSTALLMENT_COUNT"},
		{"too many installments", func(t *LoanTerms) { t.InstallmentCount = 361 }, "INVALID_INSTALLMENT_COUNT"},
		{"bad frequency", func(t *LoanTerms) { t.Frequency = "DAILY" }, "INVALID_FREQUENCY"},
		{"missing client", func(t *LoanTerms) { t.ClientID = uuid.Nil }, "INVALID_CLIENT"},
		{"start too far in past", func(t *LoanTerms) {
			t.StartDate = now.AddDate(-1, -1, 0)
		}, "INVALID_START_DATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := validTerms()
			tt.mutate(&terms)
			_, err := GenerateSchedule(terms, now)
			require.Error(t, err)
			var derr *shared.DomainError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.code, derr.Code)
		})
	}
}

func TestGenerateSchedule_SingleInstallmentGetsFullAmount(t *testing.T) {
	terms := validTerms()
	terms.InstallmentCount = 1

	installments, err := GenerateSchedule(terms, testNow())
	require.NoError(t, err)
	require.Len(t, installments, 1)
	assert.True(t, installments[0].AmountDue.Equal(terms.AmountToRepay()))
}
