package lending

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/microloan/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a loan's repayment schedule.
type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

// IsValid checks if the frequency is one of the supported cadences
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

const (
	// MaxInstallmentCount bounds the schedule length. 360 covers a 30 year
	// monthly schedule, far beyond any product the business runs.
	MaxInstallmentCount = 360
	// MaxStartDateAge is how far in the past a loan may start.
	MaxStartDateAge = 365 * 24 * time.Hour
)

// LoanTerms are the origination inputs used to derive a repayment schedule.
type LoanTerms struct {
	ClientID         uuid.UUID
	Principal        decimal.Decimal
	Rate             decimal.Decimal
	InstallmentCount int
	Frequency        Frequency
	StartDate        time.Time
}

// Validate checks the terms against origination rules. The reference time
// is passed in so callers control the clock.
func (t LoanTerms) Validate(now time.Time) error {
	if t.ClientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client ID is required")
	}
	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRINCIPAL", "Principal must be positive")
	}
	if t.Rate.IsNegative() || t.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_RATE", "Rate per installment must be between 0 and 1")
	}
	if t.InstallmentCount < 1 || t.InstallmentCount > MaxInstallmentCount {
		return shared.NewDomainError("INVALID_INSTALLMENT_COUNT",
			fmt.Sprintf("Installment count must be between 1 and %d", MaxInstallmentCount))
	}
	if !t.Frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY",
			fmt.Sprintf("Unsupported frequency: %s", t.Frequency))
	}
	if t.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}
	if now.Sub(t.StartDate) > MaxStartDateAge {
		return shared.NewDomainError("INVALID_START_DATE", "Start date is more than one year in the past")
	}
	return nil
}

// AmountToRepay derives the total contractual obligation:
// principal * (1 + rate * installmentCount), rounded to cents.
func (t LoanTerms) AmountToRepay() decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(t.Rate.Mul(decimal.NewFromInt(int64(t.InstallmentCount))))
	return valueobject.RoundCents(t.Principal.Mul(factor))
}

// GenerateSchedule produces the full installment schedule for the given
// terms. The sum of all amounts due equals AmountToRepay exactly: each
// installment gets the rounded even share and the last one absorbs the
// residual. Due dates are anchored at noon in the start date's location so
// date-only comparisons are stable across DST transitions.
func GenerateSchedule(terms LoanTerms, now time.Time) ([]Installment, error) {
	if err := terms.Validate(now); err != nil {
		return nil, err
	}

	total := valueobject.NewMoneyARS(terms.AmountToRepay())
	shares, err := total.SplitEqual(terms.InstallmentCount)
	if err != nil {
		return nil, err
	}

	installments := make([]Installment, terms.InstallmentCount)
	for i := 0; i < terms.InstallmentCount; i++ {
		installments[i] = Installment{
			ID:            uuid.New(),
			InstallmentNo: i + 1,
			DueDate:       dueDateFor(terms.StartDate, terms.Frequency, i),
			AmountDue:     shares[i].Amount(),
			AmountPaid:    decimal.Zero,
		}
	}
	return installments, nil
}

// dueDateFor computes the due date of the installment at 0-based offset n;
// the first installment falls on the start date itself. Weekly and biweekly
// cadences step in fixed day counts (7 and 15); monthly steps in calendar
// months from the start date, clamping the day-of-month when the target
// month is shorter.
func dueDateFor(start time.Time, freq Frequency, n int) time.Time {
	switch freq {
	case FrequencyWeekly:
		return atNoon(start.AddDate(0, 0, 7*n))
	case FrequencyBiweekly:
		return atNoon(start.AddDate(0, 0, 15*n))
	default:
		return atNoon(addMonthsClamped(start, n))
	}
}

// addMonthsClamped adds calendar months, clamping the day to the last day
// of the target month instead of letting time.AddDate overflow into the
// next month.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}

func atNoon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}
