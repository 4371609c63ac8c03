package lending

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/microloan/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AllocationPlanEntry is one planned imputation of a payment against an
// installment.
type AllocationPlanEntry struct {
	InstallmentID uuid.UUID       `json:"installment_id"`
	InstallmentNo int             `json:"installment_no"`
	Amount        decimal.Decimal `json:"amount"`
}

// AllocationPlan is the outcome of planning a payment against a schedule.
// Remaining is the surplus that could not be imputed; it is returned to the
// caller, never dropped.
type AllocationPlan struct {
	Entries        []AllocationPlanEntry `json:"entries"`
	TotalAllocated decimal.Decimal       `json:"total_allocated"`
	Remaining      decimal.Decimal       `json:"remaining"`
}

// PlanAllocation distributes a payment across installments, oldest debt
// first: overdue before due-today before upcoming, within each band by due
// date, ties by installment number. The function is pure: it sorts its own
// working copy, performs no I/O and never mutates the input slice. The
// payment is rounded to cents up front so every emitted amount is in minor
// units.
func PlanAllocation(installments []Installment, payment decimal.Decimal, today time.Time) (*AllocationPlan, error) {
	if payment.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	ordered := make([]Installment, len(installments))
	copy(ordered, installments)
	sort.SliceStable(ordered, func(a, b int) bool {
		ra, rb := priorityRank(&ordered[a], today), priorityRank(&ordered[b], today)
		if ra != rb {
			return ra < rb
		}
		if !ordered[a].DueDate.Equal(ordered[b].DueDate) {
			return ordered[a].DueDate.Before(ordered[b].DueDate)
		}
		return ordered[a].InstallmentNo < ordered[b].InstallmentNo
	})

	remaining := valueobject.RoundCents(payment)
	plan := &AllocationPlan{
		Entries:        make([]AllocationPlanEntry, 0, len(ordered)),
		TotalAllocated: decimal.Zero,
	}

	for i := range ordered {
		if remaining.IsZero() {
			break
		}
		needed := ordered[i].Outstanding()
		if needed.IsZero() {
			continue
		}
		toApply := decimal.Min(remaining, needed)
		plan.Entries = append(plan.Entries, AllocationPlanEntry{
			InstallmentID: ordered[i].ID,
			InstallmentNo: ordered[i].InstallmentNo,
			Amount:        toApply,
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(toApply)
		remaining = remaining.Sub(toApply)
	}

	plan.Remaining = remaining
	return plan, nil
}

// priorityRank bands installments for allocation ordering. Paid ones sort
// last; they are skipped by the greedy walk anyway.
func priorityRank(inst *Installment, today time.Time) int {
	switch inst.Status(today) {
	case InstallmentStatusOverdue:
		return 0
	case InstallmentStatusDueToday:
		return 1
	case InstallmentStatusUpcoming:
		return 2
	default:
		return 3
	}
}
