// Package schedule turns lease contract terms into a billing plan and
// contract-level totals. Everything here is a pure function of its inputs.
package schedule

import (
	"time"

	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/pkg/utils"

	"github.com/shopspring/decimal"
)

// Terms are the contract fields the generator reads
type Terms struct {
	StartDate         *time.Time
	EndDate           *time.Time
	BillingCycle      string
	LeaseAmount       decimal.Decimal
	CommissionPercent decimal.Decimal
}

// TermsOf extracts generator input from a contract
func TermsOf(c *domain.LeaseContract) Terms {
	return Terms{
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		BillingCycle:      c.BillingCycle,
		LeaseAmount:       c.LeaseAmount,
		CommissionPercent: c.PlatformCommissionPercentage,
	}
}

// Totals are the contract-level amounts derived from the cycle-count estimate
type Totals struct {
	Cycles     int
	Lease      decimal.Decimal
	Commission decimal.Decimal
	Owner      decimal.Decimal
}

// Step advances current by one billing period. ok is false for an
// unrecognized cycle.
func Step(cycle string, current time.Time) (next time.Time, ok bool) {
	switch cycle {
	case domain.BillingCycleDaily:
		return utils.AddDays(current, 1), true
	case domain.BillingCycleWeekly:
		return utils.AddDays(current, 7), true
	case domain.BillingCycleMonthly:
		return utils.AddMonths(current, 1), true
	case domain.BillingCycleYearly:
		return utils.AddYears(current, 1), true
	default:
		return time.Time{}, false
	}
}

// Generate produces one row per billing period starting at the start date,
// while the period start is on or before the end date. The last period may
// run past the end date; it is billed in full.
//
// Missing dates or an unrecognized cycle produce no rows. Rows carry no ID;
// identifiers are assigned when the schedule is persisted.
func Generate(t Terms) []*domain.PaymentScheduleRow {
	rows := make([]*domain.PaymentScheduleRow, 0)
	if t.StartDate == nil || t.EndDate == nil {
		return rows
	}

	end := utils.DateOnly(*t.EndDate)
	commission := utils.Percentage(t.LeaseAmount, t.CommissionPercent)
	owner := t.LeaseAmount.Sub(commission)

	current := utils.DateOnly(*t.StartDate)
	for !current.After(end) {
		next, ok := Step(t.BillingCycle, current)
		if !ok {
			break
		}

		rows = append(rows, &domain.PaymentScheduleRow{
			Idx:                      len(rows) + 1,
			DueDate:                  current,
			Amount:                   t.LeaseAmount,
			PlatformCommissionAmount: commission,
			OwnerAmount:              owner,
			Status:                   domain.ScheduleStatusUnpaid,
		})

		current = next
	}

	return rows
}

// Commission is the per-period platform commission: zero unless both the
// lease amount and the percentage are set.
func Commission(leaseAmount, percent decimal.Decimal) decimal.Decimal {
	if leaseAmount.IsZero() || percent.IsZero() {
		return decimal.Zero
	}
	return utils.Percentage(leaseAmount, percent)
}

// HourlyRate divides the lease amount over the agreed hours; zero when
// either is unset.
func HourlyRate(leaseAmount, hours decimal.Decimal) decimal.Decimal {
	if leaseAmount.IsZero() || !hours.IsPositive() {
		return decimal.Zero
	}
	return leaseAmount.Div(hours)
}

// ContractDays counts the contract's days inclusive of both endpoints
func ContractDays(start, end *time.Time) (int, bool) {
	if start == nil || end == nil {
		return 0, false
	}
	return utils.DaysInclusive(*start, *end), true
}

// CycleCount estimates how many billing cycles the contract spans. The
// weekly estimate truncates days/7 and can be lower than the number of rows
// Generate produces for the same range.
func CycleCount(t Terms) int {
	if t.StartDate == nil || t.EndDate == nil || t.BillingCycle == "" {
		return 1
	}

	start, end := *t.StartDate, *t.EndDate
	days := utils.DaysInclusive(start, end)

	switch t.BillingCycle {
	case domain.BillingCycleDaily:
		return days
	case domain.BillingCycleWeekly:
		return days / 7
	case domain.BillingCycleMonthly:
		return max(1, utils.MonthSpan(start, end)+1)
	case domain.BillingCycleYearly:
		return max(1, end.Year()-start.Year()+1)
	default:
		return 1
	}
}

// ComputeTotals derives the contract totals from the cycle-count estimate
func ComputeTotals(t Terms) Totals {
	cycles := CycleCount(t)
	lease := t.LeaseAmount.Mul(decimal.NewFromInt(int64(cycles)))
	commission := utils.Percentage(lease, t.CommissionPercent)

	return Totals{
		Cycles:     cycles,
		Lease:      lease,
		Commission: commission,
		Owner:      lease.Sub(commission),
	}
}
