package schedule

import (
	"sort"

	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/pkg/utils"
)

// Policy decides what happens to already-invoiced rows when a contract's
// schedule is regenerated.
type Policy string

const (
	// PolicyDiscard drops every previous row, invoice links included.
	PolicyDiscard Policy = config.RegeneratePolicyDiscard
	// PolicyPreserveClaimed keeps the invoice and status of previous rows
	// that were already invoiced.
	PolicyPreserveClaimed Policy = config.RegeneratePolicyPreserveClaimed
)

// ValidateResult reports what regeneration did to previously claimed rows
type ValidateResult struct {
	Rows            int
	DroppedClaims   []string // invoices no longer referenced by any row
	PreservedClaims int
}

// OnValidate recomputes the derived fields of a contract and replaces its
// schedule. It runs before every save.
func OnValidate(c *domain.LeaseContract, policy Policy) ValidateResult {
	c.PlatformCommissionAmount = Commission(c.LeaseAmount, c.PlatformCommissionPercentage)
	c.HourlyRate = HourlyRate(c.LeaseAmount, c.TotalAgreedHours)

	terms := TermsOf(c)
	totals := ComputeTotals(terms)
	c.TotalLeaseAmount = totals.Lease
	c.TotalPlatformCommissionAmount = totals.Commission
	c.TotalOwnerAmount = totals.Owner

	rows := Generate(terms)
	for _, row := range rows {
		row.ContractName = c.Name
	}

	var result ValidateResult
	if policy == PolicyPreserveClaimed {
		rows, result.PreservedClaims = mergeClaimed(c.Schedule, rows)
	} else {
		for _, old := range c.Schedule {
			if old.IsClaimed() {
				result.DroppedClaims = append(result.DroppedClaims, old.Invoice)
			}
		}
	}

	c.Schedule = rows
	result.Rows = len(rows)
	return result
}

// OnSubmit computes the fields that are only fixed when the contract is
// finalized.
func OnSubmit(c *domain.LeaseContract) {
	if days, ok := ContractDays(c.StartDate, c.EndDate); ok {
		c.ContractDays = days
	}
}

// mergeClaimed carries invoice links from previous rows onto regenerated
// rows with the same due date. Claimed rows without a counterpart are kept
// so an issued invoice always stays attached to the contract.
func mergeClaimed(previous, fresh []*domain.PaymentScheduleRow) ([]*domain.PaymentScheduleRow, int) {
	claimed := make(map[string]*domain.PaymentScheduleRow)
	for _, old := range previous {
		if old.IsClaimed() {
			claimed[utils.FormatDate(old.DueDate)] = old
		}
	}
	if len(claimed) == 0 {
		return fresh, 0
	}

	preserved := 0
	for _, row := range fresh {
		key := utils.FormatDate(row.DueDate)
		old, ok := claimed[key]
		if !ok {
			continue
		}
		row.ID = old.ID
		row.Invoice = old.Invoice
		row.Status = old.Status
		delete(claimed, key)
		preserved++
	}

	for _, old := range previous {
		key := utils.FormatDate(old.DueDate)
		if orphan, ok := claimed[key]; ok && orphan == old {
			keep := *old
			fresh = append(fresh, &keep)
			delete(claimed, key)
			preserved++
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].DueDate.Before(fresh[j].DueDate)
	})
	for i, row := range fresh {
		row.Idx = i + 1
	}

	return fresh, preserved
}
