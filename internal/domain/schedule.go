package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduleStatusUnpaid is the status of a freshly generated row. After a row
// is invoiced its status mirrors the invoice status.
const ScheduleStatusUnpaid = "Unpaid"

// PaymentScheduleRow is one billing period of a lease contract
type PaymentScheduleRow struct {
	ID                       uuid.UUID       `json:"id" db:"id"`
	ContractName             string          `json:"contract" db:"contract_name"`
	Idx                      int             `json:"idx" db:"idx"`
	DueDate                  time.Time       `json:"due_date" db:"due_date"`
	Amount                   decimal.Decimal `json:"amount" db:"amount"`
	PlatformCommissionAmount decimal.Decimal `json:"platform_commission_amount" db:"platform_commission_amount"`
	OwnerAmount              decimal.Decimal `json:"owner_amount" db:"owner_amount"`
	Status                   string          `json:"status" db:"status"`
	Invoice                  string          `json:"invoice" db:"invoice"` // empty until claimed
}

// IsClaimed reports whether an invoice has been issued for the row
func (r *PaymentScheduleRow) IsClaimed() bool {
	return r.Invoice != ""
}

type ScheduleResponse struct {
	Contract string                `json:"contract"`
	Schedule []*PaymentScheduleRow `json:"schedule"`
}
