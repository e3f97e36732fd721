package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing cycles accepted by the schedule generator. Any other value yields
// an empty schedule.
const (
	BillingCycleDaily   = "Daily"
	BillingCycleWeekly  = "Weekly"
	BillingCycleMonthly = "Monthly"
	BillingCycleYearly  = "Yearly"
)

// Document states
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)

// LeaseContract is an agreement to lease one equipment asset to a lessee.
type LeaseContract struct {
	ID                            uuid.UUID       `json:"id" db:"id"`
	Name                          string          `json:"name" db:"name"`
	Lessee                        string          `json:"lessee" db:"lessee"`
	LeasedEquipment               string          `json:"leased_equipment" db:"leased_equipment"`
	RentItem                      string          `json:"rent_item" db:"rent_item"`
	StartDate                     *time.Time      `json:"start_date" db:"start_date"`
	EndDate                       *time.Time      `json:"end_date" db:"end_date"`
	BillingCycle                  string          `json:"billing_cycle" db:"billing_cycle"`
	LeaseAmount                   decimal.Decimal `json:"lease_amount" db:"lease_amount"`
	PlatformCommissionPercentage  decimal.Decimal `json:"platform_commission_percentage" db:"platform_commission_percentage"`
	PlatformCommissionAmount      decimal.Decimal `json:"platform_commission_amount" db:"platform_commission_amount"`
	TotalAgreedHours              decimal.Decimal `json:"total_agreed_hours" db:"total_agreed_hours"`
	HourlyRate                    decimal.Decimal `json:"hourly_rate" db:"hourly_rate"`
	ContractDays                  int             `json:"contract_days" db:"contract_days"`
	TotalLeaseAmount              decimal.Decimal `json:"total_lease_amount" db:"total_lease_amount"`
	TotalPlatformCommissionAmount decimal.Decimal `json:"total_platform_commission_amount" db:"total_platform_commission_amount"`
	TotalOwnerAmount              decimal.Decimal `json:"total_owner_amount" db:"total_owner_amount"`
	DocStatus                     int             `json:"docstatus" db:"docstatus"`
	Version                       int             `json:"version" db:"version"`
	CreatedAt                     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                     time.Time       `json:"updated_at" db:"updated_at"`

	Schedule []*PaymentScheduleRow `json:"payment_schedule" db:"-"`
}

// IsSubmitted reports whether the contract has been finalized
func (c *LeaseContract) IsSubmitted() bool {
	return c.DocStatus == DocStatusSubmitted
}

// IsCancelled reports whether the contract has been cancelled
func (c *LeaseContract) IsCancelled() bool {
	return c.DocStatus == DocStatusCancelled
}

// ContractTerms is the commercial part of a contract the caller may edit.
type ContractTerms struct {
	Lessee                       string          `json:"lessee" validate:"required"`
	LeasedEquipment              string          `json:"leased_equipment" validate:"required"`
	RentItem                     string          `json:"rent_item"`
	StartDate                    *time.Time      `json:"start_date"`
	EndDate                      *time.Time      `json:"end_date"`
	BillingCycle                 string          `json:"billing_cycle"`
	LeaseAmount                  decimal.Decimal `json:"lease_amount" validate:"decimal_gte_zero"`
	PlatformCommissionPercentage decimal.Decimal `json:"platform_commission_percentage" validate:"decimal_gte_zero"`
	TotalAgreedHours             decimal.Decimal `json:"total_agreed_hours" validate:"decimal_gte_zero"`
}

// Apply copies the editable terms onto the contract
func (t ContractTerms) Apply(c *LeaseContract) {
	c.Lessee = t.Lessee
	c.LeasedEquipment = t.LeasedEquipment
	c.RentItem = t.RentItem
	c.StartDate = t.StartDate
	c.EndDate = t.EndDate
	c.BillingCycle = t.BillingCycle
	c.LeaseAmount = t.LeaseAmount
	c.PlatformCommissionPercentage = t.PlatformCommissionPercentage
	c.TotalAgreedHours = t.TotalAgreedHours
}

// DTOs for requests and responses

type SaveContractRequest struct {
	ContractTerms
	// Version is required on update and must match the stored version.
	Version int `json:"version"`
}

type ContractResponse struct {
	Contract *LeaseContract `json:"contract"`
}
