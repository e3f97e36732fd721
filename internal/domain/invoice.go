package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice lifecycle statuses
const (
	InvoiceStatusDraft      = "Draft"
	InvoiceStatusUnpaid     = "Unpaid"
	InvoiceStatusPartlyPaid = "Partly Paid"
	InvoiceStatusOverdue    = "Overdue"
	InvoiceStatusPaid       = "Paid"
	InvoiceStatusCancelled  = "Cancelled"
)

// Invoice is a sales invoice issued to a lessee for one schedule row
type Invoice struct {
	Name              string          `json:"name" db:"name"`
	Customer          string          `json:"customer" db:"customer"`
	PostingDate       time.Time       `json:"posting_date" db:"posting_date"`
	DueDate           time.Time       `json:"due_date" db:"due_date"`
	Asset             string          `json:"asset" db:"asset"`
	LeaseContract     string          `json:"lease_contract" db:"lease_contract"`
	GrandTotal        decimal.Decimal `json:"grand_total" db:"grand_total"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount" db:"outstanding_amount"`
	DocStatus         int             `json:"docstatus" db:"docstatus"`
	Status            string          `json:"status" db:"status"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	Items []*InvoiceItem `json:"items" db:"-"`
}

// InvoiceItem is one line of an invoice
type InvoiceItem struct {
	InvoiceName   string          `json:"-" db:"invoice_name"`
	Idx           int             `json:"idx" db:"idx"`
	ItemCode      string          `json:"item_code" db:"item_code"`
	ItemName      string          `json:"item_name" db:"item_name"`
	Qty           decimal.Decimal `json:"qty" db:"qty"`
	Rate          decimal.Decimal `json:"rate" db:"rate"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Asset         string          `json:"asset" db:"asset"`
	IncomeAccount string          `json:"income_account" db:"income_account"`
}

// InvoiceLine is the caller's description of an invoice item
type InvoiceLine struct {
	ItemCode      string
	Qty           decimal.Decimal
	Rate          decimal.Decimal
	Asset         string
	IncomeAccount string
}

// IssueInvoiceRequest asks the invoicing subsystem for a new invoice
type IssueInvoiceRequest struct {
	Customer      string
	PostingDate   time.Time
	DueDate       time.Time
	Asset         string
	LeaseContract string
	Lines         []InvoiceLine
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gt_zero"`
}
