package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const invoiceColumns = `name, customer, posting_date, due_date, asset, lease_contract, grand_total,
	outstanding_amount, docstatus, status, created_at, updated_at`

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO sales_invoices (` + invoiceColumns + `)
		VALUES (:name, :customer, :posting_date, :due_date, :asset, :lease_contract, :grand_total,
			:outstanding_amount, :docstatus, :status, :created_at, :updated_at)
	`
	itemQuery := `
		INSERT INTO sales_invoice_items (invoice_name, idx, item_code, item_name, qty, rate, amount, asset, income_account)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = now
	}
	invoice.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, query, invoice); err != nil {
		return err
	}

	for i, item := range invoice.Items {
		item.InvoiceName = invoice.Name
		if item.Idx == 0 {
			item.Idx = i + 1
		}
		_, err = tx.ExecContext(ctx, itemQuery,
			item.InvoiceName,
			item.Idx,
			item.ItemCode,
			item.ItemName,
			item.Qty,
			item.Rate,
			item.Amount,
			item.Asset,
			item.IncomeAccount,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *invoiceRepository) GetByName(ctx context.Context, name string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM sales_invoices WHERE name = $1`

	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}

	itemQuery := `
		SELECT invoice_name, idx, item_code, item_name, qty, rate, amount, asset, income_account
		FROM sales_invoice_items
		WHERE invoice_name = $1
		ORDER BY idx
	`

	var items []*domain.InvoiceItem
	if err := r.db.SelectContext(ctx, &items, itemQuery, name); err != nil {
		return nil, err
	}
	invoice.Items = items

	return &invoice, nil
}

func (r *invoiceRepository) GetStatus(ctx context.Context, name string) (string, error) {
	var status string
	err := r.db.GetContext(ctx, &status, `SELECT status FROM sales_invoices WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", customError.ErrInvoiceNotFound
	}
	return status, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		UPDATE sales_invoices
		SET docstatus = $2, status = $3, outstanding_amount = $4, updated_at = $5
		WHERE name = $1
	`

	invoice.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		invoice.Name,
		invoice.DocStatus,
		invoice.Status,
		invoice.OutstandingAmount,
		invoice.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE sales_invoices
		SET status = $1, updated_at = $2
		WHERE docstatus = $3 AND status = ANY($4) AND due_date < $5 AND outstanding_amount > 0
	`

	open := pq.StringArray{domain.InvoiceStatusUnpaid, domain.InvoiceStatusPartlyPaid}
	result, err := r.db.ExecContext(ctx, query,
		domain.InvoiceStatusOverdue,
		time.Now().UTC(),
		domain.DocStatusSubmitted,
		open,
		today,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
