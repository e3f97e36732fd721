package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const contractColumns = `id, name, lessee, leased_equipment, rent_item, start_date, end_date, billing_cycle,
	lease_amount, platform_commission_percentage, platform_commission_amount, total_agreed_hours, hourly_rate,
	contract_days, total_lease_amount, total_platform_commission_amount, total_owner_amount,
	docstatus, version, created_at, updated_at`

const scheduleColumns = `id, contract_name, idx, due_date, amount, platform_commission_amount, owner_amount, status, invoice`

type contractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.LeaseContract) error {
	query := `
		INSERT INTO lease_contracts (` + contractColumns + `)
		VALUES (:id, :name, :lessee, :leased_equipment, :rent_item, :start_date, :end_date, :billing_cycle,
			:lease_amount, :platform_commission_percentage, :platform_commission_amount, :total_agreed_hours, :hourly_rate,
			:contract_days, :total_lease_amount, :total_platform_commission_amount, :total_owner_amount,
			:docstatus, :version, :created_at, :updated_at)
	`

	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	now := time.Now().UTC()
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = now
	}
	contract.UpdatedAt = now
	if contract.Version == 0 {
		contract.Version = 1
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, query, contract); err != nil {
		return err
	}
	if err = insertSchedule(ctx, tx, contract.Name, contract.Schedule); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *contractRepository) GetByName(ctx context.Context, name string) (*domain.LeaseContract, error) {
	query := `SELECT ` + contractColumns + ` FROM lease_contracts WHERE name = $1`

	var contract domain.LeaseContract
	err := r.db.GetContext(ctx, &contract, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.ErrContractNotFound
	}
	if err != nil {
		return nil, err
	}

	scheduleQuery := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedule
		WHERE contract_name = $1
		ORDER BY idx
	`

	var rows []*domain.PaymentScheduleRow
	if err := r.db.SelectContext(ctx, &rows, scheduleQuery, name); err != nil {
		return nil, err
	}
	contract.Schedule = rows

	return &contract, nil
}

func (r *contractRepository) Update(ctx context.Context, contract *domain.LeaseContract) error {
	query := `
		UPDATE lease_contracts
		SET lessee = :lessee, leased_equipment = :leased_equipment, rent_item = :rent_item,
			start_date = :start_date, end_date = :end_date, billing_cycle = :billing_cycle,
			lease_amount = :lease_amount, platform_commission_percentage = :platform_commission_percentage,
			platform_commission_amount = :platform_commission_amount, total_agreed_hours = :total_agreed_hours,
			hourly_rate = :hourly_rate, contract_days = :contract_days, total_lease_amount = :total_lease_amount,
			total_platform_commission_amount = :total_platform_commission_amount,
			total_owner_amount = :total_owner_amount, docstatus = :docstatus,
			version = version + 1, updated_at = :updated_at
		WHERE name = :name AND version = :version
	`

	contract.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.NamedExecContext(ctx, query, contract)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrConcurrentModification
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM payment_schedule WHERE contract_name = $1`, contract.Name); err != nil {
		return err
	}
	if err = insertSchedule(ctx, tx, contract.Name, contract.Schedule); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	contract.Version++
	return nil
}

func (r *contractRepository) ListSubmittedNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM lease_contracts
		WHERE docstatus = $1
		ORDER BY name
	`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, domain.DocStatusSubmitted); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *contractRepository) ClaimScheduleRow(ctx context.Context, rowID uuid.UUID, invoice, status string) (bool, error) {
	query := `
		UPDATE payment_schedule
		SET invoice = $2, status = $3
		WHERE id = $1 AND invoice = ''
	`

	result, err := r.db.ExecContext(ctx, query, rowID, invoice, status)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *contractRepository) UpdateScheduleStatus(ctx context.Context, rowID uuid.UUID, status string) error {
	query := `
		UPDATE payment_schedule
		SET status = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, rowID, status)
	return err
}

func (r *contractRepository) Touch(ctx context.Context, name string) error {
	query := `
		UPDATE lease_contracts
		SET version = version + 1, updated_at = $2
		WHERE name = $1
	`

	result, err := r.db.ExecContext(ctx, query, name, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrContractNotFound
	}
	return nil
}

func insertSchedule(ctx context.Context, tx *sqlx.Tx, contractName string, rows []*domain.PaymentScheduleRow) error {
	query := `
		INSERT INTO payment_schedule (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.ContractName = contractName

		_, err := tx.ExecContext(ctx, query,
			row.ID,
			row.ContractName,
			row.Idx,
			row.DueDate,
			row.Amount,
			row.PlatformCommissionAmount,
			row.OwnerAmount,
			row.Status,
			row.Invoice,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
