package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/equipment-lease/internal/clock"
	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/lock"
	"github.com/segyhp/equipment-lease/internal/metrics"
	"github.com/segyhp/equipment-lease/internal/repository"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Reconciler issues invoices for due schedule rows and mirrors invoice
// statuses back onto the rows. Every contract is processed under its lock.
type Reconciler struct {
	ContractRepo repository.ContractRepository
	Invoices     InvoiceIssuer
	locker       lock.Locker
	clock        clock.Clock
	metrics      *metrics.ReconcilerMetrics
	config       *config.Config
	logger       *zap.Logger
}

func NewReconciler(
	contractRepo repository.ContractRepository,
	invoices InvoiceIssuer,
	locker lock.Locker,
	clk clock.Clock,
	m *metrics.ReconcilerMetrics,
	config *config.Config,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		ContractRepo: contractRepo,
		Invoices:     invoices,
		locker:       locker,
		clock:        clk,
		metrics:      m,
		config:       config,
		logger:       logger.Named("reconciler"),
	}
}

// GenerateDueInvoices invoices every unclaimed row of a submitted contract
// whose due date is today or earlier.
func (r *Reconciler) GenerateDueInvoices(ctx context.Context) (*domain.RunResult, error) {
	return r.run(ctx, metrics.PassGenerateInvoices, r.generateForContract)
}

// SyncScheduleStatus copies the current invoice status onto every claimed
// row whose stored status differs.
func (r *Reconciler) SyncScheduleStatus(ctx context.Context) (*domain.RunResult, error) {
	return r.run(ctx, metrics.PassSyncStatus, r.syncContract)
}

// MarkOverdue flags late open invoices so the next sync carries Overdue onto
// their rows.
func (r *Reconciler) MarkOverdue(ctx context.Context) (n int64, err error) {
	started := time.Now()
	defer func() { r.metrics.ObserveRun(metrics.PassMarkOverdue, started, err) }()

	n, err = r.Invoices.MarkOverdue(ctx)
	if err != nil {
		r.metrics.IncError(metrics.PassMarkOverdue, err)
		return 0, err
	}
	return n, nil
}

type contractOutcome struct {
	changed    int
	lostClaims int
	failed     int
	errs       []error
}

func (r *Reconciler) run(
	ctx context.Context,
	pass string,
	process func(ctx context.Context, contract *domain.LeaseContract) contractOutcome,
) (result *domain.RunResult, err error) {
	started := time.Now()
	result = &domain.RunResult{Pass: pass, Skipped: []string{}}
	defer func() { r.metrics.ObserveRun(pass, started, err) }()

	names, err := r.ContractRepo.ListSubmittedNames(ctx)
	if err != nil {
		err = customError.WrapDatabaseError(err)
		r.metrics.IncError(pass, err)
		return result, err
	}

	var errs []error
	for _, name := range names {
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs = append(errs, ctxErr)
			break
		}

		var outcome contractOutcome
		held, lockErr := withContractLock(ctx, r.locker, r.config.GetLockTTL(), name, r.logger, func() error {
			contract, err := r.ContractRepo.GetByName(ctx, name)
			if err != nil {
				if errors.Is(err, customError.ErrContractNotFound) {
					return nil
				}
				return customError.WrapDatabaseError(err)
			}
			// cancelled or reopened since the listing
			if !contract.IsSubmitted() {
				return nil
			}

			outcome = process(ctx, contract)
			if outcome.changed == 0 {
				return nil
			}
			if err := r.ContractRepo.Touch(ctx, name); err != nil {
				return customError.WrapDatabaseError(err)
			}
			return nil
		})

		if lockErr != nil {
			outcome.errs = append(outcome.errs, fmt.Errorf("contract %s: %w", name, lockErr))
			r.metrics.IncError(pass, lockErr)
			r.logger.Error("contract pass failed", zap.String("pass", pass), zap.String("contract", name), zap.Error(lockErr))
		}
		if !held && lockErr == nil {
			result.Skipped = append(result.Skipped, name)
			r.metrics.IncSkipped(pass)
			r.logger.Info("contract locked, skipped", zap.String("pass", pass), zap.String("contract", name))
			continue
		}

		result.Contracts++
		result.RowsChanged += outcome.changed
		result.LostClaims += outcome.lostClaims
		result.Failed += outcome.failed
		errs = append(errs, outcome.errs...)
	}

	err = errors.Join(errs...)
	r.logger.Info("reconciler pass finished",
		zap.String("pass", pass),
		zap.Int("contracts", result.Contracts),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("rows_changed", result.RowsChanged),
		zap.Int("lost_claims", result.LostClaims),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", time.Since(started)),
	)
	return result, err
}

func (r *Reconciler) generateForContract(ctx context.Context, contract *domain.LeaseContract) contractOutcome {
	var outcome contractOutcome
	today := utils.DateOnly(r.clock.Now())

	for _, row := range contract.Schedule {
		if row.IsClaimed() || utils.DateOnly(row.DueDate).After(today) {
			continue
		}

		claimed, err := r.invoiceRow(ctx, contract, row)
		if err != nil {
			outcome.failed++
			outcome.errs = append(outcome.errs, fmt.Errorf("contract %s row %d: %w", contract.Name, row.Idx, err))
			r.metrics.IncError(metrics.PassGenerateInvoices, err)
			r.metrics.AddRows(metrics.PassGenerateInvoices, metrics.RowFailed, 1)
			r.logger.Error("failed to invoice schedule row",
				zap.String("contract", contract.Name),
				zap.Stringer("row_id", row.ID),
				zap.Int("idx", row.Idx),
				zap.Error(err),
			)
			if r.config.Lease.FailurePolicy == config.FailurePolicyIsolateRows {
				continue
			}
			break
		}

		if !claimed {
			outcome.lostClaims++
			r.metrics.AddRows(metrics.PassGenerateInvoices, metrics.RowLostClaim, 1)
			continue
		}
		outcome.changed++
		r.metrics.AddRows(metrics.PassGenerateInvoices, metrics.RowInvoiced, 1)
	}

	return outcome
}

// invoiceRow issues and submits the invoice of one row, then claims the row.
// When the claim is lost the new invoice is cancelled and claimed is false.
func (r *Reconciler) invoiceRow(ctx context.Context, contract *domain.LeaseContract, row *domain.PaymentScheduleRow) (claimed bool, err error) {
	invoice, err := r.Invoices.Issue(ctx, r.rentInvoiceRequest(contract, row))
	if err != nil {
		return false, err
	}

	// An issued invoice must end up claimed or cancelled, even on shutdown.
	ctx = context.WithoutCancel(ctx)

	submitted, err := r.Invoices.Submit(ctx, invoice.Name)
	if err != nil {
		r.cancelInvoice(ctx, contract.Name, invoice.Name)
		return false, err
	}

	ok, err := r.ContractRepo.ClaimScheduleRow(ctx, row.ID, submitted.Name, row.Status)
	if err != nil {
		r.cancelInvoice(ctx, contract.Name, submitted.Name)
		return false, customError.WrapDatabaseError(err)
	}
	if !ok {
		r.logger.Warn("schedule row already invoiced, cancelling duplicate",
			zap.String("contract", contract.Name),
			zap.Stringer("row_id", row.ID),
			zap.String("invoice", submitted.Name),
		)
		r.cancelInvoice(ctx, contract.Name, submitted.Name)
		return false, nil
	}

	row.Invoice = submitted.Name
	r.logger.Info("schedule row invoiced",
		zap.String("contract", contract.Name),
		zap.Stringer("row_id", row.ID),
		zap.String("invoice", submitted.Name),
		zap.String("due_date", utils.FormatDate(row.DueDate)),
	)
	return true, nil
}

func (r *Reconciler) cancelInvoice(ctx context.Context, contractName, invoiceName string) {
	if _, err := r.Invoices.Cancel(context.WithoutCancel(ctx), invoiceName); err != nil {
		r.logger.Error("failed to cancel invoice",
			zap.String("contract", contractName),
			zap.String("invoice", invoiceName),
			zap.Error(err),
		)
	}
}

// rentInvoiceRequest builds the two-line invoice of a row: the owner share on
// the rent item and the platform share on the commission item.
func (r *Reconciler) rentInvoiceRequest(contract *domain.LeaseContract, row *domain.PaymentScheduleRow) *domain.IssueInvoiceRequest {
	one := decimal.NewFromInt(1)
	return &domain.IssueInvoiceRequest{
		Customer:      contract.Lessee,
		PostingDate:   row.DueDate,
		DueDate:       utils.AddDays(row.DueDate, 1),
		Asset:         contract.LeasedEquipment,
		LeaseContract: contract.Name,
		Lines: []domain.InvoiceLine{
			{
				ItemCode:      contract.RentItem,
				Qty:           one,
				Rate:          row.OwnerAmount,
				Asset:         contract.LeasedEquipment,
				IncomeAccount: r.config.Lease.RentIncomeAccount,
			},
			{
				ItemCode:      r.config.Lease.CommissionItem,
				Qty:           one,
				Rate:          row.PlatformCommissionAmount,
				Asset:         contract.LeasedEquipment,
				IncomeAccount: r.config.Lease.CommissionIncomeAccount,
			},
		},
	}
}

func (r *Reconciler) syncContract(ctx context.Context, contract *domain.LeaseContract) contractOutcome {
	var outcome contractOutcome

	for _, row := range contract.Schedule {
		if !row.IsClaimed() {
			continue
		}

		status, err := r.Invoices.GetStatus(ctx, row.Invoice)
		if err == nil {
			if status == row.Status {
				continue
			}
			if err = r.ContractRepo.UpdateScheduleStatus(ctx, row.ID, status); err != nil {
				err = customError.WrapDatabaseError(err)
			}
		}

		if err != nil {
			outcome.failed++
			outcome.errs = append(outcome.errs, fmt.Errorf("contract %s row %d: %w", contract.Name, row.Idx, err))
			r.metrics.IncError(metrics.PassSyncStatus, err)
			r.metrics.AddRows(metrics.PassSyncStatus, metrics.RowFailed, 1)
			r.logger.Error("failed to sync schedule row",
				zap.String("contract", contract.Name),
				zap.Stringer("row_id", row.ID),
				zap.String("invoice", row.Invoice),
				zap.Error(err),
			)
			if r.config.Lease.FailurePolicy == config.FailurePolicyIsolateRows {
				continue
			}
			break
		}

		row.Status = status
		outcome.changed++
		r.metrics.AddRows(metrics.PassSyncStatus, metrics.RowSynced, 1)
	}

	return outcome
}
