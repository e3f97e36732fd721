package service

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/equipment-lease/internal/clock"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/repository"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/utils"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const invoiceNamePrefix = "SINV-"

// InvoiceIssuer is the part of the invoicing subsystem the reconciler drives
type InvoiceIssuer interface {
	Issue(ctx context.Context, request *domain.IssueInvoiceRequest) (*domain.Invoice, error)
	Submit(ctx context.Context, name string) (*domain.Invoice, error)
	Cancel(ctx context.Context, name string) (*domain.Invoice, error)
	GetStatus(ctx context.Context, name string) (string, error)
	MarkOverdue(ctx context.Context) (int64, error)
}

type InvoiceService struct {
	InvoiceRepo repository.InvoiceRepository
	ItemRepo    repository.ItemRepository
	names       *snowflake.Node
	clock       clock.Clock
	logger      *zap.Logger
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.ItemRepository,
	names *snowflake.Node,
	clk clock.Clock,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		InvoiceRepo: invoiceRepo,
		ItemRepo:    itemRepo,
		names:       names,
		clock:       clk,
		logger:      logger.Named("invoices"),
	}
}

// Issue creates a draft invoice from the requested lines
func (s *InvoiceService) Issue(ctx context.Context, request *domain.IssueInvoiceRequest) (*domain.Invoice, error) {
	invoice := &domain.Invoice{
		Name:          invoiceNamePrefix + s.names.Generate().String(),
		Customer:      request.Customer,
		PostingDate:   utils.DateOnly(request.PostingDate),
		DueDate:       utils.DateOnly(request.DueDate),
		Asset:         request.Asset,
		LeaseContract: request.LeaseContract,
		DocStatus:     domain.DocStatusDraft,
		Status:        domain.InvoiceStatusDraft,
	}

	total := decimal.Zero
	for i, line := range request.Lines {
		itemName, err := s.itemName(ctx, line.ItemCode)
		if err != nil {
			return nil, err
		}

		qty := line.Qty
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		amount := qty.Mul(line.Rate)
		total = total.Add(amount)

		invoice.Items = append(invoice.Items, &domain.InvoiceItem{
			InvoiceName:   invoice.Name,
			Idx:           i + 1,
			ItemCode:      line.ItemCode,
			ItemName:      itemName,
			Qty:           qty,
			Rate:          line.Rate,
			Amount:        amount,
			Asset:         line.Asset,
			IncomeAccount: line.IncomeAccount,
		})
	}
	invoice.GrandTotal = total
	invoice.OutstandingAmount = total

	if err := s.InvoiceRepo.Create(ctx, invoice); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return invoice, nil
}

// Submit finalizes a draft invoice
func (s *InvoiceService) Submit(ctx context.Context, name string) (*domain.Invoice, error) {
	invoice, err := s.get(ctx, name)
	if err != nil {
		return nil, err
	}
	if invoice.DocStatus != domain.DocStatusDraft {
		return invoice, nil
	}

	invoice.DocStatus = domain.DocStatusSubmitted
	invoice.Status = StatusOf(invoice, s.today())
	if err := s.save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Cancel voids an invoice in any state
func (s *InvoiceService) Cancel(ctx context.Context, name string) (*domain.Invoice, error) {
	invoice, err := s.get(ctx, name)
	if err != nil {
		return nil, err
	}
	if invoice.DocStatus == domain.DocStatusCancelled {
		return invoice, nil
	}

	invoice.DocStatus = domain.DocStatusCancelled
	invoice.Status = domain.InvoiceStatusCancelled
	if err := s.save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice cancelled", zap.String("invoice", name))
	return invoice, nil
}

// RecordPayment reduces the outstanding amount of a submitted invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, name string, amount decimal.Decimal) (*domain.Invoice, error) {
	invoice, err := s.get(ctx, name)
	if err != nil {
		return nil, err
	}
	if invoice.DocStatus != domain.DocStatusSubmitted {
		return nil, customError.WrapInvoiceNotSubmitted(name)
	}
	if !amount.IsPositive() || amount.GreaterThan(invoice.OutstandingAmount) {
		return nil, customError.WrapInvalidPaymentAmount(amount.String(), invoice.OutstandingAmount.String())
	}

	invoice.OutstandingAmount = invoice.OutstandingAmount.Sub(amount)
	invoice.Status = StatusOf(invoice, s.today())
	if err := s.save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("invoice", name),
		zap.String("amount", amount.String()),
		zap.String("status", invoice.Status),
	)
	return invoice, nil
}

func (s *InvoiceService) GetStatus(ctx context.Context, name string) (string, error) {
	status, err := s.InvoiceRepo.GetStatus(ctx, name)
	if errors.Is(err, customError.ErrInvoiceNotFound) {
		return "", customError.WrapInvoiceNotFound(name)
	}
	if err != nil {
		return "", customError.WrapDatabaseError(err)
	}
	return status, nil
}

// MarkOverdue flags open invoices whose due date has passed
func (s *InvoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.InvoiceRepo.MarkOverdue(ctx, s.today())
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}
	if n > 0 {
		s.logger.Info("invoices marked overdue", zap.Int64("count", n))
	}
	return n, nil
}

// StatusOf derives the lifecycle status of an invoice on a given day
func StatusOf(invoice *domain.Invoice, today time.Time) string {
	switch {
	case invoice.DocStatus == domain.DocStatusCancelled:
		return domain.InvoiceStatusCancelled
	case invoice.DocStatus == domain.DocStatusDraft:
		return domain.InvoiceStatusDraft
	case !invoice.OutstandingAmount.IsPositive():
		return domain.InvoiceStatusPaid
	case utils.DateOnly(invoice.DueDate).Before(today):
		return domain.InvoiceStatusOverdue
	case invoice.OutstandingAmount.LessThan(invoice.GrandTotal):
		return domain.InvoiceStatusPartlyPaid
	default:
		return domain.InvoiceStatusUnpaid
	}
}

func (s *InvoiceService) itemName(ctx context.Context, itemCode string) (string, error) {
	item, err := s.ItemRepo.GetByCode(ctx, itemCode)
	if errors.Is(err, customError.ErrItemNotFound) {
		return itemCode, nil
	}
	if err != nil {
		return "", customError.WrapDatabaseError(err)
	}
	if item.ItemName == "" {
		return itemCode, nil
	}
	return item.ItemName, nil
}

func (s *InvoiceService) get(ctx context.Context, name string) (*domain.Invoice, error) {
	invoice, err := s.InvoiceRepo.GetByName(ctx, name)
	if errors.Is(err, customError.ErrInvoiceNotFound) {
		return nil, customError.WrapInvoiceNotFound(name)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return invoice, nil
}

func (s *InvoiceService) save(ctx context.Context, invoice *domain.Invoice) error {
	err := s.InvoiceRepo.Update(ctx, invoice)
	if errors.Is(err, customError.ErrInvoiceNotFound) {
		return customError.WrapInvoiceNotFound(invoice.Name)
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *InvoiceService) today() time.Time {
	return utils.DateOnly(s.clock.Now())
}
