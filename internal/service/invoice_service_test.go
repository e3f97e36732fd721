package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/segyhp/equipment-lease/internal/clock"
	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/tests/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInvoiceService(t *testing.T, today time.Time) (*InvoiceService, *mocks.MockInvoiceRepository, *mocks.MockItemRepository) {
	invoices := &mocks.MockInvoiceRepository{}
	items := &mocks.MockItemRepository{}
	svc := NewInvoiceService(invoices, items, testNode(t), clock.NewFakeClock(today), zap.NewNop())
	return svc, invoices, items
}

func TestInvoiceService_Issue(t *testing.T) {
	svc, invoices, items := newInvoiceService(t, date(2024, 2, 15))

	items.On("GetByCode", mock.Anything, "EXC-01-RENT").Return(&domain.Item{ItemCode: "EXC-01-RENT", ItemName: "Excavator rent"}, nil)
	items.On("GetByCode", mock.Anything, "Platform Commission Income").Return(nil, customError.ErrItemNotFound)
	invoices.On("Create", mock.Anything, mock.Anything).Return(nil)

	invoice, err := svc.Issue(context.Background(), &domain.IssueInvoiceRequest{
		Customer:      "Acme Builders",
		PostingDate:   time.Date(2024, 2, 1, 13, 0, 0, 0, time.UTC),
		DueDate:       date(2024, 2, 2),
		Asset:         "EXC-01",
		LeaseContract: "ELC-1",
		Lines: []domain.InvoiceLine{
			{ItemCode: "EXC-01-RENT", Qty: decimal.NewFromInt(1), Rate: decimal.NewFromInt(900), Asset: "EXC-01"},
			{ItemCode: "Platform Commission Income", Rate: decimal.NewFromInt(100), Asset: "EXC-01"},
		},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(invoice.Name, "SINV-"))
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, date(2024, 2, 1), invoice.PostingDate)
	assert.True(t, invoice.GrandTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, invoice.OutstandingAmount.Equal(invoice.GrandTotal))
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, "Excavator rent", invoice.Items[0].ItemName)
	assert.Equal(t, "Platform Commission Income", invoice.Items[1].ItemName)
	assert.True(t, invoice.Items[1].Qty.Equal(decimal.NewFromInt(1)))
	invoices.AssertExpectations(t)
}

func TestInvoiceService_Submit(t *testing.T) {
	tests := []struct {
		name    string
		dueDate time.Time
		want    string
	}{
		{name: "due in the future", dueDate: date(2024, 2, 16), want: domain.InvoiceStatusUnpaid},
		{name: "due today", dueDate: date(2024, 2, 15), want: domain.InvoiceStatusUnpaid},
		{name: "already late", dueDate: date(2024, 1, 2), want: domain.InvoiceStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, invoices, _ := newInvoiceService(t, date(2024, 2, 15))
			draft := &domain.Invoice{
				Name:              "SINV-1",
				DueDate:           tt.dueDate,
				GrandTotal:        decimal.NewFromInt(1000),
				OutstandingAmount: decimal.NewFromInt(1000),
				Status:            domain.InvoiceStatusDraft,
			}
			invoices.On("GetByName", mock.Anything, "SINV-1").Return(draft, nil)
			invoices.On("Update", mock.Anything, mock.Anything).Return(nil)

			invoice, err := svc.Submit(context.Background(), "SINV-1")

			require.NoError(t, err)
			assert.Equal(t, domain.DocStatusSubmitted, invoice.DocStatus)
			assert.Equal(t, tt.want, invoice.Status)
		})
	}
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	open := func() *domain.Invoice {
		return &domain.Invoice{
			Name:              "SINV-1",
			DueDate:           date(2024, 3, 1),
			GrandTotal:        decimal.NewFromInt(1000),
			OutstandingAmount: decimal.NewFromInt(1000),
			DocStatus:         domain.DocStatusSubmitted,
			Status:            domain.InvoiceStatusUnpaid,
		}
	}

	t.Run("partial", func(t *testing.T) {
		svc, invoices, _ := newInvoiceService(t, date(2024, 2, 15))
		invoices.On("GetByName", mock.Anything, "SINV-1").Return(open(), nil)
		invoices.On("Update", mock.Anything, mock.Anything).Return(nil)

		invoice, err := svc.RecordPayment(ctx, "SINV-1", decimal.NewFromInt(400))

		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusPartlyPaid, invoice.Status)
		assert.True(t, invoice.OutstandingAmount.Equal(decimal.NewFromInt(600)))
	})

	t.Run("full", func(t *testing.T) {
		svc, invoices, _ := newInvoiceService(t, date(2024, 2, 15))
		invoices.On("GetByName", mock.Anything, "SINV-1").Return(open(), nil)
		invoices.On("Update", mock.Anything, mock.Anything).Return(nil)

		invoice, err := svc.RecordPayment(ctx, "SINV-1", decimal.NewFromInt(1000))

		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusPaid, invoice.Status)
	})

	t.Run("overpayment", func(t *testing.T) {
		svc, invoices, _ := newInvoiceService(t, date(2024, 2, 15))
		invoices.On("GetByName", mock.Anything, "SINV-1").Return(open(), nil)

		_, err := svc.RecordPayment(ctx, "SINV-1", decimal.NewFromInt(1001))

		assert.Equal(t, customError.ErrCodeInvalidPaymentAmount, errorCode(t, err))
		invoices.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("draft", func(t *testing.T) {
		svc, invoices, _ := newInvoiceService(t, date(2024, 2, 15))
		draft := open()
		draft.DocStatus = domain.DocStatusDraft
		invoices.On("GetByName", mock.Anything, "SINV-1").Return(draft, nil)

		_, err := svc.RecordPayment(ctx, "SINV-1", decimal.NewFromInt(10))

		assert.Equal(t, customError.ErrCodeInvoiceNotSubmitted, errorCode(t, err))
	})

	t.Run("unknown invoice", func(t *testing.T) {
		svc, invoices, _ := newInvoiceService(t, date(2024, 2, 15))
		invoices.On("GetByName", mock.Anything, "SINV-X").Return(nil, customError.ErrInvoiceNotFound)

		_, err := svc.RecordPayment(ctx, "SINV-X", decimal.NewFromInt(10))

		assert.Equal(t, customError.ErrCodeInvoiceNotFound, errorCode(t, err))
	})
}

func TestInvoiceService_Cancel(t *testing.T) {
	svc, invoices, _ := newInvoiceService(t, date(2024, 2, 15))
	invoices.On("GetByName", mock.Anything, "SINV-1").
		Return(&domain.Invoice{Name: "SINV-1", DocStatus: domain.DocStatusSubmitted, Status: domain.InvoiceStatusUnpaid}, nil)
	invoices.On("Update", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.DocStatus == domain.DocStatusCancelled && inv.Status == domain.InvoiceStatusCancelled
	})).Return(nil)

	_, err := svc.Cancel(context.Background(), "SINV-1")

	require.NoError(t, err)
	invoices.AssertExpectations(t)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	svc, invoices, _ := newInvoiceService(t, time.Date(2024, 2, 15, 18, 45, 0, 0, time.UTC))
	invoices.On("MarkOverdue", mock.Anything, date(2024, 2, 15)).Return(int64(2), nil)

	n, err := svc.MarkOverdue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStatusOf(t *testing.T) {
	today := date(2024, 2, 15)
	base := func(outstanding int64, due time.Time, docstatus int) *domain.Invoice {
		return &domain.Invoice{
			GrandTotal:        decimal.NewFromInt(1000),
			OutstandingAmount: decimal.NewFromInt(outstanding),
			DueDate:           due,
			DocStatus:         docstatus,
		}
	}

	tests := []struct {
		name    string
		invoice *domain.Invoice
		want    string
	}{
		{"draft", base(1000, today, domain.DocStatusDraft), domain.InvoiceStatusDraft},
		{"cancelled", base(1000, today, domain.DocStatusCancelled), domain.InvoiceStatusCancelled},
		{"unpaid", base(1000, today, domain.DocStatusSubmitted), domain.InvoiceStatusUnpaid},
		{"partly paid", base(300, today, domain.DocStatusSubmitted), domain.InvoiceStatusPartlyPaid},
		{"overdue", base(300, date(2024, 2, 14), domain.DocStatusSubmitted), domain.InvoiceStatusOverdue},
		{"paid late", base(0, date(2024, 1, 1), domain.DocStatusSubmitted), domain.InvoiceStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.invoice, today))
		})
	}
}
