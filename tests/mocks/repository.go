package mocks

import (
	"context"
	"time"

	"github.com/segyhp/equipment-lease/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, contract *domain.LeaseContract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) GetByName(ctx context.Context, name string) (*domain.LeaseContract, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseContract), args.Error(1)
}

func (m *MockContractRepository) Update(ctx context.Context, contract *domain.LeaseContract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) ListSubmittedNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContractRepository) ClaimScheduleRow(ctx context.Context, rowID uuid.UUID, invoice, status string) (bool, error) {
	args := m.Called(ctx, rowID, invoice, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockContractRepository) UpdateScheduleStatus(ctx context.Context, rowID uuid.UUID, status string) error {
	args := m.Called(ctx, rowID, status)
	return args.Error(0)
}

func (m *MockContractRepository) Touch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByName(ctx context.Context, name string) (*domain.Invoice, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetStatus(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}
