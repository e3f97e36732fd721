package mocks

import (
	"context"

	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Issue(ctx context.Context, request *domain.IssueInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Submit(ctx context.Context, name string) (*domain.Invoice, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Cancel(ctx context.Context, name string) (*domain.Invoice, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetStatus(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceService) RecordPayment(ctx context.Context, name string, amount decimal.Decimal) (*domain.Invoice, error) {
	args := m.Called(ctx, name, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) Create(ctx context.Context, caller domain.Identity, request *domain.SaveContractRequest) (*domain.LeaseContract, error) {
	args := m.Called(ctx, caller, request)
	return contractResult(args)
}

func (m *MockContractService) Get(ctx context.Context, name string) (*domain.LeaseContract, error) {
	args := m.Called(ctx, name)
	return contractResult(args)
}

func (m *MockContractService) Update(ctx context.Context, caller domain.Identity, name string, request *domain.SaveContractRequest) (*domain.LeaseContract, error) {
	args := m.Called(ctx, caller, name, request)
	return contractResult(args)
}

func (m *MockContractService) Submit(ctx context.Context, caller domain.Identity, name string) (*domain.LeaseContract, error) {
	args := m.Called(ctx, caller, name)
	return contractResult(args)
}

func (m *MockContractService) Cancel(ctx context.Context, caller domain.Identity, name string) (*domain.LeaseContract, error) {
	args := m.Called(ctx, caller, name)
	return contractResult(args)
}

func contractResult(args mock.Arguments) (*domain.LeaseContract, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseContract), args.Error(1)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) GenerateDueInvoices(ctx context.Context) (*domain.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunResult), args.Error(1)
}

func (m *MockReconciler) SyncScheduleStatus(ctx context.Context) (*domain.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunResult), args.Error(1)
}

func (m *MockReconciler) MarkOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.LoginResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}

func (m *MockAuthService) RegenerateAPIKey(ctx context.Context, caller domain.Identity, target string) (*domain.APICredentials, error) {
	args := m.Called(ctx, caller, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APICredentials), args.Error(1)
}

func (m *MockAuthService) GetAPICredentials(ctx context.Context, caller domain.Identity) (*domain.APICredentialsView, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APICredentialsView), args.Error(1)
}

func (m *MockAuthService) ResolveAPIKey(ctx context.Context, apiKey, apiSecret string) (domain.Identity, error) {
	args := m.Called(ctx, apiKey, apiSecret)
	return args.Get(0).(domain.Identity), args.Error(1)
}

type MockEquipmentService struct {
	mock.Mock
}

func (m *MockEquipmentService) ItemExists(ctx context.Context, itemCode string) (*domain.ItemExistsResponse, error) {
	args := m.Called(ctx, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemExistsResponse), args.Error(1)
}

func (m *MockEquipmentService) CreateItemIfNotExists(ctx context.Context, request *domain.CreateItemRequest) (*domain.CreateItemResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateItemResponse), args.Error(1)
}

func (m *MockEquipmentService) CreateAssetWithItem(ctx context.Context, request *domain.CreateAssetRequest) (*domain.CreateAssetResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateAssetResponse), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, user string) (*session.Session, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionStore) CSRFToken(ctx context.Context, sid string) (string, error) {
	args := m.Called(ctx, sid)
	return args.String(0), args.Error(1)
}
