package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/lock"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/tests/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var manager = domain.Identity{User: "ops@example.com", Roles: []string{"Accounts User"}}

func newContractService(t *testing.T) (*ContractService, *mocks.MockContractRepository, *mocks.MockItemRepository, *lock.MemoryLocker) {
	contracts := &mocks.MockContractRepository{}
	items := &mocks.MockItemRepository{}
	locker := lock.NewMemoryLocker()
	svc := NewContractService(contracts, items, locker, testNode(t), testConfig(), zap.NewNop())
	return svc, contracts, items, locker
}

func quarterTerms() domain.ContractTerms {
	return domain.ContractTerms{
		Lessee:                       "Acme Builders",
		LeasedEquipment:              "EXC-01",
		StartDate:                    datePtr(2023, 1, 1),
		EndDate:                      datePtr(2023, 3, 31),
		BillingCycle:                 domain.BillingCycleMonthly,
		LeaseAmount:                  decimal.NewFromInt(1000),
		PlatformCommissionPercentage: decimal.NewFromInt(10),
		TotalAgreedHours:             decimal.NewFromInt(100),
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	be, ok := customError.AsBusinessError(err)
	require.True(t, ok, "expected business error, got %v", err)
	return be.Code
}

func TestContractService_Create(t *testing.T) {
	t.Run("generates schedule and resolves rent item", func(t *testing.T) {
		svc, contracts, items, _ := newContractService(t)

		items.On("FindByAsset", mock.Anything, "EXC-01").Return(&domain.Item{ItemCode: "EXC-01-RENT", Asset: "EXC-01"}, nil)
		contracts.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.LeaseContract) bool {
			return strings.HasPrefix(c.Name, "ELC-") && len(c.Schedule) == 3
		})).Return(nil)

		contract, err := svc.Create(context.Background(), manager, &domain.SaveContractRequest{ContractTerms: quarterTerms()})

		require.NoError(t, err)
		assert.Equal(t, "EXC-01-RENT", contract.RentItem)
		assert.Equal(t, domain.DocStatusDraft, contract.DocStatus)
		assert.True(t, contract.PlatformCommissionAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, contract.HourlyRate.Equal(decimal.NewFromInt(10)))
		assert.True(t, contract.TotalLeaseAmount.Equal(decimal.NewFromInt(3000)))
		assert.True(t, contract.TotalOwnerAmount.Equal(decimal.NewFromInt(2700)))
		assert.Equal(t, 0, contract.ContractDays)
		for _, row := range contract.Schedule {
			assert.Equal(t, contract.Name, row.ContractName)
		}
		contracts.AssertExpectations(t)
	})

	t.Run("keeps explicit rent item", func(t *testing.T) {
		svc, contracts, items, _ := newContractService(t)
		terms := quarterTerms()
		terms.RentItem = "CUSTOM-RENT"

		contracts.On("Create", mock.Anything, mock.Anything).Return(nil)

		contract, err := svc.Create(context.Background(), manager, &domain.SaveContractRequest{ContractTerms: terms})

		require.NoError(t, err)
		assert.Equal(t, "CUSTOM-RENT", contract.RentItem)
		items.AssertNotCalled(t, "FindByAsset", mock.Anything, mock.Anything)
	})

	t.Run("asset without rent item", func(t *testing.T) {
		svc, contracts, items, _ := newContractService(t)

		items.On("FindByAsset", mock.Anything, "EXC-01").Return(nil, customError.ErrItemNotFound)
		contracts.On("Create", mock.Anything, mock.Anything).Return(nil)

		contract, err := svc.Create(context.Background(), manager, &domain.SaveContractRequest{ContractTerms: quarterTerms()})

		require.NoError(t, err)
		assert.Empty(t, contract.RentItem)
	})

	t.Run("guest is rejected", func(t *testing.T) {
		svc, _, _, _ := newContractService(t)

		_, err := svc.Create(context.Background(), domain.Identity{User: domain.UserGuest}, &domain.SaveContractRequest{ContractTerms: quarterTerms()})

		assert.Equal(t, customError.ErrCodeForbidden, errorCode(t, err))
	})
}

func TestContractService_Update(t *testing.T) {
	ctx := context.Background()

	draft := func() *domain.LeaseContract {
		c := &domain.LeaseContract{Name: "ELC-1", Version: 2, RentItem: "EXC-01-RENT"}
		quarterTerms().Apply(c)
		return c
	}

	t.Run("regenerates schedule", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		terms := quarterTerms()
		terms.RentItem = "EXC-01-RENT"
		terms.BillingCycle = domain.BillingCycleWeekly

		contracts.On("GetByName", mock.Anything, "ELC-1").Return(draft(), nil)
		contracts.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.LeaseContract) bool {
			return c.BillingCycle == domain.BillingCycleWeekly && len(c.Schedule) == 13
		})).Return(nil)

		contract, err := svc.Update(ctx, manager, "ELC-1", &domain.SaveContractRequest{ContractTerms: terms, Version: 2})

		require.NoError(t, err)
		assert.Len(t, contract.Schedule, 13)
		contracts.AssertExpectations(t)
	})

	t.Run("stale version", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		contracts.On("GetByName", mock.Anything, "ELC-1").Return(draft(), nil)

		_, err := svc.Update(ctx, manager, "ELC-1", &domain.SaveContractRequest{ContractTerms: quarterTerms(), Version: 1})

		assert.Equal(t, customError.ErrCodeConcurrentModification, errorCode(t, err))
		contracts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("concurrent save detected by store", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		contracts.On("GetByName", mock.Anything, "ELC-1").Return(draft(), nil)
		contracts.On("Update", mock.Anything, mock.Anything).Return(customError.ErrConcurrentModification)

		terms := quarterTerms()
		terms.RentItem = "EXC-01-RENT"
		_, err := svc.Update(ctx, manager, "ELC-1", &domain.SaveContractRequest{ContractTerms: terms, Version: 2})

		assert.Equal(t, customError.ErrCodeConcurrentModification, errorCode(t, err))
	})

	t.Run("cancelled contract", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		cancelled := draft()
		cancelled.DocStatus = domain.DocStatusCancelled
		contracts.On("GetByName", mock.Anything, "ELC-1").Return(cancelled, nil)

		_, err := svc.Update(ctx, manager, "ELC-1", &domain.SaveContractRequest{ContractTerms: quarterTerms(), Version: 2})

		assert.Equal(t, customError.ErrCodeContractCancelled, errorCode(t, err))
	})

	t.Run("locked by reconciler", func(t *testing.T) {
		svc, contracts, _, locker := newContractService(t)
		_, ok, err := locker.TryLock(ctx, lock.ContractKey("ELC-1"), time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = svc.Update(ctx, manager, "ELC-1", &domain.SaveContractRequest{ContractTerms: quarterTerms(), Version: 2})

		assert.Equal(t, customError.ErrCodeContractLocked, errorCode(t, err))
		contracts.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})

	t.Run("submitted contract keeps claims under preserve policy", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		svc.config.Lease.RegeneratePolicy = config.RegeneratePolicyPreserveClaimed

		submitted := draft()
		submitted.DocStatus = domain.DocStatusSubmitted
		submitted.Schedule = []*domain.PaymentScheduleRow{
			scheduleRow(1, date(2023, 1, 1), "SINV-1", domain.InvoiceStatusPaid),
		}
		contracts.On("GetByName", mock.Anything, "ELC-1").Return(submitted, nil)
		contracts.On("Update", mock.Anything, mock.Anything).Return(nil)

		terms := quarterTerms()
		terms.RentItem = "EXC-01-RENT"
		terms.LeaseAmount = decimal.NewFromInt(1200)
		contract, err := svc.Update(ctx, manager, "ELC-1", &domain.SaveContractRequest{ContractTerms: terms, Version: 2})

		require.NoError(t, err)
		require.Len(t, contract.Schedule, 3)
		assert.Equal(t, "SINV-1", contract.Schedule[0].Invoice)
		assert.Equal(t, domain.InvoiceStatusPaid, contract.Schedule[0].Status)
		assert.True(t, contract.Schedule[1].Amount.Equal(decimal.NewFromInt(1200)))
	})
}

func TestContractService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("computes contract days", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		c := &domain.LeaseContract{Name: "ELC-1", Version: 1, RentItem: "EXC-01-RENT"}
		quarterTerms().Apply(c)

		contracts.On("GetByName", mock.Anything, "ELC-1").Return(c, nil)
		contracts.On("Update", mock.Anything, mock.Anything).Return(nil)

		contract, err := svc.Submit(ctx, manager, "ELC-1")

		require.NoError(t, err)
		assert.True(t, contract.IsSubmitted())
		assert.Equal(t, 90, contract.ContractDays)
		assert.Len(t, contract.Schedule, 3)
	})

	t.Run("already submitted", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		contracts.On("GetByName", mock.Anything, "ELC-1").
			Return(&domain.LeaseContract{Name: "ELC-1", DocStatus: domain.DocStatusSubmitted}, nil)

		_, err := svc.Submit(ctx, manager, "ELC-1")

		assert.Equal(t, customError.ErrCodeContractAlreadySubmitted, errorCode(t, err))
	})

	t.Run("not found", func(t *testing.T) {
		svc, contracts, _, _ := newContractService(t)
		contracts.On("GetByName", mock.Anything, "ELC-X").Return(nil, customError.ErrContractNotFound)

		_, err := svc.Submit(ctx, manager, "ELC-X")

		assert.Equal(t, customError.ErrCodeContractNotFound, errorCode(t, err))
	})
}

func TestContractService_Cancel(t *testing.T) {
	svc, contracts, _, _ := newContractService(t)
	contracts.On("GetByName", mock.Anything, "ELC-1").
		Return(&domain.LeaseContract{Name: "ELC-1", DocStatus: domain.DocStatusSubmitted}, nil)
	contracts.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.LeaseContract) bool {
		return c.IsCancelled()
	})).Return(nil)

	contract, err := svc.Cancel(context.Background(), manager, "ELC-1")

	require.NoError(t, err)
	assert.True(t, contract.IsCancelled())
	contracts.AssertExpectations(t)
}

func TestContractService_Get(t *testing.T) {
	svc, contracts, _, _ := newContractService(t)
	contracts.On("GetByName", mock.Anything, "ELC-1").Return(nil, errors.New("connection reset"))

	_, err := svc.Get(context.Background(), "ELC-1")

	assert.Equal(t, customError.ErrCodeDatabaseError, errorCode(t, err))
}
