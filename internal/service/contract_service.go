package service

import (
	"context"
	"errors"

	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/lock"
	"github.com/segyhp/equipment-lease/internal/repository"
	"github.com/segyhp/equipment-lease/internal/schedule"
	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

const contractNamePrefix = "ELC-"

type ContractService struct {
	ContractRepo repository.ContractRepository
	ItemRepo     repository.ItemRepository
	locker       lock.Locker
	names        *snowflake.Node
	config       *config.Config
	logger       *zap.Logger
}

func NewContractService(
	contractRepo repository.ContractRepository,
	itemRepo repository.ItemRepository,
	locker lock.Locker,
	names *snowflake.Node,
	config *config.Config,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		ContractRepo: contractRepo,
		ItemRepo:     itemRepo,
		locker:       locker,
		names:        names,
		config:       config,
		logger:       logger.Named("contracts"),
	}
}

// Create stores a new draft contract with its generated schedule
func (s *ContractService) Create(ctx context.Context, caller domain.Identity, request *domain.SaveContractRequest) (*domain.LeaseContract, error) {
	if caller.IsGuest() {
		return nil, customError.WrapForbidden("Login required to create contracts")
	}

	contract := &domain.LeaseContract{
		Name:      contractNamePrefix + s.names.Generate().String(),
		DocStatus: domain.DocStatusDraft,
	}
	request.ContractTerms.Apply(contract)

	if err := s.resolveRentItem(ctx, contract); err != nil {
		return nil, err
	}
	s.validate(contract)

	if err := s.ContractRepo.Create(ctx, contract); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("contract created",
		zap.String("contract", contract.Name),
		zap.String("user", caller.User),
		zap.Int("rows", len(contract.Schedule)),
	)
	return contract, nil
}

// Get returns a contract with its schedule
func (s *ContractService) Get(ctx context.Context, name string) (*domain.LeaseContract, error) {
	contract, err := s.ContractRepo.GetByName(ctx, name)
	if err != nil {
		return nil, s.repoError(name, err)
	}
	return contract, nil
}

// Update replaces the terms of a draft or submitted contract and regenerates
// its schedule under the configured regeneration policy.
func (s *ContractService) Update(ctx context.Context, caller domain.Identity, name string, request *domain.SaveContractRequest) (*domain.LeaseContract, error) {
	var contract *domain.LeaseContract

	err := s.mutate(ctx, caller, name, func(current *domain.LeaseContract) error {
		if current.IsCancelled() {
			return customError.WrapContractCancelled(name)
		}
		if request.Version != current.Version {
			return customError.WrapConcurrentModification(name)
		}

		request.ContractTerms.Apply(current)
		if err := s.resolveRentItem(ctx, current); err != nil {
			return err
		}
		s.validate(current)
		contract = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// Submit finalizes a draft contract; the reconciler only bills submitted ones
func (s *ContractService) Submit(ctx context.Context, caller domain.Identity, name string) (*domain.LeaseContract, error) {
	var contract *domain.LeaseContract

	err := s.mutate(ctx, caller, name, func(current *domain.LeaseContract) error {
		switch {
		case current.IsCancelled():
			return customError.WrapContractCancelled(name)
		case current.IsSubmitted():
			return customError.WrapContractAlreadySubmitted(name)
		}

		s.validate(current)
		schedule.OnSubmit(current)
		current.DocStatus = domain.DocStatusSubmitted
		contract = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// Cancel stops billing of a contract. Issued invoices are left untouched.
func (s *ContractService) Cancel(ctx context.Context, caller domain.Identity, name string) (*domain.LeaseContract, error) {
	var contract *domain.LeaseContract

	err := s.mutate(ctx, caller, name, func(current *domain.LeaseContract) error {
		if current.IsCancelled() {
			return customError.WrapContractCancelled(name)
		}
		current.DocStatus = domain.DocStatusCancelled
		contract = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// mutate loads the contract under its lock, applies change and saves it
func (s *ContractService) mutate(ctx context.Context, caller domain.Identity, name string, change func(*domain.LeaseContract) error) error {
	if caller.IsGuest() {
		return customError.WrapForbidden("Login required to modify contracts")
	}

	held, err := withContractLock(ctx, s.locker, s.config.GetLockTTL(), name, s.logger, func() error {
		contract, err := s.ContractRepo.GetByName(ctx, name)
		if err != nil {
			return s.repoError(name, err)
		}

		if err := change(contract); err != nil {
			return err
		}

		if err := s.ContractRepo.Update(ctx, contract); err != nil {
			return s.repoError(name, err)
		}

		s.logger.Info("contract saved",
			zap.String("contract", name),
			zap.String("user", caller.User),
			zap.Int("docstatus", contract.DocStatus),
			zap.Int("version", contract.Version),
		)
		return nil
	})
	if err != nil {
		return err
	}
	if !held {
		return customError.WrapContractLocked(name)
	}
	return nil
}

// validate recomputes derived fields and the schedule
func (s *ContractService) validate(contract *domain.LeaseContract) {
	result := schedule.OnValidate(contract, schedule.Policy(s.config.Lease.RegeneratePolicy))

	if len(result.DroppedClaims) > 0 {
		s.logger.Warn("schedule regenerated, invoiced rows dropped",
			zap.String("contract", contract.Name),
			zap.Strings("invoices", result.DroppedClaims),
		)
	}
	if result.PreservedClaims > 0 {
		s.logger.Info("schedule regenerated, invoiced rows preserved",
			zap.String("contract", contract.Name),
			zap.Int("preserved", result.PreservedClaims),
		)
	}
}

// resolveRentItem fills the rent item from the item linked to the leased asset
func (s *ContractService) resolveRentItem(ctx context.Context, contract *domain.LeaseContract) error {
	if contract.RentItem != "" || contract.LeasedEquipment == "" {
		return nil
	}

	item, err := s.ItemRepo.FindByAsset(ctx, contract.LeasedEquipment)
	if errors.Is(err, customError.ErrItemNotFound) {
		return nil
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	contract.RentItem = item.ItemCode
	return nil
}

func (s *ContractService) repoError(name string, err error) error {
	if _, ok := customError.AsBusinessError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, customError.ErrContractNotFound):
		return customError.WrapContractNotFound(name)
	case errors.Is(err, customError.ErrConcurrentModification):
		return customError.WrapConcurrentModification(name)
	default:
		return customError.WrapDatabaseError(err)
	}
}
