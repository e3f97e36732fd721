package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/equipment-lease/internal/clock"
	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/repository"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/utils"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

const (
	assetNamePrefix      = "AST-"
	defaultAssetCategory = "Default"
	assetOwnerSupplier   = "Supplier"
)

// EquipmentService manages the item master and asset records leases point at
type EquipmentService struct {
	ItemRepo  repository.ItemRepository
	AssetRepo repository.AssetRepository
	names     *snowflake.Node
	clock     clock.Clock
	config    *config.Config
	logger    *zap.Logger
}

func NewEquipmentService(
	itemRepo repository.ItemRepository,
	assetRepo repository.AssetRepository,
	names *snowflake.Node,
	clk clock.Clock,
	config *config.Config,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		ItemRepo:  itemRepo,
		AssetRepo: assetRepo,
		names:     names,
		clock:     clk,
		config:    config,
		logger:    logger.Named("equipment"),
	}
}

func (s *EquipmentService) ItemExists(ctx context.Context, itemCode string) (*domain.ItemExistsResponse, error) {
	item, err := s.ItemRepo.GetByCode(ctx, itemCode)
	if errors.Is(err, customError.ErrItemNotFound) {
		return &domain.ItemExistsResponse{Exists: false}, nil
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return &domain.ItemExistsResponse{Exists: true, Item: item}, nil
}

// CreateItemIfNotExists creates a fixed-asset, non-stock item unless the code is taken
func (s *EquipmentService) CreateItemIfNotExists(ctx context.Context, request *domain.CreateItemRequest) (*domain.CreateItemResponse, error) {
	existing, err := s.ItemExists(ctx, request.ItemCode)
	if err != nil {
		return nil, err
	}
	if existing.Exists {
		return &domain.CreateItemResponse{
			Exists:  true,
			Item:    existing.Item,
			Message: fmt.Sprintf("item is Exist %s", request.ItemCode),
		}, nil
	}

	item := &domain.Item{
		ItemCode:      request.ItemCode,
		ItemName:      request.ItemName,
		ItemGroup:     request.ItemGroup,
		StockUOM:      request.StockUOM,
		AssetCategory: request.AssetCategory,
		IsStockItem:   false,
		IsFixedAsset:  true,
	}
	if item.ItemName == "" {
		item.ItemName = item.ItemCode
	}

	if err := s.ItemRepo.Create(ctx, item); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("item created", zap.String("item_code", item.ItemCode))
	return &domain.CreateItemResponse{
		Exists:  false,
		Item:    item,
		Message: fmt.Sprintf("Item %s created successfully", item.ItemCode),
	}, nil
}

// CreateAssetWithItem ensures the item exists, then registers a new asset for it
func (s *EquipmentService) CreateAssetWithItem(ctx context.Context, request *domain.CreateAssetRequest) (*domain.CreateAssetResponse, error) {
	ensured, err := s.CreateItemIfNotExists(ctx, &domain.CreateItemRequest{
		ItemCode: request.ItemCode,
		ItemName: request.ItemName,
	})
	if err != nil {
		return nil, err
	}
	item := ensured.Item

	exists, err := s.AssetRepo.ExistsByNameAndItem(ctx, request.AssetName, item.ItemCode)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if exists {
		return nil, customError.WrapAssetAlreadyExists(request.AssetName)
	}

	today := utils.DateOnly(s.clock.Now())
	asset := &domain.Asset{
		Name:                assetNamePrefix + s.names.Generate().String(),
		AssetName:           request.AssetName,
		ItemCode:            item.ItemCode,
		AssetCategory:       item.AssetCategory,
		Company:             s.config.Lease.Company,
		Location:            request.Location,
		PurchaseDate:        dateOr(request.PurchaseDate, today),
		AvailableForUseDate: dateOr(request.AvailableForUseDate, today),
		GrossPurchaseAmount: request.GrossPurchaseAmount,
		AssetOwner:          assetOwnerSupplier,
		Supplier:            request.Supplier,
		IsExistingAsset:     true,
	}
	if asset.AssetCategory == "" {
		asset.AssetCategory = defaultAssetCategory
	}
	if asset.Supplier == "" {
		asset.Supplier = s.config.Lease.DefaultSupplier
	}

	if err := s.AssetRepo.Create(ctx, asset); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("asset created", zap.String("asset", asset.Name), zap.String("item_code", item.ItemCode))
	return &domain.CreateAssetResponse{Asset: asset.Name, Item: item.ItemCode}, nil
}

func dateOr(value *time.Time, fallback time.Time) time.Time {
	if value == nil || value.IsZero() {
		return fallback
	}
	return utils.DateOnly(*value)
}
