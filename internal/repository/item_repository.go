package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const itemColumns = `item_code, item_name, item_group, stock_uom, asset_category, asset, is_stock_item, is_fixed_asset, created_at`

type itemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES (:item_code, :item_name, :item_group, :stock_uom, :asset_category, :asset, :is_stock_item, :is_fixed_asset, :created_at)
	`

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, query, item)
	return err
}

func (r *itemRepository) GetByCode(ctx context.Context, itemCode string) (*domain.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE item_code = $1`, itemCode)
}

func (r *itemRepository) FindByAsset(ctx context.Context, asset string) (*domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE asset = $1
		ORDER BY created_at
		LIMIT 1
	`
	return r.getOne(ctx, query, asset)
}

func (r *itemRepository) getOne(ctx context.Context, query string, arg string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.GetContext(ctx, &item, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type assetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (name, asset_name, item_code, asset_category, company, location, purchase_date,
			available_for_use_date, gross_purchase_amount, asset_owner, supplier, is_existing_asset, created_at)
		VALUES (:name, :asset_name, :item_code, :asset_category, :company, :location, :purchase_date,
			:available_for_use_date, :gross_purchase_amount, :asset_owner, :supplier, :is_existing_asset, :created_at)
	`

	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, query, asset)
	return err
}

func (r *assetRepository) ExistsByNameAndItem(ctx context.Context, assetName, itemCode string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM assets WHERE asset_name = $1 AND item_code = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, assetName, itemCode); err != nil {
		return false, err
	}
	return exists, nil
}
