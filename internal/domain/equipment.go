package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is an item master record. Rent items link back to the asset they rent.
type Item struct {
	ItemCode      string    `json:"item_code" db:"item_code"`
	ItemName      string    `json:"item_name" db:"item_name"`
	ItemGroup     string    `json:"item_group" db:"item_group"`
	StockUOM      string    `json:"stock_uom" db:"stock_uom"`
	AssetCategory string    `json:"asset_category" db:"asset_category"`
	Asset         string    `json:"asset" db:"asset"`
	IsStockItem   bool      `json:"is_stock_item" db:"is_stock_item"`
	IsFixedAsset  bool      `json:"is_fixed_asset" db:"is_fixed_asset"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Asset is a piece of leasable equipment
type Asset struct {
	Name                string          `json:"name" db:"name"`
	AssetName           string          `json:"asset_name" db:"asset_name"`
	ItemCode            string          `json:"item_code" db:"item_code"`
	AssetCategory       string          `json:"asset_category" db:"asset_category"`
	Company             string          `json:"company" db:"company"`
	Location            string          `json:"location" db:"location"`
	PurchaseDate        time.Time       `json:"purchase_date" db:"purchase_date"`
	AvailableForUseDate time.Time       `json:"available_for_use_date" db:"available_for_use_date"`
	GrossPurchaseAmount decimal.Decimal `json:"gross_purchase_amount" db:"gross_purchase_amount"`
	AssetOwner          string          `json:"asset_owner" db:"asset_owner"`
	Supplier            string          `json:"supplier" db:"supplier"`
	IsExistingAsset     bool            `json:"is_existing_asset" db:"is_existing_asset"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}

type CreateItemRequest struct {
	ItemCode      string `json:"item_code" validate:"required"`
	ItemName      string `json:"item_name"`
	ItemGroup     string `json:"item_group"`
	StockUOM      string `json:"stock_uom"`
	AssetCategory string `json:"asset_category"`
}

type CreateItemResponse struct {
	Exists  bool   `json:"exists"`
	Item    *Item  `json:"item"`
	Message string `json:"message"`
}

type ItemExistsResponse struct {
	Exists bool  `json:"exists"`
	Item   *Item `json:"item"`
}

type CreateAssetRequest struct {
	AssetName           string          `json:"asset_name" validate:"required"`
	ItemCode            string          `json:"item_code" validate:"required"`
	ItemName            string          `json:"item_name"`
	Location            string          `json:"location" validate:"required"`
	PurchaseDate        *time.Time      `json:"purchase_date"`
	AvailableForUseDate *time.Time      `json:"available_for_use_date"`
	GrossPurchaseAmount decimal.Decimal `json:"gross_purchase_amount" validate:"decimal_gte_zero"`
	Supplier            string          `json:"supplier"`
}

type CreateAssetResponse struct {
	Asset string `json:"asset"`
	Item  string `json:"item"`
}
