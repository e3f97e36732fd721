package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/response"
)

type EquipmentService interface {
	ItemExists(ctx context.Context, itemCode string) (*domain.ItemExistsResponse, error)
	CreateItemIfNotExists(ctx context.Context, request *domain.CreateItemRequest) (*domain.CreateItemResponse, error)
	CreateAssetWithItem(ctx context.Context, request *domain.CreateAssetRequest) (*domain.CreateAssetResponse, error)
}

type EquipmentHandler struct {
	service     EquipmentService
	validator   *validator.Validate
	showDetails bool
}

func NewEquipmentHandler(service EquipmentService, showDetails bool) *EquipmentHandler {
	return &EquipmentHandler{
		service:     service,
		validator:   NewValidator(),
		showDetails: showDetails,
	}
}

type assetPayload struct {
	AssetName           string          `json:"asset_name" validate:"required"`
	ItemCode            string          `json:"item_code" validate:"required"`
	ItemName            string          `json:"item_name"`
	Location            string          `json:"location" validate:"required"`
	PurchaseDate        string          `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	AvailableForUseDate string          `json:"available_for_use_date" validate:"omitempty,datetime=2006-01-02"`
	GrossPurchaseAmount decimal.Decimal `json:"gross_purchase_amount" validate:"decimal_gte_zero"`
	Supplier            string          `json:"supplier"`
}

// ItemExists handles GET /api/v1/items/{itemCode}/exists
func (h *EquipmentHandler) ItemExists(w http.ResponseWriter, r *http.Request) {
	itemCode := strings.TrimSpace(mux.Vars(r)["itemCode"])

	result, err := h.service.ItemExists(r.Context(), itemCode)
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Success(w, result)
}

// CreateItem handles POST /api/v1/items
func (h *EquipmentHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateItemRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	result, err := h.service.CreateItemIfNotExists(r.Context(), &request)
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	if result.Exists {
		response.SuccessMessage(w, result.Message, result)
		return
	}
	response.Created(w, result)
}

// CreateAsset handles POST /api/v1/assets
func (h *EquipmentHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var payload assetPayload
	if !decodeAndValidate(w, r, h.validator, &payload) {
		return
	}

	purchaseDate, err := optionalDate(payload.PurchaseDate)
	if err != nil {
		response.FromError(w, customError.WrapValidation(err), true)
		return
	}
	availableDate, err := optionalDate(payload.AvailableForUseDate)
	if err != nil {
		response.FromError(w, customError.WrapValidation(err), true)
		return
	}

	result, err := h.service.CreateAssetWithItem(r.Context(), &domain.CreateAssetRequest{
		AssetName:           strings.TrimSpace(payload.AssetName),
		ItemCode:            strings.TrimSpace(payload.ItemCode),
		ItemName:            payload.ItemName,
		Location:            payload.Location,
		PurchaseDate:        purchaseDate,
		AvailableForUseDate: availableDate,
		GrossPurchaseAmount: payload.GrossPurchaseAmount,
		Supplier:            payload.Supplier,
	})
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Created(w, result)
}
