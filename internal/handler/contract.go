package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/response"
	"github.com/segyhp/equipment-lease/pkg/utils"
)

type ContractService interface {
	Create(ctx context.Context, caller domain.Identity, request *domain.SaveContractRequest) (*domain.LeaseContract, error)
	Get(ctx context.Context, name string) (*domain.LeaseContract, error)
	Update(ctx context.Context, caller domain.Identity, name string, request *domain.SaveContractRequest) (*domain.LeaseContract, error)
	Submit(ctx context.Context, caller domain.Identity, name string) (*domain.LeaseContract, error)
	Cancel(ctx context.Context, caller domain.Identity, name string) (*domain.LeaseContract, error)
}

type ContractHandler struct {
	service     ContractService
	validator   *validator.Validate
	showDetails bool
}

func NewContractHandler(service ContractService, showDetails bool) *ContractHandler {
	return &ContractHandler{
		service:     service,
		validator:   NewValidator(),
		showDetails: showDetails,
	}
}

var errEndBeforeStart = errors.New("end_date must not be before start_date")

// contractPayload is the wire form of a contract save; dates are YYYY-MM-DD.
type contractPayload struct {
	Lessee                       string          `json:"lessee" validate:"required"`
	LeasedEquipment              string          `json:"leased_equipment" validate:"required"`
	RentItem                     string          `json:"rent_item"`
	StartDate                    string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate                      string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	BillingCycle                 string          `json:"billing_cycle"`
	LeaseAmount                  decimal.Decimal `json:"lease_amount" validate:"decimal_gte_zero"`
	PlatformCommissionPercentage decimal.Decimal `json:"platform_commission_percentage" validate:"decimal_gte_zero"`
	TotalAgreedHours             decimal.Decimal `json:"total_agreed_hours" validate:"decimal_gte_zero"`
	Version                      int             `json:"version" validate:"gte=0"`
}

func (p *contractPayload) toRequest() (*domain.SaveContractRequest, error) {
	start, err := optionalDate(p.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate(p.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, errEndBeforeStart
	}

	return &domain.SaveContractRequest{
		ContractTerms: domain.ContractTerms{
			Lessee:                       strings.TrimSpace(p.Lessee),
			LeasedEquipment:              strings.TrimSpace(p.LeasedEquipment),
			RentItem:                     strings.TrimSpace(p.RentItem),
			StartDate:                    start,
			EndDate:                      end,
			BillingCycle:                 p.BillingCycle,
			LeaseAmount:                  p.LeaseAmount,
			PlatformCommissionPercentage: p.PlatformCommissionPercentage,
			TotalAgreedHours:             p.TotalAgreedHours,
		},
		Version: p.Version,
	}, nil
}

// CreateContract handles POST /api/v1/contracts
func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decode(w, r)
	if !ok {
		return
	}

	contract, err := h.service.Create(r.Context(), IdentityFrom(r.Context()), request)
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Created(w, domain.ContractResponse{Contract: contract})
}

// GetContract handles GET /api/v1/contracts/{name}
func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	contract, err := h.service.Get(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Success(w, domain.ContractResponse{Contract: contract})
}

// UpdateContract handles PUT /api/v1/contracts/{name}
func (h *ContractHandler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decode(w, r)
	if !ok {
		return
	}

	contract, err := h.service.Update(r.Context(), IdentityFrom(r.Context()), mux.Vars(r)["name"], request)
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Success(w, domain.ContractResponse{Contract: contract})
}

// SubmitContract handles POST /api/v1/contracts/{name}/submit
func (h *ContractHandler) SubmitContract(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Submit)
}

// CancelContract handles POST /api/v1/contracts/{name}/cancel
func (h *ContractHandler) CancelContract(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

func (h *ContractHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, domain.Identity, string) (*domain.LeaseContract, error),
) {
	contract, err := fn(r.Context(), IdentityFrom(r.Context()), mux.Vars(r)["name"])
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Success(w, domain.ContractResponse{Contract: contract})
}

func (h *ContractHandler) decode(w http.ResponseWriter, r *http.Request) (*domain.SaveContractRequest, bool) {
	var payload contractPayload
	if !decodeAndValidate(w, r, h.validator, &payload) {
		return nil, false
	}

	request, err := payload.toRequest()
	if err != nil {
		response.FromError(w, customError.WrapValidation(err), true)
		return nil, false
	}
	return request, true
}

func optionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	date, err := utils.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}
	return &date, nil
}
