package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/pkg/response"
)

type PaymentRecorder interface {
	RecordPayment(ctx context.Context, name string, amount decimal.Decimal) (*domain.Invoice, error)
}

type InvoiceHandler struct {
	service     PaymentRecorder
	validator   *validator.Validate
	showDetails bool
}

func NewInvoiceHandler(service PaymentRecorder, showDetails bool) *InvoiceHandler {
	return &InvoiceHandler{
		service:     service,
		validator:   NewValidator(),
		showDetails: showDetails,
	}
}

// RecordPayment handles POST /api/v1/invoices/{name}/payments
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordPaymentRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	invoice, err := h.service.RecordPayment(r.Context(), mux.Vars(r)["name"], request.Amount)
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Success(w, invoice)
}
