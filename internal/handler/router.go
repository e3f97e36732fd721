package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/pkg/response"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	CSRF      *CSRFHandler
	Equipment *EquipmentHandler
	Contract  *ContractHandler
	Invoice   *InvoiceHandler
	Job       *JobHandler
	// Metrics defaults to the global prometheus registry
	Metrics http.Handler
}

// NewRouter mounts guest routes directly and the rest behind API-key auth
func NewRouter(h Handlers, resolver APIKeyResolver, showDetails bool, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(logger.Named("http")))

	metricsHandler := h.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")
	router.Handle("/metrics", metricsHandler).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/csrf-token", h.CSRF.GetToken).Methods("GET")
	api.HandleFunc("/items/{itemCode}/exists", h.Equipment.ItemExists).Methods("GET")
	api.HandleFunc("/assets", h.Equipment.CreateAsset).Methods("POST")

	secured := api.NewRoute().Subrouter()
	secured.Use(APIKeyRequired(resolver, showDetails, logger.Named("auth")))

	secured.HandleFunc("/auth/api-key/regenerate", h.Auth.RegenerateAPIKey).Methods("POST")
	secured.HandleFunc("/auth/api-key", h.Auth.GetAPIKey).Methods("GET")
	secured.HandleFunc("/items", h.Equipment.CreateItem).Methods("POST")
	secured.HandleFunc("/contracts", h.Contract.CreateContract).Methods("POST")
	secured.HandleFunc("/contracts/{name}", h.Contract.GetContract).Methods("GET")
	secured.HandleFunc("/contracts/{name}", h.Contract.UpdateContract).Methods("PUT")
	secured.HandleFunc("/contracts/{name}/submit", h.Contract.SubmitContract).Methods("POST")
	secured.HandleFunc("/contracts/{name}/cancel", h.Contract.CancelContract).Methods("POST")
	secured.HandleFunc("/invoices/{name}/payments", h.Invoice.RecordPayment).Methods("POST")
	secured.HandleFunc("/jobs/generate-invoices", h.Job.GenerateInvoices).Methods("POST")
	secured.HandleFunc("/jobs/sync-status", h.Job.SyncStatus).Methods("POST")

	return router
}
