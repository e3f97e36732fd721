package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/pkg/response"
)

type Reconciler interface {
	GenerateDueInvoices(ctx context.Context) (*domain.RunResult, error)
	SyncScheduleStatus(ctx context.Context) (*domain.RunResult, error)
}

type JobHandler struct {
	reconciler  Reconciler
	showDetails bool
	logger      *zap.Logger
}

func NewJobHandler(reconciler Reconciler, showDetails bool, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		reconciler:  reconciler,
		showDetails: showDetails,
		logger:      logger,
	}
}

const partialFailureMessage = "some contracts failed; see logs"

// JobResponse carries the pass summary; Error is set when some rows or
// contracts failed.
type JobResponse struct {
	Result *domain.RunResult `json:"result"`
	Error  string            `json:"error,omitempty"`
}

// GenerateInvoices handles POST /api/v1/jobs/generate-invoices
func (h *JobHandler) GenerateInvoices(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.reconciler.GenerateDueInvoices)
}

// SyncStatus handles POST /api/v1/jobs/sync-status
func (h *JobHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.reconciler.SyncScheduleStatus)
}

func (h *JobHandler) run(w http.ResponseWriter, r *http.Request, pass func(context.Context) (*domain.RunResult, error)) {
	result, err := pass(r.Context())
	if result == nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	if err != nil {
		h.logger.Warn("reconciler pass finished with errors",
			zap.String("pass", result.Pass),
			zap.Int("failed", result.Failed),
			zap.Error(err),
		)
		message := partialFailureMessage
		if h.showDetails {
			message = err.Error()
		}
		// Partial failures still report the summary.
		response.JSON(w, http.StatusInternalServerError, JobResponse{Result: result, Error: message})
		return
	}

	response.Success(w, JobResponse{Result: result})
}
