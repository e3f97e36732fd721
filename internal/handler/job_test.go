package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/equipment-lease/internal/domain"
)

func TestJobHandler(t *testing.T) {
	t.Run("generate invoices", func(t *testing.T) {
		s := newTestServer(t, false)
		s.jobs.On("GenerateDueInvoices", mock.Anything).Return(&domain.RunResult{
			Pass:        "generate_invoices",
			Contracts:   2,
			Skipped:     []string{"ELC-3"},
			RowsChanged: 4,
		}, nil)

		rec := s.do(t, http.MethodPost, "/api/v1/jobs/generate-invoices", nil, true)

		assert.Equal(t, http.StatusOK, rec.Code)
		result := decodeBody(t, rec)["data"].(map[string]interface{})["result"].(map[string]interface{})
		assert.Equal(t, float64(4), result["rows_changed"])
		assert.Equal(t, []interface{}{"ELC-3"}, result["skipped"])
	})

	t.Run("partial failure keeps summary", func(t *testing.T) {
		tests := []struct {
			name        string
			showDetails bool
			wantError   string
		}{
			{name: "details hidden", showDetails: false, wantError: partialFailureMessage},
			{name: "details shown", showDetails: true, wantError: "contract ELC-2: invoice lookup failed"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := newTestServer(t, tt.showDetails)
				s.jobs.On("SyncScheduleStatus", mock.Anything).
					Return(&domain.RunResult{Pass: "sync_status", Contracts: 3, Failed: 1}, errors.New("contract ELC-2: invoice lookup failed"))

				rec := s.do(t, http.MethodPost, "/api/v1/jobs/sync-status", nil, true)

				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				body := decodeBody(t, rec)
				assert.Equal(t, false, body["success"])
				data := body["data"].(map[string]interface{})
				assert.Equal(t, tt.wantError, data["error"])
				assert.Equal(t, float64(1), data["result"].(map[string]interface{})["failed"])
				if !tt.showDetails {
					assert.NotContains(t, rec.Body.String(), "invoice lookup failed")
				}
			})
		}
	})

	t.Run("requires api key", func(t *testing.T) {
		s := newTestServer(t, false)

		rec := s.do(t, http.MethodPost, "/api/v1/jobs/generate-invoices", nil, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.jobs.AssertNotCalled(t, "GenerateDueInvoices", mock.Anything)
	})
}
