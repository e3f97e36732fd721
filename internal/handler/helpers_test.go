package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/tests/mocks"
)

var manager = domain.Identity{User: "admin@example.com", Roles: []string{domain.RoleSystemManager}}

type testServer struct {
	router    *mux.Router
	auth      *mocks.MockAuthService
	contracts *mocks.MockContractService
	equipment *mocks.MockEquipmentService
	invoices  *mocks.MockInvoiceService
	jobs      *mocks.MockReconciler
	sessions  *mocks.MockSessionStore
}

func newTestServer(t *testing.T, showDetails bool) *testServer {
	t.Helper()

	s := &testServer{
		auth:      new(mocks.MockAuthService),
		contracts: new(mocks.MockContractService),
		equipment: new(mocks.MockEquipmentService),
		invoices:  new(mocks.MockInvoiceService),
		jobs:      new(mocks.MockReconciler),
		sessions:  new(mocks.MockSessionStore),
	}
	s.auth.On("ResolveAPIKey", mock.Anything, "key", "secret").Return(manager, nil).Maybe()

	logger := zap.NewNop()
	s.router = NewRouter(Handlers{
		Health:    NewHealthHandler(nil, time.Second),
		Auth:      NewAuthHandler(s.auth, "sid", time.Hour, showDetails),
		CSRF:      NewCSRFHandler(s.sessions, "sid", time.Hour, logger),
		Equipment: NewEquipmentHandler(s.equipment, showDetails),
		Contract:  NewContractHandler(s.contracts, showDetails),
		Invoice:   NewInvoiceHandler(s.invoices, showDetails),
		Job:       NewJobHandler(s.jobs, showDetails, logger),
		Metrics:   http.NotFoundHandler(),
	}, s.auth, showDetails, logger)

	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, authorized bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "token key:secret")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *testServer) doWithHeader(t *testing.T, method, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authorization)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}
