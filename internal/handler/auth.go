package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/pkg/response"
)

type AuthService interface {
	Login(ctx context.Context, request *domain.LoginRequest) (*domain.LoginResponse, error)
	RegenerateAPIKey(ctx context.Context, caller domain.Identity, target string) (*domain.APICredentials, error)
	GetAPICredentials(ctx context.Context, caller domain.Identity) (*domain.APICredentialsView, error)
}

type AuthHandler struct {
	service     AuthService
	validator   *validator.Validate
	cookie      string
	cookieTTL   time.Duration
	showDetails bool
}

func NewAuthHandler(service AuthService, cookieName string, cookieTTL time.Duration, showDetails bool) *AuthHandler {
	return &AuthHandler{
		service:     service,
		validator:   NewValidator(),
		cookie:      cookieName,
		cookieTTL:   cookieTTL,
		showDetails: showDetails,
	}
}

// Login handles POST /api/v1/auth/login. Unexpected failures only carry
// details in development.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	result, err := h.service.Login(r.Context(), &request)
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	setSessionCookie(w, h.cookie, result.SID, h.cookieTTL)
	response.SuccessMessage(w, "Login successful", result)
}

// RegenerateAPIKey handles POST /api/v1/auth/api-key/regenerate. An empty
// body targets the caller.
func (h *AuthHandler) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	var request domain.RegenerateAPIKeyRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, h.validator, &request) {
			return
		}
	}

	credentials, err := h.service.RegenerateAPIKey(r.Context(), IdentityFrom(r.Context()), request.User)
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.SuccessMessage(w, "API credentials regenerated", credentials)
}

// GetAPIKey handles GET /api/v1/auth/api-key
func (h *AuthHandler) GetAPIKey(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetAPICredentials(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		response.FromError(w, err, h.showDetails)
		return
	}

	response.Success(w, view)
}

func setSessionCookie(w http.ResponseWriter, name, sid string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
