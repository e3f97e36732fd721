package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/session"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/response"
)

type SessionStore interface {
	Create(ctx context.Context, user string) (*session.Session, error)
	CSRFToken(ctx context.Context, sid string) (string, error)
}

type CSRFHandler struct {
	sessions  SessionStore
	cookie    string
	cookieTTL time.Duration
	logger    *zap.Logger
}

func NewCSRFHandler(sessions SessionStore, cookieName string, cookieTTL time.Duration, logger *zap.Logger) *CSRFHandler {
	return &CSRFHandler{
		sessions:  sessions,
		cookie:    cookieName,
		cookieTTL: cookieTTL,
		logger:    logger,
	}
}

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// GetToken handles GET /api/v1/csrf-token. Callers without a live session
// get a guest session and its cookie.
func (h *CSRFHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(h.cookie); err == nil && cookie.Value != "" {
		token, err := h.sessions.CSRFToken(ctx, cookie.Value)
		if err == nil {
			response.Success(w, CSRFTokenResponse{CSRFToken: token})
			return
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			h.logger.Error("read csrf token", zap.Error(err))
			response.FromError(w, customError.WrapCacheError(err), false)
			return
		}
	}

	sess, err := h.sessions.Create(ctx, domain.UserGuest)
	if err != nil {
		h.logger.Error("create guest session", zap.Error(err))
		response.FromError(w, customError.WrapCacheError(err), false)
		return
	}

	setSessionCookie(w, h.cookie, sess.SID, h.cookieTTL)
	response.Success(w, CSRFTokenResponse{CSRFToken: sess.CSRFToken})
}
