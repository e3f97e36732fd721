package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/response"
)

type identityKey struct{}

// APIKeyResolver turns an api key pair into the calling identity
type APIKeyResolver interface {
	ResolveAPIKey(ctx context.Context, apiKey, apiSecret string) (domain.Identity, error)
}

// WithIdentity stores the authenticated caller on ctx
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the caller stored by the auth middleware, or Guest.
func IdentityFrom(ctx context.Context) domain.Identity {
	if identity, ok := ctx.Value(identityKey{}).(domain.Identity); ok {
		return identity
	}
	return domain.Identity{User: domain.UserGuest}
}

// APIKeyRequired authenticates requests carrying
// "Authorization: token <api_key>:<api_secret>".
func APIKeyRequired(resolver APIKeyResolver, showDetails bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, secret, ok := parseTokenHeader(r.Header.Get("Authorization"))
			if !ok {
				response.FromError(w, customError.WrapInvalidAPIKey(), false)
				return
			}

			identity, err := resolver.ResolveAPIKey(r.Context(), key, secret)
			if err != nil {
				logger.Warn("api key rejected", zap.String("api_key", key), zap.Error(err))
				response.FromError(w, err, showDetails)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func parseTokenHeader(header string) (key, secret string, ok bool) {
	parts := strings.Fields(strings.TrimSpace(header))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "token") {
		return "", "", false
	}

	key, secret, found := strings.Cut(parts[1], ":")
	if !found || key == "" || secret == "" {
		return "", "", false
	}
	return key, secret, true
}
