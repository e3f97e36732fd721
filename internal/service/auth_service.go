package service

import (
	"context"
	"errors"
	"strings"

	"github.com/segyhp/equipment-lease/internal/clock"
	"github.com/segyhp/equipment-lease/internal/credential"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/repository"
	"github.com/segyhp/equipment-lease/internal/session"
	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"go.uber.org/zap"
)

const hiddenSecret = "***hidden***"

// SessionStore opens login sessions
type SessionStore interface {
	Create(ctx context.Context, user string) (*session.Session, error)
}

type AuthService struct {
	UserRepo repository.UserRepository
	sessions SessionStore
	clock    clock.Clock
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, sessions SessionStore, clk clock.Clock, logger *zap.Logger) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		sessions: sessions,
		clock:    clk,
		logger:   logger.Named("auth"),
	}
}

// Login checks a username or email and password, mints new API credentials
// and opens a session.
func (s *AuthService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.UserRepo.GetByLogin(ctx, strings.TrimSpace(request.Username))
	if errors.Is(err, customError.ErrUserNotFound) {
		return nil, customError.WrapUserNotFound()
	}
	if err != nil {
		return nil, customError.WrapInternal(err)
	}

	if !user.Enabled {
		return nil, customError.WrapUserDisabled()
	}
	if !credential.VerifyPassword(request.Password, user.PasswordHash) {
		s.logger.Info("login rejected", zap.String("user", user.Name))
		return nil, customError.WrapInvalidPassword()
	}

	creds, err := s.issueCredentials(ctx, user.Name)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, user.Name)
	if err != nil {
		return nil, customError.WrapInternal(err)
	}

	s.logger.Info("user logged in", zap.String("user", user.Name))
	return &domain.LoginResponse{
		User:        user.Name,
		FullName:    user.FullName,
		Email:       user.Email,
		APIKey:      creds.APIKey,
		APISecret:   creds.APISecret,
		GeneratedAt: creds.GeneratedAt,
		SID:         sess.SID,
		UserID:      user.Name,
		UserType:    user.UserType,
		Roles:       []string(user.Roles),
	}, nil
}

// RegenerateAPIKey replaces the credentials of target, or of the caller when
// target is empty. Only a System Manager may act on another user.
func (s *AuthService) RegenerateAPIKey(ctx context.Context, caller domain.Identity, target string) (*domain.APICredentials, error) {
	if caller.IsGuest() {
		return nil, customError.WrapForbidden("Login required")
	}
	if target == "" {
		target = caller.User
	}
	if target != caller.User && !caller.HasRole(domain.RoleSystemManager) {
		return nil, customError.WrapForbidden("Not permitted to regenerate API key for other users")
	}

	if _, err := s.UserRepo.GetByName(ctx, target); err != nil {
		if errors.Is(err, customError.ErrUserNotFound) {
			return nil, customError.WrapUserNotFound()
		}
		return nil, customError.WrapDatabaseError(err)
	}

	creds, err := s.issueCredentials(ctx, target)
	if err != nil {
		return nil, err
	}

	s.logger.Info("api credentials regenerated", zap.String("user", target), zap.String("by", caller.User))
	return creds, nil
}

// GetAPICredentials shows the caller's api key. The secret is stored hashed
// and is never shown again.
func (s *AuthService) GetAPICredentials(ctx context.Context, caller domain.Identity) (*domain.APICredentialsView, error) {
	if caller.IsGuest() {
		return nil, customError.WrapForbidden("Login required")
	}

	user, err := s.UserRepo.GetByName(ctx, caller.User)
	if errors.Is(err, customError.ErrUserNotFound) {
		return nil, customError.WrapUserNotFound()
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.APICredentialsView{
		User:         user.Name,
		APIKey:       user.APIKey,
		HasAPISecret: user.APISecretHash != "",
		APISecret:    hiddenSecret,
	}, nil
}

// ResolveAPIKey authenticates a key:secret pair
func (s *AuthService) ResolveAPIKey(ctx context.Context, apiKey, apiSecret string) (domain.Identity, error) {
	user, err := s.UserRepo.GetByAPIKey(ctx, apiKey)
	if errors.Is(err, customError.ErrUserNotFound) {
		return domain.Identity{}, customError.WrapInvalidAPIKey()
	}
	if err != nil {
		return domain.Identity{}, customError.WrapDatabaseError(err)
	}

	if !credential.VerifySecret(apiSecret, user.APISecretHash) {
		return domain.Identity{}, customError.WrapInvalidAPIKey()
	}
	if !user.Enabled {
		return domain.Identity{}, customError.WrapUserDisabled()
	}

	return domain.Identity{User: user.Name, Roles: []string(user.Roles)}, nil
}

func (s *AuthService) issueCredentials(ctx context.Context, user string) (*domain.APICredentials, error) {
	apiKey, err := credential.NewToken()
	if err != nil {
		return nil, customError.WrapInternal(err)
	}
	apiSecret, err := credential.NewToken()
	if err != nil {
		return nil, customError.WrapInternal(err)
	}

	if err := s.UserRepo.SetAPICredentials(ctx, user, apiKey, credential.HashSecret(apiSecret)); err != nil {
		return nil, customError.WrapInternal(err)
	}

	return &domain.APICredentials{
		APIKey:      apiKey,
		APISecret:   apiSecret,
		GeneratedAt: s.clock.Now(),
	}, nil
}
