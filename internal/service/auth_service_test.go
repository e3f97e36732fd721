package service

import (
	"context"
	"errors"
	"testing"

	"github.com/segyhp/equipment-lease/internal/clock"
	"github.com/segyhp/equipment-lease/internal/credential"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/session"
	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/tests/mocks"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() (*AuthService, *mocks.MockUserRepository, *mocks.MockSessionStore) {
	users := &mocks.MockUserRepository{}
	sessions := &mocks.MockSessionStore{}
	svc := NewAuthService(users, sessions, clock.NewFakeClock(date(2024, 2, 15)), zap.NewNop())
	return svc, users, sessions
}

func testUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := credential.HashPassword(password)
	require.NoError(t, err)
	return &domain.User{
		Name:         "jane@example.com",
		Email:        "jane@example.com",
		FullName:     "Jane Doe",
		UserType:     "System User",
		Enabled:      true,
		PasswordHash: hash,
		Roles:        pq.StringArray{"Accounts User"},
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, users, sessions := newAuthService()
		user := testUser(t, "s3cret")

		var storedHash string
		users.On("GetByLogin", mock.Anything, "jane@example.com").Return(user, nil)
		users.On("SetAPICredentials", mock.Anything, "jane@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { storedHash = args.String(3) }).
			Return(nil)
		sessions.On("Create", mock.Anything, "jane@example.com").Return(&session.Session{SID: "sid-1"}, nil)

		resp, err := svc.Login(ctx, &domain.LoginRequest{Username: " jane@example.com ", Password: "s3cret"})

		require.NoError(t, err)
		assert.Equal(t, "sid-1", resp.SID)
		assert.Equal(t, "Jane Doe", resp.FullName)
		assert.Len(t, resp.APIKey, credential.TokenLength)
		assert.Len(t, resp.APISecret, credential.TokenLength)
		assert.Equal(t, credential.HashSecret(resp.APISecret), storedHash)
		assert.Equal(t, []string{"Accounts User"}, resp.Roles)
	})

	tests := []struct {
		name     string
		user     *domain.User
		repoErr  error
		password string
		wantCode string
	}{
		{name: "unknown user", repoErr: customError.ErrUserNotFound, password: "x", wantCode: customError.ErrCodeUserNotFound},
		{name: "store failure", repoErr: errors.New("db down"), password: "x", wantCode: customError.ErrCodeInternal},
		{name: "wrong password", user: testUser(t, "s3cret"), password: "nope", wantCode: customError.ErrCodeInvalidPassword},
		{name: "disabled", user: func() *domain.User { u := testUser(t, "s3cret"); u.Enabled = false; return u }(), password: "s3cret", wantCode: customError.ErrCodeUserDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, sessions := newAuthService()
			if tt.user != nil {
				users.On("GetByLogin", mock.Anything, "jane").Return(tt.user, nil)
			} else {
				users.On("GetByLogin", mock.Anything, "jane").Return(nil, tt.repoErr)
			}

			_, err := svc.Login(ctx, &domain.LoginRequest{Username: "jane", Password: tt.password})

			assert.Equal(t, tt.wantCode, errorCode(t, err))
			users.AssertNotCalled(t, "SetAPICredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_RegenerateAPIKey(t *testing.T) {
	ctx := context.Background()
	self := domain.Identity{User: "jane@example.com", Roles: []string{"Accounts User"}}
	admin := domain.Identity{User: "admin@example.com", Roles: []string{domain.RoleSystemManager}}

	t.Run("own key", func(t *testing.T) {
		svc, users, _ := newAuthService()
		users.On("GetByName", mock.Anything, "jane@example.com").Return(&domain.User{Name: "jane@example.com"}, nil)
		users.On("SetAPICredentials", mock.Anything, "jane@example.com", mock.Anything, mock.Anything).Return(nil)

		creds, err := svc.RegenerateAPIKey(ctx, self, "")

		require.NoError(t, err)
		assert.Len(t, creds.APIKey, credential.TokenLength)
		assert.Equal(t, date(2024, 2, 15), creds.GeneratedAt)
	})

	t.Run("other user without role", func(t *testing.T) {
		svc, users, _ := newAuthService()

		_, err := svc.RegenerateAPIKey(ctx, self, "bob@example.com")

		assert.Equal(t, customError.ErrCodeForbidden, errorCode(t, err))
		users.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})

	t.Run("other user as system manager", func(t *testing.T) {
		svc, users, _ := newAuthService()
		users.On("GetByName", mock.Anything, "bob@example.com").Return(&domain.User{Name: "bob@example.com"}, nil)
		users.On("SetAPICredentials", mock.Anything, "bob@example.com", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.RegenerateAPIKey(ctx, admin, "bob@example.com")

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("guest", func(t *testing.T) {
		svc, _, _ := newAuthService()

		_, err := svc.RegenerateAPIKey(ctx, domain.Identity{}, "")

		assert.Equal(t, customError.ErrCodeForbidden, errorCode(t, err))
	})
}

func TestAuthService_ResolveAPIKey(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{
		Name:          "jane@example.com",
		Enabled:       true,
		APIKey:        "0123456789abcde",
		APISecretHash: credential.HashSecret("fedcba987654321"),
		Roles:         pq.StringArray{domain.RoleSystemManager},
	}

	t.Run("valid pair", func(t *testing.T) {
		svc, users, _ := newAuthService()
		users.On("GetByAPIKey", mock.Anything, "0123456789abcde").Return(user, nil)

		identity, err := svc.ResolveAPIKey(ctx, "0123456789abcde", "fedcba987654321")

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", identity.User)
		assert.True(t, identity.HasRole(domain.RoleSystemManager))
	})

	t.Run("wrong secret", func(t *testing.T) {
		svc, users, _ := newAuthService()
		users.On("GetByAPIKey", mock.Anything, "0123456789abcde").Return(user, nil)

		_, err := svc.ResolveAPIKey(ctx, "0123456789abcde", "000000000000000")

		assert.Equal(t, customError.ErrCodeInvalidAPIKey, errorCode(t, err))
	})

	t.Run("unknown key", func(t *testing.T) {
		svc, users, _ := newAuthService()
		users.On("GetByAPIKey", mock.Anything, "nope").Return(nil, customError.ErrUserNotFound)

		_, err := svc.ResolveAPIKey(ctx, "nope", "x")

		assert.Equal(t, customError.ErrCodeInvalidAPIKey, errorCode(t, err))
	})
}

func TestAuthService_GetAPICredentials(t *testing.T) {
	svc, users, _ := newAuthService()
	users.On("GetByName", mock.Anything, "jane@example.com").
		Return(&domain.User{Name: "jane@example.com", APIKey: "0123456789abcde", APISecretHash: "hash"}, nil)

	view, err := svc.GetAPICredentials(context.Background(), domain.Identity{User: "jane@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "0123456789abcde", view.APIKey)
	assert.True(t, view.HasAPISecret)
	assert.Equal(t, "***hidden***", view.APISecret)
}
