package repository

import (
	"context"
	"testing"
	"time"

	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"name", "email", "full_name", "user_type", "enabled", "password_hash", "api_key", "api_secret_hash", "roles", "updated_at",
	})
}

func TestUserRepository_GetByLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE name = \\$1").WithArgs("jane@example.com").
			WillReturnRows(userRows())
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").WithArgs("jane@example.com").
			WillReturnRows(userRows().AddRow("jane", "jane@example.com", "Jane Doe", "System User", true, "hash", "", "", `{"System Manager","Accounts User"}`, time.Now()))

		user, err := repo.GetByLogin(ctx, "jane@example.com")

		require.NoError(t, err)
		assert.Equal(t, "jane", user.Name)
		assert.Equal(t, []string{"System Manager", "Accounts User"}, []string(user.Roles))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("FROM users WHERE name").WillReturnRows(userRows())
		mock.ExpectQuery("FROM users WHERE email").WillReturnRows(userRows())

		_, err := repo.GetByLogin(ctx, "nobody")

		assert.ErrorIs(t, err, customError.ErrUserNotFound)
	})
}

func TestUserRepository_SetAPICredentials(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET api_key").
		WithArgs("jane", "abc", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetAPICredentials(context.Background(), "jane", "abc", "hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByAPIKey_Empty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByAPIKey(context.Background(), "")

	assert.ErrorIs(t, err, customError.ErrUserNotFound)
}
