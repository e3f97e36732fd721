package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/equipment-lease/internal/domain"
	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const userColumns = `name, email, full_name, user_type, enabled, password_hash, api_key, api_secret_hash, roles, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name)
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	user, err := r.GetByName(ctx, login)
	if !errors.Is(err, customError.ErrUserNotFound) {
		return user, err
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, login)
}

func (r *userRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	if apiKey == "" {
		return nil, customError.ErrUserNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE api_key = $1`, apiKey)
}

func (r *userRepository) SetAPICredentials(ctx context.Context, name, apiKey, secretHash string) error {
	query := `
		UPDATE users
		SET api_key = $2, api_secret_hash = $3, updated_at = $4
		WHERE name = $1
	`

	result, err := r.db.ExecContext(ctx, query, name, apiKey, secretHash, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, query, arg string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
