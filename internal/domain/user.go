package domain

import (
	"time"

	"github.com/lib/pq"
)

// RoleSystemManager may manage credentials of other users
const RoleSystemManager = "System Manager"

// UserGuest is the identity of unauthenticated callers
const UserGuest = "Guest"

// User is an identity record
type User struct {
	Name          string         `json:"name" db:"name"`
	Email         string         `json:"email" db:"email"`
	FullName      string         `json:"full_name" db:"full_name"`
	UserType      string         `json:"user_type" db:"user_type"`
	Enabled       bool           `json:"enabled" db:"enabled"`
	PasswordHash  string         `json:"-" db:"password_hash"`
	APIKey        string         `json:"api_key" db:"api_key"`
	APISecretHash string         `json:"-" db:"api_secret_hash"`
	Roles         pq.StringArray `json:"roles" db:"roles"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Identity is the authenticated caller, passed explicitly to services
type Identity struct {
	User  string
	Roles []string
}

// HasRole reports whether the identity carries role
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsGuest reports whether the identity is unauthenticated
func (i Identity) IsGuest() bool {
	return i.User == "" || i.User == UserGuest
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User        string    `json:"user"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	APIKey      string    `json:"api_key"`
	APISecret   string    `json:"api_secret"`
	GeneratedAt time.Time `json:"generated_at"`
	SID         string    `json:"sid"`
	UserID      string    `json:"user_id"`
	UserType    string    `json:"user_type"`
	Roles       []string  `json:"role"`
}

type RegenerateAPIKeyRequest struct {
	User string `json:"user"`
}

type APICredentials struct {
	APIKey      string    `json:"api_key"`
	APISecret   string    `json:"api_secret"`
	GeneratedAt time.Time `json:"generated_at"`
}

type APICredentialsView struct {
	User         string `json:"user"`
	APIKey       string `json:"api_key"`
	HasAPISecret bool   `json:"has_api_secret"`
	APISecret    string `json:"api_secret"`
}
