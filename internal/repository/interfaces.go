package repository

import (
	"context"
	"time"

	"github.com/segyhp/equipment-lease/internal/domain"

	"github.com/google/uuid"
)

// ContractRepository defines the interface for lease contract data operations
type ContractRepository interface {
	// Create inserts a contract together with its payment schedule
	Create(ctx context.Context, contract *domain.LeaseContract) error

	// GetByName retrieves a contract and its schedule ordered by idx
	GetByName(ctx context.Context, name string) (*domain.LeaseContract, error)

	// Update saves the contract if its version still matches and replaces the
	// schedule rows in the same transaction. On success contract.Version is
	// the new version.
	Update(ctx context.Context, contract *domain.LeaseContract) error

	// ListSubmittedNames returns the names of all submitted contracts
	ListSubmittedNames(ctx context.Context) ([]string, error)

	// ClaimScheduleRow links an invoice to a row that has none yet. It
	// reports false when the row was already claimed.
	ClaimScheduleRow(ctx context.Context, rowID uuid.UUID, invoice, status string) (bool, error)

	// UpdateScheduleStatus sets the status of one schedule row
	UpdateScheduleStatus(ctx context.Context, rowID uuid.UUID, status string) error

	// Touch bumps the contract version after row-level changes
	Touch(ctx context.Context, name string) error
}

// InvoiceRepository defines the interface for sales invoice data operations
type InvoiceRepository interface {
	// Create inserts an invoice and its items
	Create(ctx context.Context, invoice *domain.Invoice) error

	// GetByName retrieves an invoice with its items
	GetByName(ctx context.Context, name string) (*domain.Invoice, error)

	// GetStatus returns only the status of an invoice
	GetStatus(ctx context.Context, name string) (string, error)

	// Update saves docstatus, status and outstanding amount
	Update(ctx context.Context, invoice *domain.Invoice) error

	// MarkOverdue moves open invoices due before today to Overdue
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

// ItemRepository defines the interface for item master data operations
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByCode(ctx context.Context, itemCode string) (*domain.Item, error)

	// FindByAsset returns the rent item linked to an asset
	FindByAsset(ctx context.Context, asset string) (*domain.Item, error)
}

// AssetRepository defines the interface for asset data operations
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	ExistsByNameAndItem(ctx context.Context, assetName, itemCode string) (bool, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByName(ctx context.Context, name string) (*domain.User, error)

	// GetByLogin looks a user up by name first, then by email
	GetByLogin(ctx context.Context, login string) (*domain.User, error)

	GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)

	// SetAPICredentials stores the api key and the hash of its secret
	SetAPICredentials(ctx context.Context, name, apiKey, secretHash string) error
}
