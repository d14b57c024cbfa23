package port

import (
	"context"

	"github.com/google/uuid"

	"billmunshi/internal/domain"
)

// OrganizationRepository defines the contract for organization persistence.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
}

// UserRepository defines the contract for user persistence.
// All query methods include orgID to enforce tenant isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, orgID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*domain.User, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.User, int, error)
}

// APIKeyRepository defines the contract for bridge API key persistence.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
}

// FileMetaRepository defines the contract for file metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, orgID, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
}

// LedgerRepository defines the contract for the ledger directory.
// SyncDirectory takes a full dump and must preserve the ids of rows that
// match existing ledgers; bills reference ledgers by id.
type LedgerRepository interface {
	SyncDirectory(ctx context.Context, orgID uuid.UUID, ledgers []domain.Ledger) error
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]domain.Ledger, error)
	GetByID(ctx context.Context, orgID, ledgerID uuid.UUID) (*domain.Ledger, error)
}
