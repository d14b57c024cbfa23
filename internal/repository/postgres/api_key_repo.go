package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billmunshi/internal/domain"
	"billmunshi/internal/port"
)

type apiKeyRepo struct {
	db *sqlx.DB
}

// NewAPIKeyRepo creates a new PostgreSQL-backed APIKeyRepository.
func NewAPIKeyRepo(db *sqlx.DB) port.APIKeyRepository {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) Create(ctx context.Context, key *domain.APIKey) error {
	key.ID = uuid.New()
	key.CreatedAt = time.Now().UTC()

	query := `INSERT INTO api_keys (id, org_id, key_hash, label, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		key.ID, key.OrgID, key.KeyHash, key.Label, key.IsActive, key.CreatedAt)
	if err != nil {
		return fmt.Errorf("apiKeyRepo.Create: %w", err)
	}
	return nil
}

func (r *apiKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	var key domain.APIKey
	err := r.db.GetContext(ctx, &key,
		"SELECT * FROM api_keys WHERE key_hash = $1 AND is_active = TRUE", keyHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("apiKeyRepo.GetByHash: %w", err)
	}
	return &key, nil
}

func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE api_keys SET last_used = $1 WHERE id = $2", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("apiKeyRepo.TouchLastUsed: %w", err)
	}
	return nil
}
