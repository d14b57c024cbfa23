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

type orgRepo struct {
	db *sqlx.DB
}

// NewOrgRepo creates a new PostgreSQL-backed OrganizationRepository.
func NewOrgRepo(db *sqlx.DB) port.OrganizationRepository {
	return &orgRepo{db: db}
}

func (r *orgRepo) Create(ctx context.Context, org *domain.Organization) error {
	org.ID = uuid.New()
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now

	query := `INSERT INTO organizations (id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		org.ID, org.Name, org.Slug, org.IsActive, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("orgRepo.Create: %w", err)
	}
	return nil
}

func (r *orgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.GetContext(ctx, &org, "SELECT * FROM organizations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orgRepo.GetByID: %w", err)
	}
	return &org, nil
}

func (r *orgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.GetContext(ctx, &org, "SELECT * FROM organizations WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orgRepo.GetBySlug: %w", err)
	}
	return &org, nil
}

func (r *orgRepo) Update(ctx context.Context, org *domain.Organization) error {
	org.UpdatedAt = time.Now().UTC()
	query := `UPDATE organizations SET name = $1, slug = $2, is_active = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		org.Name, org.Slug, org.IsActive, org.UpdatedAt, org.ID)
	if err != nil {
		return fmt.Errorf("orgRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
