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
	"billmunshi/internal/ledger"
	"billmunshi/internal/port"
)

type ledgerRepo struct {
	db *sqlx.DB
}

// NewLedgerRepo creates a new PostgreSQL-backed LedgerRepository.
func NewLedgerRepo(db *sqlx.DB) port.LedgerRepository {
	return &ledgerRepo{db: db}
}

// SyncDirectory reconciles the organization's ledger directory with a full
// dump from the bridge, in one transaction. Rows matching an existing ledger
// (by master id, else by name) keep their id so foreign keys and stored
// postings survive the push; only vanished rows are deleted.
func (r *ledgerRepo) SyncDirectory(ctx context.Context, orgID uuid.UUID, ledgers []domain.Ledger) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledgerRepo.SyncDirectory begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing []domain.Ledger
	if err := tx.SelectContext(ctx, &existing,
		"SELECT * FROM ledgers WHERE org_id = $1 FOR UPDATE", orgID); err != nil {
		return fmt.Errorf("ledgerRepo.SyncDirectory select: %w", err)
	}

	upserts, removed := ledger.MergeDirectory(existing, ledgers)

	query := `INSERT INTO ledgers (id, org_id, name, parent, alias, company, gstin, opening_balance, master_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, parent = EXCLUDED.parent, alias = EXCLUDED.alias,
			company = EXCLUDED.company, gstin = EXCLUDED.gstin,
			opening_balance = EXCLUDED.opening_balance, master_id = EXCLUDED.master_id`
	now := time.Now().UTC()
	for i := range upserts {
		upserts[i].OrgID = orgID
		if upserts[i].CreatedAt.IsZero() {
			upserts[i].CreatedAt = now
		}
		l := &upserts[i]
		if _, err := tx.ExecContext(ctx, query,
			l.ID, l.OrgID, l.Name, l.Parent, l.Alias, l.Company, l.GSTIN,
			l.OpeningBalance, l.MasterID, l.CreatedAt); err != nil {
			return fmt.Errorf("ledgerRepo.SyncDirectory upsert: %w", err)
		}
	}
	for _, id := range removed {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM ledgers WHERE id = $1 AND org_id = $2", id, orgID); err != nil {
			return fmt.Errorf("ledgerRepo.SyncDirectory delete: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ledgerRepo.SyncDirectory commit: %w", err)
	}
	return nil
}

func (r *ledgerRepo) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]domain.Ledger, error) {
	var ledgers []domain.Ledger
	err := r.db.SelectContext(ctx, &ledgers,
		"SELECT * FROM ledgers WHERE org_id = $1 ORDER BY name ASC", orgID)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.ListByOrg: %w", err)
	}
	return ledgers, nil
}

func (r *ledgerRepo) GetByID(ctx context.Context, orgID, ledgerID uuid.UUID) (*domain.Ledger, error) {
	var l domain.Ledger
	err := r.db.GetContext(ctx, &l,
		"SELECT * FROM ledgers WHERE id = $1 AND org_id = $2", ledgerID, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLedgerNotFound
		}
		return nil, fmt.Errorf("ledgerRepo.GetByID: %w", err)
	}
	return &l, nil
}
