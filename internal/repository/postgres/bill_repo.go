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

type billRepo struct {
	db *sqlx.DB
}

// NewBillRepo creates a new PostgreSQL-backed BillRepository.
func NewBillRepo(db *sqlx.DB) port.BillRepository {
	return &billRepo{db: db}
}

func (r *billRepo) Create(ctx context.Context, bill *domain.Bill) error {
	bill.ID = uuid.New()
	now := time.Now().UTC()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	query := `INSERT INTO bills (id, org_id, file_id, name, kind, status, analysed_data, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		bill.ID, bill.OrgID, bill.FileID, bill.Name, bill.Kind, bill.Status,
		bill.AnalysedData, bill.CreatedBy, bill.CreatedAt, bill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("billRepo.Create: %w", err)
	}
	return nil
}

func (r *billRepo) GetByID(ctx context.Context, orgID, billID uuid.UUID) (*domain.Bill, error) {
	var bill domain.Bill
	err := r.db.GetContext(ctx, &bill,
		"SELECT * FROM bills WHERE id = $1 AND org_id = $2", billID, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("billRepo.GetByID: %w", err)
	}
	return &bill, nil
}

func (r *billRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, status domain.BillStatus, offset, limit int) ([]domain.Bill, int, error) {
	where := "org_id = $1"
	args := []interface{}{orgID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bills WHERE "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("billRepo.ListByOrg count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM bills WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var bills []domain.Bill
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, 0, fmt.Errorf("billRepo.ListByOrg: %w", err)
	}
	return bills, total, nil
}

func (r *billRepo) CountByKind(ctx context.Context, orgID uuid.UUID, kind domain.BillKind) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM bills WHERE org_id = $1 AND kind = $2", orgID, kind)
	if err != nil {
		return 0, fmt.Errorf("billRepo.CountByKind: %w", err)
	}
	return count, nil
}

// UpdateStatus commits a lifecycle transition with a compare-and-swap on the
// persisted status. When zero rows match, another request won the race (or
// the caller's view was stale); the error names the status actually stored
// so two concurrent syncs produce exactly one success.
func (r *billRepo) UpdateStatus(ctx context.Context, orgID, billID uuid.UUID, from, to domain.BillStatus) error {
	if err := domain.CheckTransition(from, to); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE bills SET status = $1, updated_at = $2 WHERE id = $3 AND org_id = $4 AND status = $5",
		to, time.Now().UTC(), billID, orgID, from)
	if err != nil {
		return fmt.Errorf("billRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		current, gerr := r.GetByID(ctx, orgID, billID)
		if gerr != nil {
			return gerr
		}
		return &domain.IllegalTransitionError{From: current.Status, To: to}
	}
	return nil
}

func (r *billRepo) SetAnalysedData(ctx context.Context, orgID, billID uuid.UUID, raw []byte) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE bills SET analysed_data = $1, updated_at = $2 WHERE id = $3 AND org_id = $4",
		raw, time.Now().UTC(), billID, orgID)
	if err != nil {
		return fmt.Errorf("billRepo.SetAnalysedData: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}
