package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billmunshi/internal/domain"
	"billmunshi/internal/port"
)

type analyzedBillRepo struct {
	db *sqlx.DB
}

// NewAnalyzedBillRepo creates a new PostgreSQL-backed AnalyzedBillRepository.
func NewAnalyzedBillRepo(db *sqlx.DB) port.AnalyzedBillRepository {
	return &analyzedBillRepo{db: db}
}

const insertHeaderQuery = `INSERT INTO analyzed_bills (id, org_id, bill_id, vendor_id, vendor_side, voucher,
		bill_no, bill_date, gst_type, total, igst, igst_ledger, cgst, cgst_ledger, sgst, sgst_ledger, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

const insertLineQuery = `INSERT INTO bill_line_items (id, org_id, analyzed_bill_id, item_name, item_details,
		coa_ledger_id, price, quantity, amount, tax_rate, side, igst, cgst, sgst, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// Replace supersedes any previous analysed record for the bill: the old
// header, its lines and its posting are removed and the new set inserted in
// one transaction.
func (r *analyzedBillRepo) Replace(ctx context.Context, bill *domain.AnalyzedBill, items []domain.BillLineItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("analyzedBillRepo.Replace begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM analyzed_bills WHERE bill_id = $1 AND org_id = $2",
		bill.BillID, bill.OrgID); err != nil {
		return fmt.Errorf("analyzedBillRepo.Replace delete: %w", err)
	}

	bill.ID = uuid.New()
	bill.CreatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, insertHeaderQuery,
		bill.ID, bill.OrgID, bill.BillID, bill.VendorID, bill.VendorSide, bill.Voucher,
		bill.BillNo, bill.BillDate, bill.GSTType, bill.Total, bill.IGST, bill.IGSTLedger,
		bill.CGST, bill.CGSTLedger, bill.SGST, bill.SGSTLedger, bill.Note, bill.CreatedAt); err != nil {
		return fmt.Errorf("analyzedBillRepo.Replace header: %w", err)
	}

	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrgID = bill.OrgID
		items[i].AnalyzedBillID = bill.ID
		items[i].CreatedAt = bill.CreatedAt
		it := &items[i]
		if _, err := tx.ExecContext(ctx, insertLineQuery,
			it.ID, it.OrgID, it.AnalyzedBillID, it.ItemName, it.ItemDetails,
			it.COALedgerID, it.Price, it.Quantity, it.Amount, it.TaxRate, it.Side,
			it.IGST, it.CGST, it.SGST, it.CreatedAt); err != nil {
			return fmt.Errorf("analyzedBillRepo.Replace line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("analyzedBillRepo.Replace commit: %w", err)
	}
	return nil
}

func (r *analyzedBillRepo) GetByBillID(ctx context.Context, orgID, billID uuid.UUID) (*domain.AnalyzedBill, []domain.BillLineItem, error) {
	var bill domain.AnalyzedBill
	err := r.db.GetContext(ctx, &bill,
		"SELECT * FROM analyzed_bills WHERE bill_id = $1 AND org_id = $2", billID, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrAnalyzedBillNotFound
		}
		return nil, nil, fmt.Errorf("analyzedBillRepo.GetByBillID: %w", err)
	}

	var items []domain.BillLineItem
	err = r.db.SelectContext(ctx, &items,
		"SELECT * FROM bill_line_items WHERE analyzed_bill_id = $1 ORDER BY created_at ASC, id ASC", bill.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("analyzedBillRepo.GetByBillID lines: %w", err)
	}
	return &bill, items, nil
}

func (r *analyzedBillRepo) UpdateHeader(ctx context.Context, bill *domain.AnalyzedBill) error {
	query := `UPDATE analyzed_bills SET vendor_id = $1, vendor_side = $2, voucher = $3, bill_no = $4,
			bill_date = $5, gst_type = $6, total = $7, igst = $8, igst_ledger = $9,
			cgst = $10, cgst_ledger = $11, sgst = $12, sgst_ledger = $13, note = $14
		WHERE id = $15 AND org_id = $16`
	result, err := r.db.ExecContext(ctx, query,
		bill.VendorID, bill.VendorSide, bill.Voucher, bill.BillNo,
		bill.BillDate, bill.GSTType, bill.Total, bill.IGST, bill.IGSTLedger,
		bill.CGST, bill.CGSTLedger, bill.SGST, bill.SGSTLedger, bill.Note,
		bill.ID, bill.OrgID)
	if err != nil {
		return fmt.Errorf("analyzedBillRepo.UpdateHeader: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAnalyzedBillNotFound
	}
	return nil
}

func (r *analyzedBillRepo) UpdateLines(ctx context.Context, analyzedBillID uuid.UUID, items []domain.BillLineItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("analyzedBillRepo.UpdateLines begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM bill_line_items WHERE analyzed_bill_id = $1", analyzedBillID); err != nil {
		return fmt.Errorf("analyzedBillRepo.UpdateLines delete: %w", err)
	}

	now := time.Now().UTC()
	for i := range items {
		items[i].ID = uuid.New()
		items[i].AnalyzedBillID = analyzedBillID
		items[i].CreatedAt = now
		it := &items[i]
		if _, err := tx.ExecContext(ctx, insertLineQuery,
			it.ID, it.OrgID, it.AnalyzedBillID, it.ItemName, it.ItemDetails,
			it.COALedgerID, it.Price, it.Quantity, it.Amount, it.TaxRate, it.Side,
			it.IGST, it.CGST, it.SGST, it.CreatedAt); err != nil {
			return fmt.Errorf("analyzedBillRepo.UpdateLines line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("analyzedBillRepo.UpdateLines commit: %w", err)
	}
	return nil
}

func (r *analyzedBillRepo) SavePosting(ctx context.Context, orgID, analyzedBillID uuid.UUID, posting domain.Posting) error {
	raw, err := json.Marshal(posting)
	if err != nil {
		return fmt.Errorf("analyzedBillRepo.SavePosting marshal: %w", err)
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE analyzed_bills SET posting = $1 WHERE id = $2 AND org_id = $3",
		raw, analyzedBillID, orgID)
	if err != nil {
		return fmt.Errorf("analyzedBillRepo.SavePosting: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAnalyzedBillNotFound
	}
	return nil
}

func (r *analyzedBillRepo) GetPosting(ctx context.Context, orgID, analyzedBillID uuid.UUID) (*domain.Posting, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw,
		"SELECT posting FROM analyzed_bills WHERE id = $1 AND org_id = $2", analyzedBillID, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnalyzedBillNotFound
		}
		return nil, fmt.Errorf("analyzedBillRepo.GetPosting: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrNotFound
	}
	var posting domain.Posting
	if err := json.Unmarshal(raw, &posting); err != nil {
		return nil, fmt.Errorf("analyzedBillRepo.GetPosting unmarshal: %w", err)
	}
	return &posting, nil
}
