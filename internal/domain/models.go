package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Organization represents an isolated tenant.
type Organization struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to an organization.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OrgID        uuid.UUID `db:"org_id" json:"org_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// APIKey is an organization-scoped key used by the legacy bridge endpoints.
type APIKey struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	OrgID     uuid.UUID  `db:"org_id" json:"org_id"`
	KeyHash   string     `db:"key_hash" json:"-"`
	Label     string     `db:"label" json:"label"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	LastUsed  *time.Time `db:"last_used" json:"last_used"`
}

// Ledger is a named account in the organization's chart of accounts,
// as pushed by the legacy bridge.
type Ledger struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrgID          uuid.UUID `db:"org_id" json:"org_id"`
	Name           string    `db:"name" json:"name"`
	Parent         string    `db:"parent" json:"parent"`
	Alias          string    `db:"alias" json:"alias"`
	Company        string    `db:"company" json:"company"`
	GSTIN          string    `db:"gstin" json:"gstin"`
	OpeningBalance string    `db:"opening_balance" json:"opening_balance"`
	MasterID       string    `db:"master_id" json:"master_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// FileMeta stores metadata about an uploaded bill file.
type FileMeta struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OrgID        uuid.UUID `db:"org_id" json:"org_id"`
	UploadedBy   uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	FileName     string    `db:"file_name" json:"file_name"`
	OriginalName string    `db:"original_name" json:"original_name"`
	FileType     FileType  `db:"file_type" json:"file_type"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	S3Bucket     string    `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string    `db:"s3_key" json:"s3_key"`
	ContentType  string    `db:"content_type" json:"content_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Bill is one uploaded invoice moving through the Draft -> Analysed ->
// Verified -> Synced lifecycle. AnalysedData holds the raw analyzer output
// exactly as received; the canonical form lives on the AnalyzedBill.
type Bill struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OrgID        uuid.UUID  `db:"org_id" json:"org_id"`
	FileID       uuid.UUID  `db:"file_id" json:"file_id"`
	Name         string     `db:"name" json:"name"`
	Kind         BillKind   `db:"kind" json:"kind"`
	Status       BillStatus `db:"status" json:"status"`
	AnalysedData []byte     `db:"analysed_data" json:"analysed_data,omitempty"`
	CreatedBy    uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AnalyzedBill is the structured header produced at the Draft -> Analysed
// transition and corrected during verification. One per bill; superseded
// only if the bill is re-analysed.
type AnalyzedBill struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	OrgID      uuid.UUID       `db:"org_id" json:"org_id"`
	BillID     uuid.UUID       `db:"bill_id" json:"bill_id"`
	VendorID   *uuid.UUID      `db:"vendor_id" json:"vendor_id"`
	VendorSide EntrySide       `db:"vendor_side" json:"vendor_side"`
	Voucher    string          `db:"voucher" json:"voucher"`
	BillNo     string          `db:"bill_no" json:"bill_no"`
	BillDate   *time.Time      `db:"bill_date" json:"bill_date"`
	GSTType    GSTType         `db:"gst_type" json:"gst_type"`
	Total      decimal.Decimal `db:"total" json:"total"`
	IGST       decimal.Decimal `db:"igst" json:"igst"`
	IGSTLedger *uuid.UUID      `db:"igst_ledger" json:"igst_ledger"`
	CGST       decimal.Decimal `db:"cgst" json:"cgst"`
	CGSTLedger *uuid.UUID      `db:"cgst_ledger" json:"cgst_ledger"`
	SGST       decimal.Decimal `db:"sgst" json:"sgst"`
	SGSTLedger *uuid.UUID      `db:"sgst_ledger" json:"sgst_ledger"`
	Note       string          `db:"note" json:"note"`
	Posting    []byte          `db:"posting" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// BillLineItem is one normalized line on an analysed bill. For vendor bills
// the side is always debit and the per-line tax amounts are derived from
// TaxRate; for expense bills the side is operator-assigned.
type BillLineItem struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	OrgID          uuid.UUID       `db:"org_id" json:"org_id"`
	AnalyzedBillID uuid.UUID       `db:"analyzed_bill_id" json:"analyzed_bill_id"`
	ItemName       string          `db:"item_name" json:"item_name"`
	ItemDetails    string          `db:"item_details" json:"item_details"`
	COALedgerID    *uuid.UUID      `db:"coa_ledger_id" json:"coa_ledger_id"`
	Price          decimal.Decimal `db:"price" json:"price"`
	Quantity       int             `db:"quantity" json:"quantity"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	TaxRate        TaxRate         `db:"tax_rate" json:"tax_rate"`
	Side           EntrySide       `db:"side" json:"side"`
	IGST           decimal.Decimal `db:"igst" json:"igst"`
	CGST           decimal.Decimal `db:"cgst" json:"cgst"`
	SGST           decimal.Decimal `db:"sgst" json:"sgst"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
