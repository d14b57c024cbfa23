package domain

import "github.com/shopspring/decimal"

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// UserRole defines the role hierarchy within an organization.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// BillStatus represents the lifecycle of a bill. The only legal path is
// Draft -> Analysed -> Verified -> Synced; Synced is terminal.
type BillStatus string

const (
	BillStatusDraft    BillStatus = "Draft"
	BillStatusAnalysed BillStatus = "Analysed"
	BillStatusVerified BillStatus = "Verified"
	BillStatusSynced   BillStatus = "Synced"
)

// billStatusTransitions is the closed transition table for BillStatus.
var billStatusTransitions = map[BillStatus]BillStatus{
	BillStatusDraft:    BillStatusAnalysed,
	BillStatusAnalysed: BillStatusVerified,
	BillStatusVerified: BillStatusSynced,
}

// ValidBillStatus reports whether s is one of the four known statuses.
func ValidBillStatus(s BillStatus) bool {
	switch s {
	case BillStatusDraft, BillStatusAnalysed, BillStatusVerified, BillStatusSynced:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal status transition.
// Same-state no-ops, skips, and backward moves are all illegal.
func CanTransition(from, to BillStatus) bool {
	next, ok := billStatusTransitions[from]
	return ok && next == to
}

// CheckTransition returns an IllegalTransitionError unless from -> to is legal.
func CheckTransition(from, to BillStatus) error {
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}

// BillKind distinguishes vendor (purchase) bills from expense (journal) bills.
type BillKind string

const (
	BillKindVendor  BillKind = "vendor"
	BillKindExpense BillKind = "expense"
)

// GSTType classifies the tax regime of an analysed bill.
type GSTType string

const (
	GSTTypeIGST     GSTType = "IGST"
	GSTTypeCGSTSGST GSTType = "CGST_SGST"
	GSTTypeUnknown  GSTType = "Unknown"
)

// EntrySide tags a ledger entry or line item as debit or credit.
type EntrySide string

const (
	SideDebit  EntrySide = "debit"
	SideCredit EntrySide = "credit"
)

// Opposite returns the counter side.
func (s EntrySide) Opposite() EntrySide {
	if s == SideDebit {
		return SideCredit
	}
	return SideDebit
}

// TaxRate is the GST slab assigned to a line item.
type TaxRate string

const (
	TaxRateZero     TaxRate = "0%"
	TaxRate5        TaxRate = "5%"
	TaxRate12       TaxRate = "12%"
	TaxRate18       TaxRate = "18%"
	TaxRate28       TaxRate = "28%"
	TaxRateExempted TaxRate = "Exempted"
	TaxRateNA       TaxRate = "N/A"
)

var taxRatePercents = map[TaxRate]decimal.Decimal{
	TaxRateZero: decimal.Zero,
	TaxRate5:    decimal.NewFromInt(5),
	TaxRate12:   decimal.NewFromInt(12),
	TaxRate18:   decimal.NewFromInt(18),
	TaxRate28:   decimal.NewFromInt(28),
}

// Percent returns the numeric percentage for a slab. Exempted and N/A
// carry no tax and report ok = false.
func (r TaxRate) Percent() (decimal.Decimal, bool) {
	p, ok := taxRatePercents[r]
	return p, ok
}

// ValidTaxRate reports whether r is a known slab value.
func ValidTaxRate(r TaxRate) bool {
	if _, ok := taxRatePercents[r]; ok {
		return true
	}
	return r == TaxRateExempted || r == TaxRateNA
}
