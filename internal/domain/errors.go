package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrOrgInactive          = errors.New("organization is inactive")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrBillNotFound         = errors.New("bill not found")
	ErrAnalyzedBillNotFound = errors.New("analysed bill not found")
	ErrLedgerNotFound       = errors.New("ledger not found")
	ErrInvalidAPIKey        = errors.New("invalid or unknown API key")
	ErrEmailTaken           = errors.New("email is already in use in this organization")
)

// IllegalTransitionError reports a rejected bill status transition. It names
// both the persisted current status and the requested one so concurrent
// callers can see exactly what they raced against.
type IllegalTransitionError struct {
	From BillStatus
	To   BillStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal bill status transition from %s to %s", e.From, e.To)
}

// TaxInconsistencyError reports an unrepresentable GST triple: a mixed
// IGST + CGST/SGST regime, an unequal CGST/SGST split, or a negative amount.
type TaxInconsistencyError struct {
	IGST   decimal.Decimal
	CGST   decimal.Decimal
	SGST   decimal.Decimal
	Reason string
}

func (e *TaxInconsistencyError) Error() string {
	return fmt.Sprintf("tax inconsistency (igst=%s cgst=%s sgst=%s): %s",
		e.IGST.StringFixed(2), e.CGST.StringFixed(2), e.SGST.StringFixed(2), e.Reason)
}

// UnbalancedPostingError reports debit and credit sides that were both
// populated yet do not agree. It is never auto-corrected.
type UnbalancedPostingError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedPostingError) Error() string {
	return fmt.Sprintf("posting does not balance: debit total %s, credit total %s, difference %s",
		e.Debit.StringFixed(2), e.Credit.StringFixed(2), e.Debit.Sub(e.Credit).Abs().StringFixed(2))
}

// TotalMismatchError reports a computed posting total that disagrees with the
// declared (human-verified) bill total beyond tolerance.
type TotalMismatchError struct {
	Declared decimal.Decimal
	Computed decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("declared total %s does not match computed total %s (delta %s)",
		e.Declared.StringFixed(2), e.Computed.StringFixed(2), e.Declared.Sub(e.Computed).Abs().StringFixed(2))
}

// MissingChartOfAccountsError reports a line item without an account
// reference at verification time.
type MissingChartOfAccountsError struct {
	LineIndex int
	ItemName  string
}

func (e *MissingChartOfAccountsError) Error() string {
	if e.ItemName != "" {
		return fmt.Sprintf("line item %d (%q) has no chart of accounts ledger assigned", e.LineIndex+1, e.ItemName)
	}
	return fmt.Sprintf("line item %d has no chart of accounts ledger assigned", e.LineIndex+1)
}

// UnresolvedLedgerNameError reports an account reference whose display name
// could not be resolved while rendering a bridge payload.
type UnresolvedLedgerNameError struct {
	LedgerID string
}

func (e *UnresolvedLedgerNameError) Error() string {
	return fmt.Sprintf("no display name found for ledger %s", e.LedgerID)
}

// AnalysisError wraps a failure from the document analyzer collaborator.
type AnalysisError struct {
	Provider string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed (%s): %v", e.Provider, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// SyncTransportError wraps a transport-level failure from the cloud books
// collaborator. The bill status is left unchanged when it occurs, so the
// sync may be retried safely.
type SyncTransportError struct {
	StatusCode int
	Err        error
}

func (e *SyncTransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("books sync transport failure (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("books sync transport failure: %v", e.Err)
}

func (e *SyncTransportError) Unwrap() error { return e.Err }
