package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"billmunshi/internal/domain"
	"billmunshi/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "illegal transition is a conflict",
			err:        &domain.IllegalTransitionError{From: domain.BillStatusSynced, To: domain.BillStatusSynced},
			wantStatus: http.StatusConflict,
			wantCode:   "ILLEGAL_TRANSITION",
		},
		{
			name:       "tax inconsistency",
			err:        &domain.TaxInconsistencyError{Reason: "unequal split"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "TAX_INCONSISTENCY",
		},
		{
			name:       "unbalanced posting",
			err:        &domain.UnbalancedPostingError{Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(90)},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNBALANCED_POSTING",
		},
		{
			name:       "total mismatch",
			err:        &domain.TotalMismatchError{Declared: decimal.NewFromInt(100), Computed: decimal.NewFromInt(90)},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "TOTAL_MISMATCH",
		},
		{
			name:       "missing chart of accounts",
			err:        &domain.MissingChartOfAccountsError{LineIndex: 2, ItemName: "printer ink"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "MISSING_CHART_OF_ACCOUNTS",
		},
		{
			name:       "unresolved ledger name",
			err:        &domain.UnresolvedLedgerNameError{LedgerID: "x"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNRESOLVED_LEDGER_NAME",
		},
		{
			name:       "analysis failure is a bad gateway",
			err:        &domain.AnalysisError{Provider: "openai", Err: errors.New("timeout")},
			wantStatus: http.StatusBadGateway,
			wantCode:   "ANALYSIS_FAILED",
		},
		{
			name:       "sync transport failure is a bad gateway",
			err:        &domain.SyncTransportError{StatusCode: 503},
			wantStatus: http.StatusBadGateway,
			wantCode:   "SYNC_FAILED",
		},
		{
			name:       "wrapped typed error still matches",
			err:        fmt.Errorf("verifying bill: %w", &domain.TaxInconsistencyError{Reason: "negative"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "TAX_INCONSISTENCY",
		},
		{
			name:       "bill not found",
			err:        domain.ErrBillNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "BILL_NOT_FOUND",
		},
		{
			name:       "invalid credentials",
			err:        domain.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "unknown errors stay opaque",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, code)
		})
	}
}

func TestMapDomainError_KeepsVerificationDetail(t *testing.T) {
	err := &domain.TotalMismatchError{
		Declared: decimal.NewFromInt(12000),
		Computed: decimal.RequireFromString("11800"),
	}
	_, _, msg := handler.MapDomainError(err)
	assert.Contains(t, msg, "12000.00")
	assert.Contains(t, msg, "11800.00")
}
