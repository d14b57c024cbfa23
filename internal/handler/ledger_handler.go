package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billmunshi/internal/service"
)

// LedgerHandler handles ledger directory endpoints for app users.
type LedgerHandler struct {
	ledgerService service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List handles GET /api/v1/ledgers.
func (h *LedgerHandler) List(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	ledgers, err := h.ledgerService.List(c.Request.Context(), orgID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ledgers)
}

// ResolveVendor handles GET /api/v1/ledgers/resolve-vendor?name=...
func (h *LedgerHandler) ResolveVendor(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	name := c.Query("name")
	if name == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "missing name query parameter")
		return
	}

	vendor, err := h.ledgerService.ResolveVendor(c.Request.Context(), orgID, name)
	if err != nil {
		HandleError(c, err)
		return
	}
	// An unresolved vendor is a valid answer, not an error.
	RespondOK(c, gin.H{"vendor": vendor})
}
