package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billmunshi/internal/bridge"
	"billmunshi/internal/middleware"
	"billmunshi/internal/service"
)

// BridgeHandler serves the legacy desktop bridge. The bridge pushes the
// ledger directory and pulls synced vouchers, authenticating with an
// organization API key.
type BridgeHandler struct {
	ledgerService service.LedgerService
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(ledgerService service.LedgerService) *BridgeHandler {
	return &BridgeHandler{ledgerService: ledgerService}
}

// IngestLedgers handles POST /bridge/v1/ledgers.
func (h *BridgeHandler) IngestLedgers(c *gin.Context) {
	orgID, err := middleware.GetOrgID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing organization context")
		return
	}

	var payload bridge.LedgerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(payload.Ledger) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "LEDGER list cannot be empty")
		return
	}

	count, err := h.ledgerService.IngestBridgeLedgers(c.Request.Context(), orgID, payload)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, gin.H{"ingested": count})
}

// SyncedVouchers handles GET /bridge/v1/vouchers.
func (h *BridgeHandler) SyncedVouchers(c *gin.Context) {
	orgID, err := middleware.GetOrgID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing organization context")
		return
	}

	resp, err := h.ledgerService.SyncedVouchers(c.Request.Context(), orgID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
