package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billmunshi/internal/csvexport"
	"billmunshi/internal/domain"
	"billmunshi/internal/export"
	"billmunshi/internal/service"
	"billmunshi/internal/validator"
)

// CreateBillInput is the request body for bill creation.
type CreateBillInput struct {
	FileID uuid.UUID       `json:"file_id" binding:"required"`
	Kind   domain.BillKind `json:"kind" binding:"required"`
}

// BillHandler handles the bill lifecycle endpoints.
type BillHandler struct {
	billService   service.BillService
	ledgerService service.LedgerService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService service.BillService, ledgerService service.LedgerService) *BillHandler {
	return &BillHandler{billService: billService, ledgerService: ledgerService}
}

// Create handles POST /api/v1/bills.
func (h *BillHandler) Create(c *gin.Context) {
	orgID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input CreateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if input.Kind != domain.BillKindVendor && input.Kind != domain.BillKindExpense {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind must be vendor or expense")
		return
	}

	bill, err := h.billService.CreateFromFile(c.Request.Context(), orgID, userID, input.FileID, input.Kind)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, bill)
}

// Get handles GET /api/v1/bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid bill id")
		return
	}

	detail, err := h.billService.Get(c.Request.Context(), orgID, billID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// List handles GET /api/v1/bills.
func (h *BillHandler) List(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	status := domain.BillStatus(c.Query("status"))
	if status != "" && !domain.ValidBillStatus(status) {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "unknown status filter")
		return
	}

	bills, total, err := h.billService.List(c.Request.Context(), orgID, status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, bills, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Analyze handles POST /api/v1/bills/:id/analyze.
func (h *BillHandler) Analyze(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid bill id")
		return
	}

	detail, err := h.billService.Analyze(c.Request.Context(), orgID, billID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Verify handles POST /api/v1/bills/:id/verify.
func (h *BillHandler) Verify(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid bill id")
		return
	}

	var input service.VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	posting, err := h.billService.Verify(c.Request.Context(), orgID, billID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, posting)
}

// Sync handles POST /api/v1/bills/:id/sync.
func (h *BillHandler) Sync(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid bill id")
		return
	}

	if err := h.billService.Sync(c.Request.Context(), orgID, billID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": domain.BillStatusSynced})
}

// Posting handles GET /api/v1/bills/:id/posting.
func (h *BillHandler) Posting(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid bill id")
		return
	}

	posting, err := h.billService.Posting(c.Request.Context(), orgID, billID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, posting)
}

// Checks handles GET /api/v1/bills/:id/checks.
func (h *BillHandler) Checks(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid bill id")
		return
	}

	results, err := h.billService.Checks(c.Request.Context(), orgID, billID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results, "failed": len(validator.Failed(results))})
}

// Export handles GET /api/v1/bills/export. It streams every synced voucher
// as an xlsx workbook, or as CSV with ?format=csv.
func (h *BillHandler) Export(c *gin.Context) {
	orgID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	vouchers, err := h.ledgerService.SyncedVouchers(c.Request.Context(), orgID)
	if err != nil {
		HandleError(c, err)
		return
	}

	stamp := time.Now().Format("2006-01-02")
	if c.Query("format") == "csv" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="synced-bills-%s.csv"`, stamp))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := csvexport.WriteSynced(c.Writer, vouchers); err != nil {
			HandleError(c, err)
		}
		return
	}

	workbook, err := export.SyncedWorkbook(vouchers)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer func() { _ = workbook.Close() }()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="synced-bills-%s.xlsx"`, stamp))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		HandleError(c, err)
	}
}
