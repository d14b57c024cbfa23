package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billmunshi/internal/domain"
	"billmunshi/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes. Typed verification failures keep their full message so the operator
// sees exactly which figure disagrees.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		illegalTransition *domain.IllegalTransitionError
		taxInconsistency  *domain.TaxInconsistencyError
		unbalanced        *domain.UnbalancedPostingError
		totalMismatch     *domain.TotalMismatchError
		missingCOA        *domain.MissingChartOfAccountsError
		unresolvedName    *domain.UnresolvedLedgerNameError
		analysisErr       *domain.AnalysisError
		syncErr           *domain.SyncTransportError
	)

	switch {
	case errors.As(err, &illegalTransition):
		return http.StatusConflict, "ILLEGAL_TRANSITION", illegalTransition.Error()
	case errors.As(err, &taxInconsistency):
		return http.StatusUnprocessableEntity, "TAX_INCONSISTENCY", taxInconsistency.Error()
	case errors.As(err, &unbalanced):
		return http.StatusUnprocessableEntity, "UNBALANCED_POSTING", unbalanced.Error()
	case errors.As(err, &totalMismatch):
		return http.StatusUnprocessableEntity, "TOTAL_MISMATCH", totalMismatch.Error()
	case errors.As(err, &missingCOA):
		return http.StatusUnprocessableEntity, "MISSING_CHART_OF_ACCOUNTS", missingCOA.Error()
	case errors.As(err, &unresolvedName):
		return http.StatusUnprocessableEntity, "UNRESOLVED_LEDGER_NAME", unresolvedName.Error()
	case errors.As(err, &analysisErr):
		return http.StatusBadGateway, "ANALYSIS_FAILED", analysisErr.Error()
	case errors.As(err, &syncErr):
		return http.StatusBadGateway, "SYNC_FAILED", syncErr.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrBillNotFound):
		return http.StatusNotFound, "BILL_NOT_FOUND", "bill not found"
	case errors.Is(err, domain.ErrAnalyzedBillNotFound):
		return http.StatusNotFound, "ANALYZED_BILL_NOT_FOUND", "bill has not been analysed yet"
	case errors.Is(err, domain.ErrLedgerNotFound):
		return http.StatusNotFound, "LEDGER_NOT_FOUND", "ledger not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrInvalidAPIKey):
		return http.StatusUnauthorized, "INVALID_API_KEY", "invalid API key"
	case errors.Is(err, domain.ErrOrgInactive):
		return http.StatusForbidden, "ORG_INACTIVE", "organization is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "EMAIL_TAKEN", "email is already in use in this organization"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts org ID and user ID from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (orgID, userID uuid.UUID, ok bool) {
	var err error
	orgID, err = middleware.GetOrgID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing organization context")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, false
	}
	return orgID, userID, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
