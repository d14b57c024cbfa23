package middleware_test

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"billmunshi/internal/domain"
	"billmunshi/internal/middleware"
	"billmunshi/mocks"
)

func bridgeRouter(keys *mocks.MockAPIKeyRepo) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var seenOrg uuid.UUID
	r := gin.New()
	r.GET("/bridge/v1/vouchers", middleware.APIKeyAuth(keys), func(c *gin.Context) {
		if orgID, err := middleware.GetOrgID(c); err == nil {
			seenOrg = orgID
		}
		c.Status(http.StatusOK)
	})
	return r, &seenOrg
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	keys := new(mocks.MockAPIKeyRepo)
	orgID := uuid.New()
	keyID := uuid.New()

	rawKey := "bridge-key-123"
	sum := sha256.Sum256([]byte(rawKey))
	hash := hex.EncodeToString(sum[:])

	keys.On("GetByHash", mock.Anything, hash).Return(&domain.APIKey{
		ID: keyID, OrgID: orgID, IsActive: true,
	}, nil)
	keys.On("TouchLastUsed", mock.Anything, keyID).Return(nil)

	r, seenOrg := bridgeRouter(keys)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bridge/v1/vouchers", nil)
	req.Header.Set("X-API-Key", rawKey)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orgID, *seenOrg)
	keys.AssertExpectations(t)
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	keys := new(mocks.MockAPIKeyRepo)
	r, _ := bridgeRouter(keys)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bridge/v1/vouchers", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	keys.AssertNotCalled(t, "GetByHash", mock.Anything, mock.Anything)
}

func TestAPIKeyAuth_UnknownKey(t *testing.T) {
	keys := new(mocks.MockAPIKeyRepo)
	keys.On("GetByHash", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidAPIKey)

	r, _ := bridgeRouter(keys)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bridge/v1/vouchers", nil)
	req.Header.Set("X-API-Key", "no-such-key")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	keys.AssertNotCalled(t, "TouchLastUsed", mock.Anything, mock.Anything)
}
