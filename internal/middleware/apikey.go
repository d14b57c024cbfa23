package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"billmunshi/internal/port"
)

// APIKeyAuth returns middleware for the legacy bridge endpoints. The bridge
// authenticates with an organization-scoped key in the X-API-Key header;
// only the SHA-256 of the key is stored.
func APIKeyAuth(keys port.APIKeyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-API-Key")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing X-API-Key header"},
			})
			return
		}

		sum := sha256.Sum256([]byte(raw))
		key, err := keys.GetByHash(c.Request.Context(), hex.EncodeToString(sum[:]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid API key"},
			})
			return
		}

		_ = keys.TouchLastUsed(c.Request.Context(), key.ID)
		c.Set(ContextKeyOrgID, key.OrgID)
		c.Next()
	}
}
