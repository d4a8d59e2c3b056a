package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header is missing or not on
// the configured allow-list.
func APIKeyAuth(keys []string) gin.HandlerFunc {
	valid := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		valid[k] = struct{}{}
	}

	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if _, ok := valid[key]; key == "" || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "invalid or missing API key",
				Code:    http.StatusUnauthorized,
			})
			return
		}
		c.Next()
	}
}
