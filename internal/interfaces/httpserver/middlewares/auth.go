package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dynmcp/internal/interfaces/httpserver/responses"
)

const apiKeyHeader = "x-api-key"

// APIKeyAuth guards the admin surface: the x-api-key header must equal the
// configured key.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(apiKeyHeader) != apiKey || apiKey == "" {
			responses.Error(c, http.StatusUnauthorized, errors.New("invalid or missing API key"))
			return
		}
		c.Next()
	}
}
