package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects requests without a valid admin bearer token.
func (h *Handler) RequireAdmin(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims, err := h.auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if !claims.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}

	c.Set("claims", claims)
	c.Next()
}
