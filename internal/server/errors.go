package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contactManagement/internal/service"
)

// writeError maps service errors to transport status codes. Policy
// denials keep their distinct shapes: forbidden and inactive are both
// 403 but with different messages, while not-found never reveals whether
// the target exists.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": verr.Fields})
	case errors.Is(err, service.ErrInactive):
		c.JSON(http.StatusForbidden, gin.H{"detail": "user account is inactive"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "access denied"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"detail": "already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}
