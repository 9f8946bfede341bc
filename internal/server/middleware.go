package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contactManagement/internal/auth"
	"contactManagement/internal/policy"
)

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)
		start := time.Now()

		c.Next()

		s.log.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// requireAuth validates the Bearer token and resolves the subject against
// the user repository. It rejects only missing/invalid tokens and deleted
// accounts; an inactive subject passes through and is denied by the
// policy engine with its distinct verdict.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing or invalid authorization header"})
			return
		}

		userID, err := auth.ParseAccessToken(strings.TrimSpace(parts[1]), s.cfg.Auth.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}

		u, err := s.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}

		subject := &policy.Subject{ID: u.ID, Role: u.Role, IsActive: u.IsActive}
		c.Request = c.Request.WithContext(auth.WithSubject(c.Request.Context(), subject))
		c.Next()
	}
}

// subjectFrom returns the subject placed in the request context by
// requireAuth.
func subjectFrom(c *gin.Context) policy.Subject {
	if s, ok := auth.SubjectFromContext(c.Request.Context()); ok {
		return *s
	}
	return policy.Subject{}
}
