package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contactManagement/internal/service"
	"contactManagement/models"
	"contactManagement/repository"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

type updateUserRequest struct {
	Username    *string `json:"username"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
	ResetAvatar bool    `json:"reset_avatar"`
}

type listResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) handleListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	f := repository.UserFilter{
		Username: c.Query("username"),
		Email:    c.Query("email"),
		Limit:    limit,
		Offset:   offset,
	}
	if role := c.Query("role"); role != "" {
		parsed, err := models.ParseRole(role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid role: " + role})
			return
		}
		f.Role = parsed
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid is_active value"})
			return
		}
		f.IsActive = &active
	}

	items, total, err := s.users.List(c.Request.Context(), subjectFrom(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: items, Total: total})
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	u, err := s.users.CreateByAdmin(c.Request.Context(), subjectFrom(c), req.Username, req.Email, req.Password, req.Role, req.IsActive)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) handleGetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := s.users.GetForAdmin(c.Request.Context(), subjectFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	u, err := s.users.UpdateByAdmin(c.Request.Context(), subjectFrom(c), id, service.AdminUserUpdate{
		Username:    req.Username,
		Role:        req.Role,
		IsActive:    req.IsActive,
		ResetAvatar: req.ResetAvatar,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := s.users.DeleteByAdmin(c.Request.Context(), subjectFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
