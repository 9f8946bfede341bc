package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contactManagement/internal/service"
	"contactManagement/repository"
)

type contactRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Birthdate   string `json:"birthdate" binding:"required"`
	Info        string `json:"info"`
}

type contactPatchRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Birthdate   *string `json:"birthdate"`
	Info        *string `json:"info"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (s *Server) handleListContacts(c *gin.Context) {
	limit, offset := pagination(c)
	f := repository.ContactFilter{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
		Limit:     limit,
		Offset:    offset,
	}

	items, total, err := s.contacts.List(c.Request.Context(), subjectFrom(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: items, Total: total})
}

func (s *Server) handleCreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	created, err := s.contacts.Create(c.Request.Context(), subjectFrom(c), service.ContactInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthdate:   req.Birthdate,
		Info:        req.Info,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	contact, err := s.contacts.Get(c.Request.Context(), subjectFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (s *Server) handleOverwriteContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updated, err := s.contacts.Overwrite(c.Request.Context(), subjectFrom(c), id, service.ContactInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthdate:   req.Birthdate,
		Info:        req.Info,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleUpdateContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contactPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updated, err := s.contacts.UpdatePartial(c.Request.Context(), subjectFrom(c), id, service.ContactPatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthdate:   req.Birthdate,
		Info:        req.Info,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := s.contacts.Delete(c.Request.Context(), subjectFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (s *Server) handleCountContacts(c *gin.Context) {
	count, err := s.contacts.Count(c.Request.Context(), subjectFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, countResponse{Count: count})
}

func (s *Server) handleUpcomingBirthdays(c *gin.Context) {
	limit, offset := pagination(c)
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days <= 0 || days > 365 {
		days = 7
	}

	items, err := s.contacts.UpcomingBirthdays(c.Request.Context(), subjectFrom(c), days, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
