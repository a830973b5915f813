package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// @Summary Submit a contact request
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body models.CreateContactRequest true "Contact fields"
// @Success 201 {object} models.DataResponse "Created contact request"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /contact [post]
func (s *Server) handleSubmitContact(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	request, err := s.contactSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, request, "message received")
}

func (s *Server) handleListContacts(c *gin.Context) {
	page, perPage := pageParams(c)
	requests, total, err := s.contactSvc.List(c.Request.Context(), c.Query("status"), page, perPage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondPage(c, requests, page, perPage, total)
}

func (s *Server) handleContactStats(c *gin.Context) {
	stats, err := s.contactSvc.Stats(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, stats, "")
}

func (s *Server) handleNewContacts(c *gin.Context) {
	requests, err := s.contactSvc.ListNew(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, requests, "")
}

func (s *Server) handleInProgressContacts(c *gin.Context) {
	requests, err := s.contactSvc.ListInProgress(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, requests, "")
}

func (s *Server) handleSearchContacts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.writeError(c, apierr.Invalidf("query parameter q is required"))
		return
	}
	requests, err := s.contactSvc.Search(c.Request.Context(), query)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, requests, "")
}

func (s *Server) handleRecentContacts(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days < 1 {
		days = 7
	}
	requests, err := s.contactSvc.ListRecent(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, requests, "")
}

func (s *Server) handleContactsByEmail(c *gin.Context) {
	requests, err := s.contactSvc.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, requests, "")
}

func (s *Server) handleGetContact(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	request, err := s.contactSvc.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, request, "")
}

func (s *Server) handleUpdateContact(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	request, err := s.contactSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, request, "contact request updated")
}

func (s *Server) handleContactStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	request, err := s.contactSvc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, request, "status updated")
}

func (s *Server) handleContactNotes(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	request, err := s.contactSvc.SetNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, request, "notes updated")
}

func (s *Server) handleDeleteContact(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.contactSvc.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "contact request deleted")
}
